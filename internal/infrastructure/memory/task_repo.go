package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type TaskRepo struct {
	s *Store
}

func cloneTask(t *domain.Task) *domain.Task {
	out := *t
	out.Description = cloneStr(t.Description)
	out.AssigneeID = cloneStr(t.AssigneeID)
	out.DueDate = cloneTime(t.DueDate)
	return &out
}

func (r *TaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[t.ProjectID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	stored := cloneTask(t)
	stored.ID = newID()
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.tasks[stored.ID] = stored
	return cloneTask(stored), nil
}

func (r *TaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// ListByProject returns tasks oldest first, the order they were put on the board.
func (r *TaskRepo) ListByProject(_ context.Context, projectID string) ([]*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Task{}
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TaskRepo) Update(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.tasks[t.ID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	stored := cloneTask(t)
	stored.ProjectID = cur.ProjectID
	stored.CreatedAt = cur.CreatedAt
	stored.UpdatedAt = r.s.now()
	r.s.tasks[t.ID] = stored
	return cloneTask(stored), nil
}

func (r *TaskRepo) SetStatus(_ context.Context, id string, status domain.TaskStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Status = status
	t.UpdatedAt = r.s.now()
	return nil
}

func (r *TaskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

type ActivityRepo struct {
	s *Store
}

func (r *ActivityRepo) Record(_ context.Context, userID, action string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry := &domain.ActivityLog{ID: newID(), Action: action, CreatedAt: r.s.now()}
	if userID != "" {
		entry.UserID = &userID
	}
	r.s.activity = append(r.s.activity, entry)
	return nil
}

func (r *ActivityRepo) List(_ context.Context, page repository.Page) (repository.Paged[*domain.ActivityLog], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*domain.ActivityLog, len(r.s.activity))
	for i, a := range r.s.activity {
		cp := *a
		cp.UserID = cloneStr(a.UserID)
		all[i] = &cp
	}
	return paginate(all, page, func(a *domain.ActivityLog) time.Time { return a.CreatedAt }), nil
}

func (r *ActivityRepo) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	kept := r.s.activity[:0]
	var n int64
	for _, a := range r.s.activity {
		if a.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, a)
	}
	r.s.activity = kept
	return n, nil
}
