package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type CohortRepo struct {
	s *Store
}

func cloneCohort(c *domain.Cohort) *domain.Cohort {
	out := *c
	out.Description = cloneStr(c.Description)
	out.StartDate = cloneTime(c.StartDate)
	out.EndDate = cloneTime(c.EndDate)
	return &out
}

func (r *CohortRepo) Create(_ context.Context, c *domain.Cohort) (*domain.Cohort, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := cloneCohort(c)
	stored.ID = newID()
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.cohorts[stored.ID] = stored
	return cloneCohort(stored), nil
}

func (r *CohortRepo) FindByID(_ context.Context, id string) (*domain.Cohort, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cohorts[id]
	if !ok {
		return nil, domain.ErrCohortNotFound
	}
	return cloneCohort(c), nil
}

func (r *CohortRepo) List(_ context.Context, page repository.Page) (repository.Paged[*domain.Cohort], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*domain.Cohort, 0, len(r.s.cohorts))
	for _, c := range r.s.cohorts {
		all = append(all, cloneCohort(c))
	}
	return paginate(all, page, func(c *domain.Cohort) time.Time { return c.CreatedAt }), nil
}

func (r *CohortRepo) Update(_ context.Context, c *domain.Cohort) (*domain.Cohort, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.cohorts[c.ID]
	if !ok {
		return nil, domain.ErrCohortNotFound
	}
	stored := cloneCohort(c)
	stored.CreatedAt = cur.CreatedAt
	stored.UpdatedAt = r.s.now()
	r.s.cohorts[c.ID] = stored
	return cloneCohort(stored), nil
}

// Delete detaches users and projects from the cohort.
func (r *CohortRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cohorts[id]; !ok {
		return domain.ErrCohortNotFound
	}
	for _, u := range r.s.users {
		if u.CohortID != nil && *u.CohortID == id {
			u.CohortID = nil
		}
	}
	for _, p := range r.s.projects {
		if p.CohortID != nil && *p.CohortID == id {
			p.CohortID = nil
		}
	}
	delete(r.s.cohorts, id)
	return nil
}

type ClassRepo struct {
	s *Store
}

func (r *ClassRepo) nameTaken(name, exceptID string) bool {
	for _, c := range r.s.classes {
		if strings.EqualFold(c.Name, name) && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *ClassRepo) Create(_ context.Context, c *domain.Class) (*domain.Class, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(c.Name, "") {
		return nil, domain.ErrClassNameConflict
	}
	stored := &domain.Class{ID: newID(), Name: c.Name, CreatedAt: r.s.now()}
	r.s.classes[stored.ID] = stored
	out := *stored
	return &out, nil
}

func (r *ClassRepo) FindByID(_ context.Context, id string) (*domain.Class, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.classes[id]
	if !ok {
		return nil, domain.ErrClassNotFound
	}
	out := *c
	return &out, nil
}

func (r *ClassRepo) List(_ context.Context) ([]*domain.Class, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Class, 0, len(r.s.classes))
	for _, c := range r.s.classes {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ClassRepo) Update(_ context.Context, c *domain.Class) (*domain.Class, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.classes[c.ID]
	if !ok {
		return nil, domain.ErrClassNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return nil, domain.ErrClassNameConflict
	}
	cur.Name = c.Name
	out := *cur
	return &out, nil
}

func (r *ClassRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.classes[id]; !ok {
		return domain.ErrClassNotFound
	}
	for _, u := range r.s.users {
		if u.ClassID != nil && *u.ClassID == id {
			u.ClassID = nil
		}
	}
	for _, p := range r.s.projects {
		if p.ClassID != nil && *p.ClassID == id {
			p.ClassID = nil
		}
	}
	delete(r.s.classes, id)
	return nil
}
