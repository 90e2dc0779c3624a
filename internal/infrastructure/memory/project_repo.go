package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type ProjectRepo struct {
	s *Store
}

func cloneProject(p *domain.Project) *domain.Project {
	out := *p
	out.Description = cloneStr(p.Description)
	out.OwnerID = cloneStr(p.OwnerID)
	out.CohortID = cloneStr(p.CohortID)
	out.ClassID = cloneStr(p.ClassID)
	out.GithubLink = cloneStr(p.GithubLink)
	out.Tags = slices.Clone(p.Tags)
	out.Members = nil
	return &out
}

// withMembers must be called with the lock held.
func (r *ProjectRepo) withMembers(p *domain.Project) *domain.Project {
	out := cloneProject(p)
	for _, m := range r.s.members {
		if m.ProjectID == p.ID {
			mc := *m
			if u, ok := r.s.users[m.UserID]; ok {
				mc.UserEmail = u.Email
			}
			out.Members = append(out.Members, &mc)
		}
	}
	sort.Slice(out.Members, func(i, j int) bool { return out.Members[i].CreatedAt.Before(out.Members[j].CreatedAt) })
	return out
}

func (r *ProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := cloneProject(p)
	stored.ID = newID()
	stored.CreatedAt = r.s.now()
	stored.UpdatedAt = stored.CreatedAt
	if stored.Tags == nil {
		stored.Tags = []string{}
	}
	r.s.projects[stored.ID] = stored
	return r.withMembers(stored), nil
}

func (r *ProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return r.withMembers(p), nil
}

func (r *ProjectRepo) List(_ context.Context, in repository.ListProjectsInput) (repository.Paged[*domain.Project], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var all []*domain.Project
	for _, p := range r.s.projects {
		full := r.withMembers(p)
		if in.ViewerID != "" && !r.visible(full, in.ViewerID) {
			continue
		}
		if in.Track != "" && !slices.ContainsFunc(full.Tags, func(t string) bool { return strings.EqualFold(t, in.Track) }) {
			continue
		}
		all = append(all, full)
	}
	return paginate(all, in.Page, func(p *domain.Project) time.Time { return p.CreatedAt }), nil
}

func (r *ProjectRepo) visible(p *domain.Project, viewerID string) bool {
	if p.Status != domain.ProjectInProgress {
		return true
	}
	if p.OwnerID != nil && *p.OwnerID == viewerID {
		return true
	}
	return p.HasAcceptedMember(viewerID)
}

func (r *ProjectRepo) Update(_ context.Context, p *domain.Project) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.projects[p.ID]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	stored := cloneProject(p)
	stored.CreatedAt = cur.CreatedAt
	stored.UpdatedAt = r.s.now()
	r.s.projects[p.ID] = stored
	return r.withMembers(stored), nil
}

func (r *ProjectRepo) SetStatus(_ context.Context, id string, status domain.ProjectStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.Status = status
	p.UpdatedAt = r.s.now()
	return nil
}

// Delete removes the project with its members and tasks.
func (r *ProjectRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	for mid, m := range r.s.members {
		if m.ProjectID == id {
			delete(r.s.members, mid)
		}
	}
	for tid, t := range r.s.tasks {
		if t.ProjectID == id {
			delete(r.s.tasks, tid)
		}
	}
	delete(r.s.projects, id)
	return nil
}

type MemberRepo struct {
	s *Store
}

func (r *MemberRepo) Create(_ context.Context, m *domain.ProjectMember) (*domain.ProjectMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[m.ProjectID]; !ok {
		return nil, domain.ErrProjectNotFound
	}
	for _, cur := range r.s.members {
		if cur.ProjectID == m.ProjectID && cur.UserID == m.UserID {
			return nil, domain.ErrAlreadyInvited
		}
	}
	stored := *m
	stored.ID = newID()
	stored.CreatedAt = r.s.now()
	r.s.members[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *MemberRepo) Find(_ context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.members {
		if m.ProjectID == projectID && m.UserID == userID {
			out := *m
			return &out, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *MemberRepo) SetStatus(_ context.Context, id string, status domain.MemberStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	m.Status = status
	return nil
}

func (r *MemberRepo) Delete(_ context.Context, projectID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, m := range r.s.members {
		if m.ProjectID == projectID && m.UserID == userID {
			delete(r.s.members, id)
			return nil
		}
	}
	return domain.ErrMemberNotFound
}
