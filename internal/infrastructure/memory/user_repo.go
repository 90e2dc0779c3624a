package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type UserRepo struct {
	s *Store
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.TwoFactorSecret = cloneStr(u.TwoFactorSecret)
	c.CohortID = cloneStr(u.CohortID)
	c.ClassID = cloneStr(u.ClassID)
	return &c
}

// emailTaken must be called with the lock held.
func (r *UserRepo) emailTaken(email, exceptID string) bool {
	for _, u := range r.s.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *UserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(u.Email, "") {
		return nil, domain.ErrDuplicateEmail
	}
	c := cloneUser(u)
	c.ID = newID()
	c.CreatedAt = r.s.now()
	c.UpdatedAt = c.CreatedAt
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) List(_ context.Context, page repository.Page) (repository.Paged[*domain.User], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		all = append(all, cloneUser(u))
	}
	return paginate(all, page, func(u *domain.User) time.Time { return u.CreatedAt }), nil
}

func (r *UserRepo) ListByClass(_ context.Context, classID string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*domain.User
	for _, u := range r.s.users {
		if u.ClassID != nil && *u.ClassID == classID && u.Role == domain.RoleStudent {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *UserRepo) UpdateProfile(_ context.Context, u *domain.User, passwordHash *string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[u.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return nil, domain.ErrDuplicateEmail
	}
	cur.Name = u.Name
	cur.Email = u.Email
	cur.Role = u.Role
	if passwordHash != nil {
		cur.PasswordHash = *passwordHash
	}
	cur.UpdatedAt = r.s.now()
	return cloneUser(cur), nil
}

// mutate applies fn to the stored user under the write lock.
func (r *UserRepo) mutate(id string, fn func(u *domain.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(u)
	u.UpdatedAt = r.s.now()
	return nil
}

func (r *UserRepo) SetTwoFactor(_ context.Context, id string, enabled bool, secret *string) error {
	return r.mutate(id, func(u *domain.User) {
		u.TwoFactorEnabled = enabled
		u.TwoFactorSecret = cloneStr(secret)
	})
}

func (r *UserRepo) MarkVerified(_ context.Context, id string) error {
	return r.mutate(id, func(u *domain.User) { u.IsVerified = true })
}

func (r *UserRepo) SetCohort(_ context.Context, id, cohortID string) error {
	return r.mutate(id, func(u *domain.User) { u.CohortID = &cohortID })
}

func (r *UserRepo) SetClass(_ context.Context, id, classID string) error {
	return r.mutate(id, func(u *domain.User) { u.ClassID = &classID })
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	for mid, m := range r.s.members {
		if m.UserID == id {
			delete(r.s.members, mid)
		}
	}
	for _, t := range r.s.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == id {
			t.AssigneeID = nil
		}
	}
	for _, p := range r.s.projects {
		if p.OwnerID != nil && *p.OwnerID == id {
			p.OwnerID = nil
		}
	}
	for _, a := range r.s.activity {
		if a.UserID != nil && *a.UserID == id {
			a.UserID = nil
		}
	}
	delete(r.s.users, id)
	return nil
}
