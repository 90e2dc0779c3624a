// Package memory implements the repositories in process memory. It backs
// ENV=local without a database and the end-to-end HTTP tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
	"github.com/google/uuid"
)

// Store holds every table behind one lock so multi-table writes (user
// deletion, cascades) are atomic.
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	users    map[string]*domain.User
	cohorts  map[string]*domain.Cohort
	classes  map[string]*domain.Class
	projects map[string]*domain.Project
	members  map[string]*domain.ProjectMember
	tasks    map[string]*domain.Task
	activity []*domain.ActivityLog
}

type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		users:    make(map[string]*domain.User),
		cohorts:  make(map[string]*domain.Cohort),
		classes:  make(map[string]*domain.Class),
		projects: make(map[string]*domain.Project),
		members:  make(map[string]*domain.ProjectMember),
		tasks:    make(map[string]*domain.Task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
func (s *Store) Cohorts() *CohortRepo { return &CohortRepo{s: s} }
func (s *Store) Classes() *ClassRepo { return &ClassRepo{s: s} }
func (s *Store) Projects() *ProjectRepo { return &ProjectRepo{s: s} }
func (s *Store) Members() *MemberRepo { return &MemberRepo{s: s} }
func (s *Store) Tasks() *TaskRepo { return &TaskRepo{s: s} }
func (s *Store) Activity() *ActivityRepo { return &ActivityRepo{s: s} }

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.CohortRepository   = (*CohortRepo)(nil)
	_ repository.ClassRepository    = (*ClassRepo)(nil)
	_ repository.ProjectRepository  = (*ProjectRepo)(nil)
	_ repository.MemberRepository   = (*MemberRepo)(nil)
	_ repository.TaskRepository     = (*TaskRepo)(nil)
	_ repository.ActivityRepository = (*ActivityRepo)(nil)
)

func newID() string { return uuid.NewString() }

// paginate sorts items newest first and cuts out the requested page.
func paginate[T any](items []T, page repository.Page, createdAt func(T) time.Time) repository.Paged[T] {
	page = page.Normalize()
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})

	res := repository.Paged[T]{Page: page, Total: len(items), Items: []T{}}
	start := page.Offset()
	if start >= len(items) {
		return res
	}
	end := min(start+page.Limit(), len(items))
	res.Items = items[start:end]
	return res
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
