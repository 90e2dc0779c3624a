package repository

import (
	"context"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
)

type ListProjectsInput struct {
	// ViewerID restricts results to projects the viewer owns or is an
	// accepted member of, plus projects that left In Progress. Empty means no
	// restriction (admins).
	ViewerID string
	Track    string // case-insensitive tag filter, empty = all
	Page     Page
}

type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	// FindByID loads the project with its members.
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, input ListProjectsInput) (Paged[*domain.Project], error)
	Update(ctx context.Context, p *domain.Project) (*domain.Project, error)
	SetStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	Delete(ctx context.Context, id string) error
}

type MemberRepository interface {
	// Create returns domain.ErrAlreadyInvited if the user already has a row for the project.
	Create(ctx context.Context, m *domain.ProjectMember) (*domain.ProjectMember, error)
	Find(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error)
	SetStatus(ctx context.Context, id string, status domain.MemberStatus) error
	Delete(ctx context.Context, projectID, userID string) error
}

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) (*domain.Task, error)
	SetStatus(ctx context.Context, id string, status domain.TaskStatus) error
	Delete(ctx context.Context, id string) error
}
