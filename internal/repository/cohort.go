package repository

import (
	"context"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
)

type CohortRepository interface {
	Create(ctx context.Context, c *domain.Cohort) (*domain.Cohort, error)
	FindByID(ctx context.Context, id string) (*domain.Cohort, error)
	List(ctx context.Context, page Page) (Paged[*domain.Cohort], error)
	Update(ctx context.Context, c *domain.Cohort) (*domain.Cohort, error)
	Delete(ctx context.Context, id string) error
}

type ClassRepository interface {
	// Create and Update return domain.ErrClassNameConflict on duplicate names.
	Create(ctx context.Context, c *domain.Class) (*domain.Class, error)
	FindByID(ctx context.Context, id string) (*domain.Class, error)
	List(ctx context.Context) ([]*domain.Class, error)
	Update(ctx context.Context, c *domain.Class) (*domain.Class, error)
	Delete(ctx context.Context, id string) error
}
