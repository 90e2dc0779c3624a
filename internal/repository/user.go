package repository

import (
	"context"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
)

// UserRepository is the persistent half of the credential store.
// Every mutating method is a single atomic statement or transaction.
type UserRepository interface {
	// Create returns domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page Page) (Paged[*domain.User], error)
	ListByClass(ctx context.Context, classID string) ([]*domain.User, error)

	// UpdateProfile writes name, email and role, plus the password hash when
	// passwordHash is non-nil, in one statement.
	UpdateProfile(ctx context.Context, u *domain.User, passwordHash *string) (*domain.User, error)
	// SetTwoFactor flips the flag and the secret together.
	SetTwoFactor(ctx context.Context, id string, enabled bool, secret *string) error
	MarkVerified(ctx context.Context, id string) error
	SetCohort(ctx context.Context, id, cohortID string) error
	SetClass(ctx context.Context, id, classID string) error

	// Delete removes the user, their memberships, unassigns their tasks and
	// orphans their projects in one transaction.
	Delete(ctx context.Context, id string) error
}
