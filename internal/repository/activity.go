package repository

import (
	"context"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
)

type ActivityRepository interface {
	Record(ctx context.Context, userID, action string) error
	// List returns entries newest first.
	List(ctx context.Context, page Page) (Paged[*domain.ActivityLog], error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
