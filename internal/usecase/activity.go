package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

// ActivityRecorder appends to the audit trail. Recording never fails the
// operation that triggered it.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, action string)
}

type ActivityUsecase struct {
	repo   repository.ActivityRepository
	logger *slog.Logger
}

func NewActivityUsecase(repo repository.ActivityRepository, logger *slog.Logger) *ActivityUsecase {
	return &ActivityUsecase{repo: repo, logger: logger.With("component", "activity")}
}

func (u *ActivityUsecase) Record(ctx context.Context, userID, action string) {
	if err := u.repo.Record(ctx, userID, action); err != nil {
		u.logger.WarnContext(ctx, "record activity", "action", action, "error", err)
	}
}

func (u *ActivityUsecase) List(ctx context.Context, page repository.Page) (repository.Paged[*domain.ActivityLog], error) {
	res, err := u.repo.List(ctx, page.Normalize())
	if err != nil {
		return res, fmt.Errorf("list activity: %w", err)
	}
	return res, nil
}

// Prune deletes entries older than retention. A non-positive retention keeps everything.
func (u *ActivityUsecase) Prune(ctx context.Context, retention time.Duration, now time.Time) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	n, err := u.repo.DeleteBefore(ctx, now.Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	return n, nil
}
