package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Record(ctx context.Context, userID, action string) error {
	var uid *string
	if userID != "" {
		uid = &userID
	}
	if _, err := r.pool.Exec(ctx, `INSERT INTO activity_logs (user_id, action) VALUES ($1, $2)`, uid, action); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, page repository.Page) (repository.Paged[*domain.ActivityLog], error) {
	res := repository.Paged[*domain.ActivityLog]{Page: page.Normalize(), Items: []*domain.ActivityLog{}}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM activity_logs`).Scan(&res.Total); err != nil {
		return res, fmt.Errorf("count activity: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, action, created_at FROM activity_logs
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, page.Limit(), page.Offset())
	if err != nil {
		return res, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a domain.ActivityLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.Action, &a.CreatedAt); err != nil {
			return res, fmt.Errorf("scan activity: %w", err)
		}
		res.Items = append(res.Items, &a)
	}
	return res, rows.Err()
}

func (r *ActivityRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM activity_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	return tag.RowsAffected(), nil
}
