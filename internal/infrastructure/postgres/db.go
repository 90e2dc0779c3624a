package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	cfg.MaxConns = 25
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 1 * time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates missing tables. It is idempotent and used by the seed
// command and local development; production schemas are managed outside the app.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const (
	codeUniqueViolation = "23505"
	codeInvalidText     = "22P02" // e.g. a malformed uuid in a path parameter
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

func isInvalidID(err error) bool { return pgCode(err) == codeInvalidText }

var (
	_ repository.UserRepository     = (*UserRepository)(nil)
	_ repository.CohortRepository   = (*CohortRepository)(nil)
	_ repository.ClassRepository    = (*ClassRepository)(nil)
	_ repository.ProjectRepository  = (*ProjectRepository)(nil)
	_ repository.MemberRepository   = (*MemberRepository)(nil)
	_ repository.TaskRepository     = (*TaskRepository)(nil)
	_ repository.ActivityRepository = (*ActivityRepository)(nil)
)
