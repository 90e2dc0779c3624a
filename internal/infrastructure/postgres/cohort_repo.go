package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const cohortColumns = `id, name, description, start_date, end_date, created_at, updated_at`

type CohortRepository struct {
	pool *pgxpool.Pool
}

func NewCohortRepository(pool *pgxpool.Pool) *CohortRepository {
	return &CohortRepository{pool: pool}
}

func (r *CohortRepository) Create(ctx context.Context, c *domain.Cohort) (*domain.Cohort, error) {
	query := `
		INSERT INTO cohorts (name, description, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + cohortColumns
	return scanCohort(r.pool.QueryRow(ctx, query, c.Name, c.Description, c.StartDate, c.EndDate))
}

func (r *CohortRepository) FindByID(ctx context.Context, id string) (*domain.Cohort, error) {
	c, err := scanCohort(r.pool.QueryRow(ctx, `SELECT `+cohortColumns+` FROM cohorts WHERE id = $1`, id))
	if isInvalidID(err) {
		return nil, domain.ErrCohortNotFound
	}
	return c, err
}

func (r *CohortRepository) List(ctx context.Context, page repository.Page) (repository.Paged[*domain.Cohort], error) {
	res := repository.Paged[*domain.Cohort]{Page: page.Normalize(), Items: []*domain.Cohort{}}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM cohorts`).Scan(&res.Total); err != nil {
		return res, fmt.Errorf("count cohorts: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+cohortColumns+` FROM cohorts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		page.Limit(), page.Offset())
	if err != nil {
		return res, fmt.Errorf("list cohorts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCohort(rows)
		if err != nil {
			return res, err
		}
		res.Items = append(res.Items, c)
	}
	return res, rows.Err()
}

func (r *CohortRepository) Update(ctx context.Context, c *domain.Cohort) (*domain.Cohort, error) {
	query := `
		UPDATE cohorts
		SET name = $2, description = $3, start_date = $4, end_date = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + cohortColumns
	return scanCohort(r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Description, c.StartDate, c.EndDate))
}

// Delete relies on ON DELETE SET NULL to detach users and projects.
func (r *CohortRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cohorts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cohort: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCohortNotFound
	}
	return nil
}

func scanCohort(row pgx.Row) (*domain.Cohort, error) {
	var c domain.Cohort
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCohortNotFound
		}
		return nil, fmt.Errorf("scan cohort: %w", err)
	}
	return &c, nil
}

type ClassRepository struct {
	pool *pgxpool.Pool
}

func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func (r *ClassRepository) Create(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	created, err := scanClass(r.pool.QueryRow(ctx,
		`INSERT INTO classes (name) VALUES ($1) RETURNING id, name, created_at`, c.Name))
	if isUniqueViolation(err) {
		return nil, domain.ErrClassNameConflict
	}
	return created, err
}

func (r *ClassRepository) FindByID(ctx context.Context, id string) (*domain.Class, error) {
	c, err := scanClass(r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM classes WHERE id = $1`, id))
	if isInvalidID(err) {
		return nil, domain.ErrClassNotFound
	}
	return c, err
}

func (r *ClassRepository) List(ctx context.Context) ([]*domain.Class, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM classes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	classes := []*domain.Class{}
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *ClassRepository) Update(ctx context.Context, c *domain.Class) (*domain.Class, error) {
	updated, err := scanClass(r.pool.QueryRow(ctx,
		`UPDATE classes SET name = $2 WHERE id = $1 RETURNING id, name, created_at`, c.ID, c.Name))
	if isUniqueViolation(err) {
		return nil, domain.ErrClassNameConflict
	}
	return updated, err
}

func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrClassNotFound
	}
	return nil
}

func scanClass(row pgx.Row) (*domain.Class, error) {
	var c domain.Class
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClassNotFound
		}
		return nil, fmt.Errorf("scan class: %w", err)
	}
	return &c, nil
}
