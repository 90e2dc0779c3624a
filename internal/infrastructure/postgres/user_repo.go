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

const userColumns = `id, name, email, password_hash, role, is_verified,
	two_factor_enabled, two_factor_secret, cohort_id, class_id, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, is_verified, two_factor_enabled, two_factor_secret)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Role, u.IsVerified, u.TwoFactorEnabled, u.TwoFactorSecret,
	))
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicateEmail
	}
	return created, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if isInvalidID(err) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) List(ctx context.Context, page repository.Page) (repository.Paged[*domain.User], error) {
	res := repository.Paged[*domain.User]{Page: page.Normalize(), Items: []*domain.User{}}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&res.Total); err != nil {
		return res, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		page.Limit(), page.Offset())
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}
	res.Items, err = collectUsers(rows)
	return res, err
}

func (r *UserRepository) ListByClass(ctx context.Context, classID string) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE class_id = $1 AND role = $2 ORDER BY name`,
		classID, domain.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("list class users: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User, passwordHash *string) (*domain.User, error) {
	query := `
		UPDATE users SET name = $2, email = $3, role = $4,
			password_hash = COALESCE($5, password_hash), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.pool.QueryRow(ctx, query, u.ID, u.Name, u.Email, u.Role, passwordHash))
	switch {
	case isUniqueViolation(err):
		return nil, domain.ErrDuplicateEmail
	case isInvalidID(err):
		return nil, domain.ErrUserNotFound
	}
	return updated, err
}

// exec runs a single-row update and maps zero affected rows to ErrUserNotFound.
func (r *UserRepository) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if isInvalidID(err) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetTwoFactor(ctx context.Context, id string, enabled bool, secret *string) error {
	return r.exec(ctx, "set 2fa",
		`UPDATE users SET two_factor_enabled = $2, two_factor_secret = $3, updated_at = NOW() WHERE id = $1`,
		id, enabled, secret)
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	return r.exec(ctx, "mark verified",
		`UPDATE users SET is_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
}

func (r *UserRepository) SetCohort(ctx context.Context, id, cohortID string) error {
	return r.exec(ctx, "set cohort",
		`UPDATE users SET cohort_id = $2, updated_at = NOW() WHERE id = $1`, id, cohortID)
}

func (r *UserRepository) SetClass(ctx context.Context, id, classID string) error {
	return r.exec(ctx, "set class",
		`UPDATE users SET class_id = $2, updated_at = NOW() WHERE id = $1`, id, classID)
}

// Delete detaches everything that references the user, then removes it, in
// one transaction.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		steps := []string{
			`DELETE FROM project_members WHERE user_id = $1`,
			`UPDATE tasks SET assignee_id = NULL, updated_at = NOW() WHERE assignee_id = $1`,
			`UPDATE projects SET owner_id = NULL, updated_at = NOW() WHERE owner_id = $1`,
			`UPDATE activity_logs SET user_id = NULL WHERE user_id = $1`,
		}
		for _, q := range steps {
			if _, err := tx.Exec(ctx, q, id); err != nil {
				if isInvalidID(err) {
					return domain.ErrUserNotFound
				}
				return fmt.Errorf("delete user: %w", err)
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

func collectUsers(rows pgx.Rows) ([]*domain.User, error) {
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsVerified,
		&u.TwoFactorEnabled, &u.TwoFactorSecret, &u.CohortID, &u.ClassID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
