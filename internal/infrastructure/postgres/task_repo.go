package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, description, project_id, assignee_id, status, due_date, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	query := `
		INSERT INTO tasks (title, description, project_id, assignee_id, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns
	return scanTask(r.pool.QueryRow(ctx, query, t.Title, t.Description, t.ProjectID, t.AssigneeID, t.Status, t.DueDate))
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if isInvalidID(err) {
		return nil, domain.ErrTaskNotFound
	}
	return t, err
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = $1 ORDER BY created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, assignee_id = $4, status = $5, due_date = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + taskColumns
	return scanTask(r.pool.QueryRow(ctx, query, t.ID, t.Title, t.Description, t.AssigneeID, t.Status, t.DueDate))
}

func (r *TaskRepository) SetStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssigneeID, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}
