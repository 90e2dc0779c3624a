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

const projectColumns = `p.id, p.name, p.description, p.owner_id, p.cohort_id, p.class_id,
	p.github_link, p.tags, p.status, p.created_at, p.updated_at`

// Viewer filter ($1) and track filter ($2) shared by List and its count.
const projectFilter = `
	WHERE ($1::text = ''
	       OR p.status <> 'In Progress'
	       OR p.owner_id::text = $1
	       OR EXISTS (SELECT 1 FROM project_members m
	                  WHERE m.project_id = p.id AND m.user_id::text = $1 AND m.status = 'accepted'))
	  AND ($2::text = ''
	       OR EXISTS (SELECT 1 FROM unnest(p.tags) AS t(tag) WHERE lower(t.tag) = lower($2)))`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	query := `
		INSERT INTO projects AS p (name, description, owner_id, cohort_id, class_id, github_link, tags, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + projectColumns

	return scanProject(r.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.OwnerID, p.CohortID, p.ClassID, p.GithubLink, tagsOrEmpty(p.Tags), p.Status,
	))
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id))
	if isInvalidID(err) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.project_id, m.user_id, u.email, m.status, m.role, m.created_at
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.created_at`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		p.Members = append(p.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return p, nil
}

// List does not load members.
func (r *ProjectRepository) List(ctx context.Context, in repository.ListProjectsInput) (repository.Paged[*domain.Project], error) {
	page := in.Page.Normalize()
	res := repository.Paged[*domain.Project]{Page: page, Items: []*domain.Project{}}

	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM projects p`+projectFilter,
		in.ViewerID, in.Track).Scan(&res.Total); err != nil {
		return res, fmt.Errorf("count projects: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects p`+projectFilter+`
		ORDER BY p.created_at DESC LIMIT $3 OFFSET $4`,
		in.ViewerID, in.Track, page.Limit(), page.Offset())
	if err != nil {
		return res, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return res, err
		}
		res.Items = append(res.Items, p)
	}
	return res, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	query := `
		UPDATE projects AS p
		SET name = $2, description = $3, github_link = $4, tags = $5, status = $6, updated_at = NOW()
		WHERE p.id = $1
		RETURNING ` + projectColumns

	return scanProject(r.pool.QueryRow(ctx, query, p.ID, p.Name, p.Description, p.GithubLink, tagsOrEmpty(p.Tags), p.Status))
}

func (r *ProjectRepository) SetStatus(ctx context.Context, id string, status domain.ProjectStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE projects SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set project status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Delete cascades to members and tasks through foreign keys.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CohortID, &p.ClassID,
		&p.GithubLink, &p.Tags, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &p, nil
}

// tagsOrEmpty keeps the NOT NULL tags column from receiving a nil slice.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

type MemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

func (r *MemberRepository) Create(ctx context.Context, m *domain.ProjectMember) (*domain.ProjectMember, error) {
	query := `
		WITH m AS (
			INSERT INTO project_members (project_id, user_id, status, role)
			VALUES ($1, $2, $3, $4)
			RETURNING id, project_id, user_id, status, role, created_at
		)
		SELECT m.id, m.project_id, m.user_id, u.email, m.status, m.role, m.created_at
		FROM m JOIN users u ON u.id = m.user_id`

	created, err := scanMember(r.pool.QueryRow(ctx, query, m.ProjectID, m.UserID, m.Status, m.Role))
	if isUniqueViolation(err) {
		return nil, domain.ErrAlreadyInvited
	}
	return created, err
}

func (r *MemberRepository) Find(ctx context.Context, projectID, userID string) (*domain.ProjectMember, error) {
	m, err := scanMember(r.pool.QueryRow(ctx, `
		SELECT m.id, m.project_id, m.user_id, u.email, m.status, m.role, m.created_at
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1 AND m.user_id = $2`, projectID, userID))
	if isInvalidID(err) {
		return nil, domain.ErrMemberNotFound
	}
	return m, err
}

func (r *MemberRepository) SetStatus(ctx context.Context, id string, status domain.MemberStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE project_members SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set member status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, projectID, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if isInvalidID(err) {
		return domain.ErrMemberNotFound
	}
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func scanMember(row pgx.Row) (*domain.ProjectMember, error) {
	var m domain.ProjectMember
	err := row.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.UserEmail, &m.Status, &m.Role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("scan member: %w", err)
	}
	return &m, nil
}
