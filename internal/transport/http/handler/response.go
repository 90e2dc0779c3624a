package handler

import (
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type userResponse struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Email            string      `json:"email"`
	Role             domain.Role `json:"role"`
	IsVerified       bool        `json:"is_verified"`
	TwoFactorEnabled bool        `json:"two_factor_enabled"`
	CohortID         *string     `json:"cohort_id"`
	ClassID          *string     `json:"class_id"`
	CreatedAt        time.Time   `json:"created_at"`
}

func toUser(u *domain.User) userResponse {
	return userResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		IsVerified:       u.IsVerified,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CohortID:         u.CohortID,
		ClassID:          u.ClassID,
		CreatedAt:        u.CreatedAt,
	}
}

type cohortResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	StartDate   *string   `json:"start_date"`
	EndDate     *string   `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCohort(c *domain.Cohort) cohortResponse {
	return cohortResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		StartDate:   formatDate(c.StartDate),
		EndDate:     formatDate(c.EndDate),
		CreatedAt:   c.CreatedAt,
	}
}

type classResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toClass(c *domain.Class) classResponse {
	return classResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

type memberResponse struct {
	ID        string              `json:"id"`
	ProjectID string              `json:"project_id"`
	UserID    string              `json:"user_id"`
	Email     string              `json:"email"`
	Status    domain.MemberStatus `json:"status"`
	Role      domain.MemberRole   `json:"role"`
}

func toMember(m *domain.ProjectMember) memberResponse {
	return memberResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Email:     m.UserEmail,
		Status:    m.Status,
		Role:      m.Role,
	}
}

type projectResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	OwnerID     *string              `json:"owner_id"`
	CohortID    *string              `json:"cohort_id"`
	ClassID     *string              `json:"class_id"`
	GithubLink  *string              `json:"github_link"`
	Tags        []string             `json:"tags"`
	Status      domain.ProjectStatus `json:"status"`
	Members     []memberResponse     `json:"members,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

func toProject(p *domain.Project) projectResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	res := projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		CohortID:    p.CohortID,
		ClassID:     p.ClassID,
		GithubLink:  p.GithubLink,
		Tags:        tags,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for _, m := range p.Members {
		res.Members = append(res.Members, toMember(m))
	}
	return res
}

type taskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	ProjectID   string            `json:"project_id"`
	AssigneeID  *string           `json:"assignee_id"`
	Status      domain.TaskStatus `json:"status"`
	DueDate     *string           `json:"due_date"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func toTask(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		ProjectID:   t.ProjectID,
		AssigneeID:  t.AssigneeID,
		Status:      t.Status,
		DueDate:     formatDate(t.DueDate),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type activityResponse struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

func toActivity(a *domain.ActivityLog) activityResponse {
	return activityResponse{ID: a.ID, UserID: a.UserID, Action: a.Action, CreatedAt: a.CreatedAt}
}

type pageResponse[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

func toPage[S, T any](p repository.Paged[S], conv func(S) T) pageResponse[T] {
	items := make([]T, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, conv(it))
	}
	page := p.Page.Normalize()
	return pageResponse[T]{
		Items:      items,
		Page:       page.Number,
		PerPage:    page.PerPage,
		TotalPages: p.TotalPages(),
		TotalItems: p.Total,
	}
}

func mapSlice[S, T any](in []S, conv func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, it := range in {
		out = append(out, conv(it))
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
