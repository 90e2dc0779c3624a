package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type ProjectUsecase struct {
	projects repository.ProjectRepository
	activity ActivityRecorder
}

func NewProjectUsecase(projects repository.ProjectRepository, activity ActivityRecorder) *ProjectUsecase {
	return &ProjectUsecase{projects: projects, activity: activity}
}

type ProjectInput struct {
	Name        *string
	Description *string
	GithubLink  *string
	Tags        []string // nil leaves tags unchanged on update
	Status      *string
}

// Create requires non-admins to belong to a cohort. The project inherits the
// creator's cohort and class.
func (u *ProjectUsecase) Create(ctx context.Context, actor *domain.User, in ProjectInput) (*domain.Project, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, domain.NewValidationError("Project name is required")
	}
	if !actor.IsAdmin() && actor.CohortID == nil {
		return nil, domain.ErrNotInCohort
	}

	p := &domain.Project{
		OwnerID:  &actor.ID,
		CohortID: actor.CohortID,
		ClassID:  actor.ClassID,
		Status:   domain.ProjectInProgress,
	}
	if err := applyProject(p, in); err != nil {
		return nil, err
	}

	created, err := u.projects.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Created project %s", created.Name))
	return created, nil
}

// OwnerOf feeds the ownership middleware.
func (u *ProjectUsecase) OwnerOf(ctx context.Context, id string) (*string, error) {
	p, err := u.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.OwnerID, nil
}

func (u *ProjectUsecase) Get(ctx context.Context, actor *domain.User, id string) (*domain.Project, error) {
	p, err := u.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if !p.VisibleTo(actor) {
		return nil, domain.ErrNotAuthorized
	}
	return p, nil
}

func (u *ProjectUsecase) List(ctx context.Context, actor *domain.User, track string, page repository.Page) (repository.Paged[*domain.Project], error) {
	in := repository.ListProjectsInput{
		Track: strings.TrimSpace(track),
		Page:  page.Normalize(),
	}
	if !actor.IsAdmin() {
		in.ViewerID = actor.ID
	}

	res, err := u.projects.List(ctx, in)
	if err != nil {
		return res, fmt.Errorf("list projects: %w", err)
	}
	return res, nil
}

func (u *ProjectUsecase) Update(ctx context.Context, actor *domain.User, id string, in ProjectInput) (*domain.Project, error) {
	p, err := u.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := applyProject(p, in); err != nil {
		return nil, err
	}

	updated, err := u.projects.Update(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Updated project %s", updated.Name))
	return updated, nil
}

func (u *ProjectUsecase) SetStatus(ctx context.Context, actor *domain.User, id, status string) (*domain.Project, error) {
	p, err := u.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	st, err := domain.ParseProjectStatus(status)
	if err != nil {
		return nil, err
	}

	if err := u.projects.SetStatus(ctx, p.ID, st); err != nil {
		return nil, fmt.Errorf("set project status: %w", err)
	}
	p.Status = st
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Changed status of project %s to %s", p.Name, st))
	return p, nil
}

func (u *ProjectUsecase) Delete(ctx context.Context, actor *domain.User, id string) error {
	p, err := u.owned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := u.projects.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Deleted project %s", p.Name))
	return nil
}

func (u *ProjectUsecase) owned(ctx context.Context, actor *domain.User, id string) (*domain.Project, error) {
	p, err := u.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if !actor.Owns(p.OwnerID) {
		return nil, domain.ErrNotAuthorized
	}
	return p, nil
}

func applyProject(p *domain.Project, in ProjectInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.NewValidationError("Project name cannot be empty")
		}
		p.Name = name
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.GithubLink != nil {
		p.GithubLink = in.GithubLink
	}
	if in.Tags != nil {
		p.Tags = normalizeTags(in.Tags)
	}
	if in.Status != nil {
		st, err := domain.ParseProjectStatus(*in.Status)
		if err != nil {
			return err
		}
		p.Status = st
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
