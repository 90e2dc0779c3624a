package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type CohortUsecase struct {
	cohorts  repository.CohortRepository
	users    repository.UserRepository
	activity ActivityRecorder
}

func NewCohortUsecase(cohorts repository.CohortRepository, users repository.UserRepository, activity ActivityRecorder) *CohortUsecase {
	return &CohortUsecase{cohorts: cohorts, users: users, activity: activity}
}

type CohortInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

func (u *CohortUsecase) Create(ctx context.Context, actor *domain.User, in CohortInput) (*domain.Cohort, error) {
	c := &domain.Cohort{}
	if err := applyCohort(c, in, true); err != nil {
		return nil, err
	}

	created, err := u.cohorts.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create cohort: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Created cohort %s", created.Name))
	return created, nil
}

func (u *CohortUsecase) Get(ctx context.Context, id string) (*domain.Cohort, error) {
	c, err := u.cohorts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cohort: %w", err)
	}
	return c, nil
}

func (u *CohortUsecase) List(ctx context.Context, page repository.Page) (repository.Paged[*domain.Cohort], error) {
	res, err := u.cohorts.List(ctx, page.Normalize())
	if err != nil {
		return res, fmt.Errorf("list cohorts: %w", err)
	}
	return res, nil
}

func (u *CohortUsecase) Update(ctx context.Context, actor *domain.User, id string, in CohortInput) (*domain.Cohort, error) {
	c, err := u.cohorts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cohort: %w", err)
	}
	if err := applyCohort(c, in, false); err != nil {
		return nil, err
	}

	updated, err := u.cohorts.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update cohort: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Updated cohort %s", updated.Name))
	return updated, nil
}

func (u *CohortUsecase) Delete(ctx context.Context, actor *domain.User, id string) error {
	c, err := u.cohorts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get cohort: %w", err)
	}
	if err := u.cohorts.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete cohort: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Deleted cohort %s", c.Name))
	return nil
}

// Join moves a student into the cohort, replacing any previous one.
func (u *CohortUsecase) Join(ctx context.Context, actor *domain.User, id string) (*domain.Cohort, error) {
	c, err := u.cohorts.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cohort: %w", err)
	}
	if actor.Role != domain.RoleStudent {
		return nil, domain.ErrStudentsOnly
	}

	if err := u.users.SetCohort(ctx, actor.ID, c.ID); err != nil {
		return nil, fmt.Errorf("join cohort: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Joined cohort %s", c.Name))
	return c, nil
}

func applyCohort(c *domain.Cohort, in CohortInput, create bool) error {
	if in.Name != nil || create {
		name := ""
		if in.Name != nil {
			name = strings.TrimSpace(*in.Name)
		}
		if name == "" {
			return domain.NewValidationError("Cohort name is required")
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = in.Description
	}
	if in.StartDate != nil {
		c.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		c.EndDate = in.EndDate
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return domain.NewValidationError("End date must not be before start date")
	}
	return nil
}
