package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type ClassUsecase struct {
	classes  repository.ClassRepository
	users    repository.UserRepository
	activity ActivityRecorder
}

func NewClassUsecase(classes repository.ClassRepository, users repository.UserRepository, activity ActivityRecorder) *ClassUsecase {
	return &ClassUsecase{classes: classes, users: users, activity: activity}
}

func (u *ClassUsecase) Create(ctx context.Context, actor *domain.User, name string) (*domain.Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("Class name is required")
	}

	created, err := u.classes.Create(ctx, &domain.Class{Name: name})
	if err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Created class %s", created.Name))
	return created, nil
}

func (u *ClassUsecase) Get(ctx context.Context, id string) (*domain.Class, error) {
	c, err := u.classes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	return c, nil
}

func (u *ClassUsecase) List(ctx context.Context) ([]*domain.Class, error) {
	cs, err := u.classes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return cs, nil
}

func (u *ClassUsecase) Update(ctx context.Context, actor *domain.User, id, name string) (*domain.Class, error) {
	c, err := u.classes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("Class name is required")
	}
	c.Name = name

	updated, err := u.classes.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update class: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Updated class %s", updated.Name))
	return updated, nil
}

func (u *ClassUsecase) Delete(ctx context.Context, actor *domain.User, id string) error {
	c, err := u.classes.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get class: %w", err)
	}
	if err := u.classes.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Deleted class %s", c.Name))
	return nil
}

func (u *ClassUsecase) Students(ctx context.Context, id string) ([]*domain.User, error) {
	c, err := u.classes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	users, err := u.users.ListByClass(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return users, nil
}

func (u *ClassUsecase) Join(ctx context.Context, actor *domain.User, id string) (*domain.Class, error) {
	c, err := u.classes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	if actor.Role != domain.RoleStudent {
		return nil, domain.ErrStudentsOnly
	}
	if err := u.users.SetClass(ctx, actor.ID, c.ID); err != nil {
		return nil, fmt.Errorf("join class: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Joined class %s", c.Name))
	return c, nil
}
