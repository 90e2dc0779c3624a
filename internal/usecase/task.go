package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type TaskUsecase struct {
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	activity ActivityRecorder
}

func NewTaskUsecase(tasks repository.TaskRepository, projects repository.ProjectRepository, users repository.UserRepository, activity ActivityRecorder) *TaskUsecase {
	return &TaskUsecase{tasks: tasks, projects: projects, users: users, activity: activity}
}

type TaskInput struct {
	Title       *string
	Description *string
	AssigneeID  *string // pointer to "" clears the assignee
	Status      *string
	DueDate     *time.Time
}

func (u *TaskUsecase) Create(ctx context.Context, actor *domain.User, projectID string, in TaskInput) (*domain.Task, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" || strings.TrimSpace(projectID) == "" {
		return nil, domain.NewValidationError("Title and project_id are required")
	}
	p, err := u.access(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	t := &domain.Task{ProjectID: p.ID, Status: domain.TaskToDo}
	if err := u.apply(ctx, t, in); err != nil {
		return nil, err
	}

	created, err := u.tasks.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Created task %s in project %s", created.Title, p.Name))
	return created, nil
}

func (u *TaskUsecase) Get(ctx context.Context, actor *domain.User, id string) (*domain.Task, error) {
	t, err := u.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if _, err := u.access(ctx, actor, t.ProjectID); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *TaskUsecase) ListByProject(ctx context.Context, actor *domain.User, projectID string) ([]*domain.Task, error) {
	p, err := u.access(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	ts, err := u.tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return ts, nil
}

func (u *TaskUsecase) Update(ctx context.Context, actor *domain.User, id string, in TaskInput) (*domain.Task, error) {
	t, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := u.apply(ctx, t, in); err != nil {
		return nil, err
	}

	updated, err := u.tasks.Update(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Updated task %s", updated.Title))
	return updated, nil
}

// SetStatus moves a task across the board.
func (u *TaskUsecase) SetStatus(ctx context.Context, actor *domain.User, id, status string) (*domain.Task, error) {
	if status == "" {
		return nil, domain.NewValidationError("Status is required")
	}
	st, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, err
	}
	t, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := u.tasks.SetStatus(ctx, t.ID, st); err != nil {
		return nil, fmt.Errorf("set task status: %w", err)
	}
	t.Status = st
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Moved task %s to %s", t.Title, st))
	return t, nil
}

func (u *TaskUsecase) Delete(ctx context.Context, actor *domain.User, id string) error {
	t, err := u.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := u.tasks.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Deleted task %s", t.Title))
	return nil
}

// access loads the project, then checks the actor is an admin, its owner or
// an accepted member.
func (u *TaskUsecase) access(ctx context.Context, actor *domain.User, projectID string) (*domain.Project, error) {
	p, err := u.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if actor.Owns(p.OwnerID) || p.HasAcceptedMember(actor.ID) {
		return p, nil
	}
	return nil, domain.ErrNotAuthorized
}

func (u *TaskUsecase) apply(ctx context.Context, t *domain.Task, in TaskInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return domain.NewValidationError("Title cannot be empty")
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.Status != nil {
		st, err := domain.ParseTaskStatus(*in.Status)
		if err != nil {
			return err
		}
		t.Status = st
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.AssigneeID != nil {
		id := strings.TrimSpace(*in.AssigneeID)
		if id == "" {
			t.AssigneeID = nil
			return nil
		}
		if _, err := u.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return &domain.NotFoundError{Resource: "Assignee"}
			}
			return fmt.Errorf("find assignee: %w", err)
		}
		t.AssigneeID = &id
	}
	return nil
}
