package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/password"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

var errRoleChange = &domain.ForbiddenError{Message: "Only admins can change roles"}

type UserUsecase struct {
	users    repository.UserRepository
	hasher   *password.Hasher
	activity ActivityRecorder
}

func NewUserUsecase(users repository.UserRepository, hasher *password.Hasher, activity ActivityRecorder) *UserUsecase {
	return &UserUsecase{users: users, hasher: hasher, activity: activity}
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Create is the admin path for adding accounts of any role. Accounts created
// by an admin start out verified.
func (u *UserUsecase) Create(ctx context.Context, actor *domain.User, in CreateUserInput) (*domain.User, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	user, err := newUser(u.hasher, in.Name, in.Email, in.Password, role)
	if err != nil {
		return nil, err
	}
	user.IsVerified = true

	created, err := u.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Created user %s", created.Email))
	return created, nil
}

func (u *UserUsecase) List(ctx context.Context, page repository.Page) (repository.Paged[*domain.User], error) {
	res, err := u.users.List(ctx, page.Normalize())
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}
	return res, nil
}

// OwnerOf treats every account as owned by itself.
func (u *UserUsecase) OwnerOf(ctx context.Context, id string) (*string, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user.ID, nil
}

func (u *UserUsecase) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	return u.authorize(ctx, actor, id)
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

func (u *UserUsecase) Update(ctx context.Context, actor *domain.User, id string, in UpdateUserInput) (*domain.User, error) {
	target, err := u.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Role != nil {
		role, err := domain.ParseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		if role != target.Role && !actor.IsAdmin() {
			return nil, errRoleChange
		}
		target.Role = role
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("Name cannot be empty")
		}
		target.Name = name
	}
	if in.Email != nil {
		addr := normalizeEmail(*in.Email)
		if addr == "" {
			return nil, domain.NewValidationError("Email cannot be empty")
		}
		target.Email = addr
	}

	var hash *string
	if in.Password != nil {
		if *in.Password == "" {
			return nil, domain.NewValidationError("Password cannot be empty")
		}
		h, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = &h
	}

	updated, err := u.users.UpdateProfile(ctx, target, hash)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Updated user %s", updated.ID))
	return updated, nil
}

func (u *UserUsecase) Delete(ctx context.Context, actor *domain.User, id string) error {
	target, err := u.authorize(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := u.users.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	// The actor row is gone after a self-delete; log the entry without a user.
	recordAs := actor.ID
	if actor.ID == target.ID {
		recordAs = ""
	}
	u.activity.Record(ctx, recordAs, fmt.Sprintf("Deleted user %s", target.Email))
	return nil
}

// authorize loads the target first so a missing user is a 404 for everyone.
func (u *UserUsecase) authorize(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	target, err := u.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !actor.Owns(&target.ID) {
		return nil, domain.ErrNotAuthorized
	}
	return target, nil
}

func newUser(h *password.Hasher, name, emailAddr, plain string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	emailAddr = normalizeEmail(emailAddr)
	if name == "" || emailAddr == "" || plain == "" {
		return nil, domain.NewValidationError("Name, email, and password are required")
	}

	hash, err := h.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &domain.User{
		Name:         name,
		Email:        emailAddr,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
