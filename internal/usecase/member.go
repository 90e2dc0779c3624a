package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/email"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
)

type MemberUsecase struct {
	projects    repository.ProjectRepository
	members     repository.MemberRepository
	users       repository.UserRepository
	outbox      *email.Outbox
	activity    ActivityRecorder
	frontendURL string
}

func NewMemberUsecase(
	projects repository.ProjectRepository,
	members repository.MemberRepository,
	users repository.UserRepository,
	outbox *email.Outbox,
	activity ActivityRecorder,
	frontendURL string,
) *MemberUsecase {
	return &MemberUsecase{
		projects:    projects,
		members:     members,
		users:       users,
		outbox:      outbox,
		activity:    activity,
		frontendURL: frontendURL,
	}
}

// Invite adds a pending membership for the user with the given email and
// mails them. The email is best-effort.
func (u *MemberUsecase) Invite(ctx context.Context, actor *domain.User, projectID, emailAddr, role string) (*domain.ProjectMember, error) {
	p, err := u.ownedProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return nil, domain.NewValidationError("Email is required")
	}
	memberRole, err := domain.ParseMemberRole(role)
	if err != nil {
		return nil, err
	}

	invitee, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("find invitee: %w", err)
	}

	m, err := u.members.Create(ctx, &domain.ProjectMember{
		ProjectID: p.ID,
		UserID:    invitee.ID,
		UserEmail: invitee.Email,
		Status:    domain.MemberPending,
		Role:      memberRole,
	})
	if err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	subject, body := email.Invitation(p.Name, actor.Name, u.frontendURL)
	u.outbox.Deliver(ctx, email.KindInvitation, invitee.Email, subject, body, nil)
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Invited %s as %s to project %s", invitee.Email, memberRole, p.Name))
	return m, nil
}

func (u *MemberUsecase) Remove(ctx context.Context, actor *domain.User, projectID, userID string) error {
	p, err := u.ownedProject(ctx, actor, projectID)
	if err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.NewValidationError("User ID is required")
	}

	if err := u.members.Delete(ctx, p.ID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Removed user %s from project %s", userID, p.Name))
	return nil
}

// Respond lets the invitee accept or decline a pending invitation.
func (u *MemberUsecase) Respond(ctx context.Context, actor *domain.User, projectID, action string) (*domain.ProjectMember, error) {
	m, err := u.members.Find(ctx, projectID, actor.ID)
	if err != nil || m.Status != domain.MemberPending {
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("find invitation: %w", err)
		}
		return nil, domain.ErrInvitationNotFound
	}

	var status domain.MemberStatus
	switch action {
	case "accept":
		status = domain.MemberAccepted
	case "decline":
		status = domain.MemberDeclined
	default:
		return nil, domain.NewValidationError("Invalid action. Allowed: accept, decline")
	}

	if err := u.members.SetStatus(ctx, m.ID, status); err != nil {
		return nil, fmt.Errorf("respond to invitation: %w", err)
	}
	m.Status = status
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Invitation for project %s %s", projectID, status))
	return m, nil
}

func (u *MemberUsecase) ownedProject(ctx context.Context, actor *domain.User, projectID string) (*domain.Project, error) {
	p, err := u.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if !actor.Owns(p.OwnerID) {
		return nil, domain.ErrNotAuthorized
	}
	return p, nil
}
