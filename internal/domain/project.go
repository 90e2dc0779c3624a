package domain

import (
	"fmt"
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectInProgress  ProjectStatus = "In Progress"
	ProjectUnderReview ProjectStatus = "Under Review"
	ProjectCompleted   ProjectStatus = "Completed"
)

var projectStatuses = []ProjectStatus{ProjectInProgress, ProjectUnderReview, ProjectCompleted}

func ParseProjectStatus(s string) (ProjectStatus, error) {
	for _, st := range projectStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	names := make([]string, len(projectStatuses))
	for i, st := range projectStatuses {
		names[i] = string(st)
	}
	return "", NewValidationError(fmt.Sprintf("Invalid status. Allowed: %s", strings.Join(names, ", ")))
}

type Project struct {
	ID          string
	Name        string
	Description *string
	OwnerID     *string // nil once the owner account is deleted
	CohortID    *string
	ClassID     *string
	GithubLink  *string
	Tags        []string
	Status      ProjectStatus
	Members     []*ProjectMember
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VisibleTo applies the read policy: admins, the owner and accepted members
// always see the project, everyone else only once it leaves In Progress.
func (p *Project) VisibleTo(u *User) bool {
	if u.Owns(p.OwnerID) || p.Status != ProjectInProgress {
		return true
	}
	return p.HasAcceptedMember(u.ID)
}

func (p *Project) HasAcceptedMember(userID string) bool {
	for _, m := range p.Members {
		if m.UserID == userID && m.Status == MemberAccepted {
			return true
		}
	}
	return false
}

type MemberStatus string

const (
	MemberPending  MemberStatus = "pending"
	MemberAccepted MemberStatus = "accepted"
	MemberDeclined MemberStatus = "declined"
)

type MemberRole string

const (
	MemberCollaborator MemberRole = "collaborator"
	MemberViewer       MemberRole = "viewer"
)

func ParseMemberRole(s string) (MemberRole, error) {
	switch MemberRole(s) {
	case "":
		return MemberCollaborator, nil
	case MemberCollaborator, MemberViewer:
		return MemberRole(s), nil
	}
	return "", NewValidationError("Invalid member role. Allowed: collaborator, viewer")
}

type ProjectMember struct {
	ID        string
	ProjectID string
	UserID    string
	UserEmail string
	Status    MemberStatus
	Role      MemberRole
	CreatedAt time.Time
}
