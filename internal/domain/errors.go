package domain

import "errors"

// Category errors. Specific errors below match one of these with errors.Is so
// the transport layer only has to know about the categories.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrConfig     = errors.New("configuration error")
)

// ValidationError carries a message that is safe to show to the client.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ForbiddenError is an authorization failure with a client-facing message.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// NotFoundError names the missing resource, e.g. "Project not found".
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError is a uniqueness violation with a client-facing message.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

var (
	ErrUserNotFound       = &NotFoundError{Resource: "User"}
	ErrCohortNotFound     = &NotFoundError{Resource: "Cohort"}
	ErrClassNotFound      = &NotFoundError{Resource: "Class"}
	ErrProjectNotFound    = &NotFoundError{Resource: "Project"}
	ErrTaskNotFound       = &NotFoundError{Resource: "Task"}
	ErrMemberNotFound     = &NotFoundError{Resource: "Member"}
	ErrInvitationNotFound = &NotFoundError{Resource: "Pending invitation"}

	ErrNotAuthorized = &ForbiddenError{Message: "You are not authorized to access this resource."}
	ErrNotInCohort   = &ForbiddenError{Message: "You must belong to a cohort to create a project"}
	ErrStudentsOnly  = &ForbiddenError{Message: "Only students can join"}

	ErrClassNameConflict = &ConflictError{Message: "Class with this name already exists"}
	ErrAlreadyInvited    = &ConflictError{Message: "User already invited"}
)
