package domain

import (
	"errors"
	"time"
)

var (
	// ErrDuplicateEmail is a 400 rather than a conflict to match the registration contract.
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")

	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")

	ErrNoChallengeFound    = errors.New("no 2FA code found")
	ErrChallengeExpired    = errors.New("2FA code expired")
	ErrCodeMismatch        = errors.New("invalid 2FA code")
	ErrTwoFactorNotEnabled = errors.New("2FA not enabled for this user")
)

// Challenge is a pending second-factor code for one user.
type Challenge struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the challenge window has closed at now.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// LoginResult is either a session (Token set) or a pending second factor.
type LoginResult struct {
	Token             string
	User              *User
	TwoFactorRequired bool
}
