package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer     = "Internal server error"
	errInvalidBody        = "Invalid request body"
	errDuplicateEmail     = "Email already registered"
	errInvalidCredentials = "Invalid email or password"
	errEmailNotVerified   = "Please verify your email before logging in"
	errTokenExpired       = "Token has expired"
	errTokenInvalid       = "Token is invalid"
	errNoChallenge        = "No 2FA code found. Please log in again"
	errChallengeExpired   = "2FA code expired. Please log in again"
	errCodeMismatch       = "Invalid 2FA code"
	errTwoFactorDisabled  = "2FA not enabled for this user"
)

// respondError maps domain errors onto a status and a client-safe message.
// Anything unrecognised is logged and reported as a bare 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), op, "error", err)
	}
	c.JSON(status, gin.H{"message": msg})
}

func classify(err error) (int, string) {
	var (
		validation *domain.ValidationError
		forbidden  *domain.ForbiddenError
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, errDuplicateEmail
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errInvalidCredentials
	case errors.Is(err, domain.ErrEmailNotVerified):
		return http.StatusForbidden, errEmailNotVerified
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, errTokenExpired
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, errTokenInvalid
	case errors.Is(err, domain.ErrNoChallengeFound):
		return http.StatusBadRequest, errNoChallenge
	case errors.Is(err, domain.ErrChallengeExpired):
		return http.StatusBadRequest, errChallengeExpired
	case errors.Is(err, domain.ErrCodeMismatch):
		return http.StatusUnauthorized, errCodeMismatch
	case errors.Is(err, domain.ErrTwoFactorNotEnabled):
		return http.StatusBadRequest, errTwoFactorDisabled
	case errors.As(err, &forbidden):
		return http.StatusForbidden, forbidden.Message
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &conflict):
		return http.StatusConflict, conflict.Message
	}
	return http.StatusInternalServerError, errInternalServer
}
