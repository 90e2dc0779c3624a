package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/reqctx"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

const (
	msgMissingToken  = "Token is missing"
	msgTokenExpired  = "Token has expired"
	msgTokenInvalid  = "Token is invalid"
	msgUserNotFound  = "User not found"
	msgForbidden     = "You are not authorized to access this resource."
	msgInternalError = "Internal server error"
)

// Authenticator resolves a raw bearer token to the current user record.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*domain.User, error)
}

// Auth requires "Authorization: Bearer <token>", reloads the user on every
// request and stores it for Actor. Tokens of deleted users are rejected.
func Auth(authn Authenticator, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "auth_middleware")
	return func(c *gin.Context) {
		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			abort(c, http.StatusUnauthorized, msgMissingToken)
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), raw)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrTokenExpired):
			abort(c, http.StatusUnauthorized, msgTokenExpired)
			return
		case errors.Is(err, domain.ErrTokenInvalid):
			abort(c, http.StatusUnauthorized, msgTokenInvalid)
			return
		case errors.Is(err, domain.ErrUserNotFound):
			abort(c, http.StatusUnauthorized, msgUserNotFound)
			return
		default:
			logger.ErrorContext(c.Request.Context(), "authenticate", "error", err)
			abort(c, http.StatusInternalServerError, msgInternalError)
			return
		}

		c.Set(actorKey, user)
		c.Request = c.Request.WithContext(reqctx.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// Actor returns the user resolved by Auth, or nil on unauthenticated routes.
func Actor(c *gin.Context) *domain.User {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// RequireRoles runs after Auth and rejects actors outside roles with 403.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor == nil {
			abort(c, http.StatusUnauthorized, msgMissingToken)
			return
		}
		if !slices.Contains(roles, actor.Role) {
			abort(c, http.StatusForbidden, msgForbidden)
			return
		}
		c.Next()
	}
}

// OwnerLoader returns the owner id of the resource named by id. A nil owner
// means only admins may act on it.
type OwnerLoader func(ctx context.Context, id string) (*string, error)

// RequireOwnership runs after Auth on routes with an :id param. The resource
// is loaded first so a missing one is 404 for everyone; an existing one the
// actor neither owns nor administers is 403.
func RequireOwnership(load OwnerLoader, logger *slog.Logger) gin.HandlerFunc {
	logger = logger.With("component", "ownership_middleware")
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor == nil {
			abort(c, http.StatusUnauthorized, msgMissingToken)
			return
		}

		owner, err := load(c.Request.Context(), c.Param("id"))
		if err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				abort(c, http.StatusNotFound, nf.Error())
				return
			}
			logger.ErrorContext(c.Request.Context(), "load resource owner", "id", c.Param("id"), "error", err)
			abort(c, http.StatusInternalServerError, msgInternalError)
			return
		}
		if !actor.Owns(owner) {
			abort(c, http.StatusForbidden, msgForbidden)
			return
		}
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
