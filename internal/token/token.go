// Package token issues and verifies the stateless HS256 tokens used for
// sessions and email verification. Each token carries a purpose claim and is
// only accepted where that purpose is expected.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Purpose string

const (
	PurposeAccess            Purpose = "access"
	PurposeEmailVerification Purpose = "email_verification"
)

const (
	issuer = "project-tracker"

	DefaultAccessTTL       = time.Hour
	DefaultVerificationTTL = 24 * time.Hour
)

type Claims struct {
	UserID  string      `json:"user_id"`
	Role    domain.Role `json:"role,omitempty"`
	Purpose Purpose     `json:"purpose"`
	jwt.RegisteredClaims
}

type Service struct {
	key []byte
	now func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now for issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService fails with domain.ErrConfig when the signing key is empty.
func NewService(key []byte, opts ...Option) (*Service, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: token signing secret is not configured", domain.ErrConfig)
	}
	s := &Service{key: key, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs an access token. A zero or negative ttl yields a token that is
// already expired.
func (s *Service) Issue(userID string, role domain.Role, ttl time.Duration) (string, error) {
	return s.sign(Claims{UserID: userID, Role: role, Purpose: PurposeAccess}, ttl)
}

func (s *Service) IssueVerification(userID string, ttl time.Duration) (string, error) {
	return s.sign(Claims{UserID: userID, Purpose: PurposeEmailVerification}, ttl)
}

// Verify accepts only access tokens.
func (s *Service) Verify(raw string) (*Claims, error) {
	return s.parse(raw, PurposeAccess)
}

// VerifyVerification accepts only email-verification tokens and returns the user id.
func (s *Service) VerifyVerification(raw string) (string, error) {
	c, err := s.parse(raw, PurposeEmailVerification)
	if err != nil {
		return "", err
	}
	return c.UserID, nil
}

func (s *Service) sign(c Claims, ttl time.Duration) (string, error) {
	now := s.now()
	c.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   c.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) parse(raw string, want Purpose) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(_ *jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	// exp is stored with second precision; a token whose expiry equals now is
	// already dead.
	if !s.now().Before(claims.ExpiresAt.Time) {
		return nil, domain.ErrTokenExpired
	}
	if claims.Purpose != want {
		return nil, fmt.Errorf("%w: token purpose %q not accepted here", domain.ErrTokenInvalid, claims.Purpose)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrTokenInvalid)
	}
	return claims, nil
}
