package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/challenge"
	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/email"
	"github.com/Samuel-soita/project-tracker-backend/internal/metrics"
	"github.com/Samuel-soita/project-tracker-backend/internal/password"
	"github.com/Samuel-soita/project-tracker-backend/internal/repository"
	"github.com/Samuel-soita/project-tracker-backend/internal/token"
)

type AuthConfig struct {
	AccessTTL       time.Duration
	VerificationTTL time.Duration
	// RequireEmailVerification turns on the login gate for unverified users.
	RequireEmailVerification bool
	FrontendURL              string
}

type AuthUsecase struct {
	users      repository.UserRepository
	hasher     *password.Hasher
	tokens     *token.Service
	challenges *challenge.Manager
	outbox     *email.Outbox
	activity   ActivityRecorder
	cfg        AuthConfig
	logger     *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher *password.Hasher,
	tokens *token.Service,
	challenges *challenge.Manager,
	outbox *email.Outbox,
	activity ActivityRecorder,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthUsecase {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = token.DefaultAccessTTL
	}
	if cfg.VerificationTTL == 0 {
		cfg.VerificationTTL = token.DefaultVerificationTTL
	}
	return &AuthUsecase{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		challenges: challenges,
		outbox:     outbox,
		activity:   activity,
		cfg:        cfg,
		logger:     logger.With("component", "auth"),
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterResult carries a session token only when the account can log in
// right away, i.e. email verification is not required.
type RegisterResult struct {
	User  *domain.User
	Token string
}

// Register creates a Student account. Elevated roles are granted by admins
// through the users API.
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	res, err := u.register(ctx, in)
	metrics.AuthEventsTotal.WithLabelValues("register", outcome(err)).Inc()
	return res, err
}

func (u *AuthUsecase) register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	user, err := newUser(u.hasher, in.Name, in.Email, in.Password, domain.RoleStudent)
	if err != nil {
		return nil, err
	}

	created, err := u.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	u.logger.InfoContext(ctx, "user registered", "user_id", created.ID)
	u.activity.Record(ctx, created.ID, "Registered")

	res := &RegisterResult{User: created}
	if u.cfg.RequireEmailVerification {
		if err := u.sendVerification(ctx, created); err != nil {
			u.logger.ErrorContext(ctx, "queue verification email", "user_id", created.ID, "error", err)
		}
		return res, nil
	}

	res.Token, err = u.tokens.Issue(created.ID, created.Role, u.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return res, nil
}

// Login checks credentials. Users with 2FA get a challenge mailed to them
// and a result without a token.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, plain string) (*domain.LoginResult, error) {
	res, err := u.login(ctx, emailAddr, plain)
	metrics.AuthEventsTotal.WithLabelValues("login", outcome(err)).Inc()
	return res, err
}

func (u *AuthUsecase) login(ctx context.Context, emailAddr, plain string) (*domain.LoginResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || plain == "" {
		return nil, domain.NewValidationError("Email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Burn the same bcrypt time as a real check so unknown emails are not
		// distinguishable by latency.
		u.hasher.Verify(u.dummy(), plain)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !u.hasher.Verify(user.PasswordHash, plain) {
		return nil, domain.ErrInvalidCredentials
	}

	if u.cfg.RequireEmailVerification && !user.IsVerified {
		return nil, domain.ErrEmailNotVerified
	}

	if user.TwoFactorEnabled {
		if err := u.startChallenge(ctx, user); err != nil {
			return nil, err
		}
		return &domain.LoginResult{User: user, TwoFactorRequired: true}, nil
	}

	return u.session(ctx, user, "Logged in")
}

func (u *AuthUsecase) startChallenge(ctx context.Context, user *domain.User) error {
	c, err := u.challenges.Issue(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("issue challenge: %w", err)
	}

	subject, body := email.TwoFactorCode(c.Code, u.challenges.TTL())
	u.outbox.Deliver(ctx, email.KindTwoFactorCode, user.Email, subject, body, func(error) {
		// Fallback channel: the code stays valid and an operator can read it here.
		u.logger.WarnContext(ctx, "2FA code not delivered", "user_id", user.ID, "email", user.Email, "code", c.Code)
	})
	u.logger.InfoContext(ctx, "2FA challenge issued", "user_id", user.ID)
	return nil
}

// VerifyTwoFactor consumes the pending challenge and returns a session.
func (u *AuthUsecase) VerifyTwoFactor(ctx context.Context, userID, code string) (*domain.LoginResult, error) {
	res, err := u.verifyTwoFactor(ctx, userID, code)
	metrics.AuthEventsTotal.WithLabelValues("verify_2fa", outcome(err)).Inc()
	return res, err
}

func (u *AuthUsecase) verifyTwoFactor(ctx context.Context, userID, code string) (*domain.LoginResult, error) {
	userID, code = strings.TrimSpace(userID), strings.TrimSpace(code)
	if userID == "" || code == "" {
		return nil, domain.NewValidationError("User ID and 2FA code are required")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrTwoFactorNotEnabled
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.TwoFactorEnabled {
		return nil, domain.ErrTwoFactorNotEnabled
	}

	if err := u.challenges.Verify(ctx, user.ID, code); err != nil {
		return nil, fmt.Errorf("verify challenge: %w", err)
	}
	return u.session(ctx, user, "Logged in with 2FA")
}

func (u *AuthUsecase) session(ctx context.Context, user *domain.User, action string) (*domain.LoginResult, error) {
	tok, err := u.tokens.Issue(user.ID, user.Role, u.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	u.activity.Record(ctx, user.ID, action)
	return &domain.LoginResult{Token: tok, User: user}, nil
}

// EnableTwoFactor turns on 2FA for targetID, or for the actor when targetID
// is empty. Only admins may toggle someone else. The bool reports whether
// anything changed.
func (u *AuthUsecase) EnableTwoFactor(ctx context.Context, actor *domain.User, targetID string) (*domain.User, bool, error) {
	user, err := u.toggleTarget(ctx, actor, targetID)
	if err != nil {
		return nil, false, err
	}
	if user.TwoFactorEnabled {
		return user, false, nil
	}

	secret, err := newTwoFactorSecret()
	if err != nil {
		return nil, false, err
	}
	if err := u.users.SetTwoFactor(ctx, user.ID, true, &secret); err != nil {
		return nil, false, fmt.Errorf("enable 2fa: %w", err)
	}

	updated := *user
	updated.TwoFactorEnabled = true
	updated.TwoFactorSecret = &secret
	u.logger.InfoContext(ctx, "2FA enabled", "user_id", user.ID)
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Enabled 2FA for user %s", user.ID))
	return &updated, true, nil
}

func (u *AuthUsecase) DisableTwoFactor(ctx context.Context, actor *domain.User, targetID string) (*domain.User, bool, error) {
	user, err := u.toggleTarget(ctx, actor, targetID)
	if err != nil {
		return nil, false, err
	}
	if !user.TwoFactorEnabled {
		return user, false, nil
	}

	if err := u.users.SetTwoFactor(ctx, user.ID, false, nil); err != nil {
		return nil, false, fmt.Errorf("disable 2fa: %w", err)
	}

	updated := *user
	updated.TwoFactorEnabled = false
	updated.TwoFactorSecret = nil
	u.logger.InfoContext(ctx, "2FA disabled", "user_id", user.ID)
	u.activity.Record(ctx, actor.ID, fmt.Sprintf("Disabled 2FA for user %s", user.ID))
	return &updated, true, nil
}

func (u *AuthUsecase) toggleTarget(ctx context.Context, actor *domain.User, targetID string) (*domain.User, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" || targetID == actor.ID {
		return actor, nil
	}

	user, err := u.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !actor.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	return user, nil
}

// VerifyEmail consumes a verification token. Using a token twice is harmless:
// the second call reports alreadyVerified.
func (u *AuthUsecase) VerifyEmail(ctx context.Context, raw string) (user *domain.User, alreadyVerified bool, err error) {
	defer func() {
		metrics.AuthEventsTotal.WithLabelValues("verify_email", outcome(err)).Inc()
	}()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, domain.NewValidationError("Verification token is required")
	}

	userID, err := u.tokens.VerifyVerification(raw)
	if err != nil {
		return nil, false, err
	}

	user, err = u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("find user: %w", err)
	}
	if user.IsVerified {
		return user, true, nil
	}

	if err := u.users.MarkVerified(ctx, user.ID); err != nil {
		return nil, false, fmt.Errorf("mark verified: %w", err)
	}
	verified := *user
	verified.IsVerified = true
	u.activity.Record(ctx, user.ID, "Verified email")
	return &verified, false, nil
}

// ResendVerification mails a fresh link. Unknown or already verified
// addresses are silently ignored so the endpoint does not reveal accounts.
func (u *AuthUsecase) ResendVerification(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.NewValidationError("Email is required")
	}

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if errors.Is(err, domain.ErrUserNotFound) {
		u.logger.DebugContext(ctx, "resend verification for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user.IsVerified {
		return nil
	}
	return u.sendVerification(ctx, user)
}

func (u *AuthUsecase) sendVerification(ctx context.Context, user *domain.User) error {
	tok, err := u.tokens.IssueVerification(user.ID, u.cfg.VerificationTTL)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}
	link := email.VerificationLinkURL(u.cfg.FrontendURL, tok)
	subject, body := email.Verification(user.Name, link)
	u.outbox.Deliver(ctx, email.KindVerification, user.Email, subject, body, nil)
	return nil
}

// Authenticate resolves a bearer token to the current user record. A token
// for a deleted user yields domain.ErrUserNotFound.
func (u *AuthUsecase) Authenticate(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := u.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}
	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (u *AuthUsecase) dummy() string {
	u.dummyOnce.Do(func() {
		u.dummyHash, _ = u.hasher.Hash("timing-equalizer")
	})
	return u.dummyHash
}

func newTwoFactorSecret() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate 2fa secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
