package usecase_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/challenge"
	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/email"
	"github.com/Samuel-soita/project-tracker-backend/internal/infrastructure/memory"
	"github.com/Samuel-soita/project-tracker-backend/internal/password"
	"github.com/Samuel-soita/project-tracker-backend/internal/token"
	"github.com/Samuel-soita/project-tracker-backend/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

// ---- fakes ----

type sentMail struct {
	to, subject, body string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *recordingSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMail{to, subject, body})
	return s.err
}

func (s *recordingSender) mails() []sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMail(nil), s.sent...)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type noopActivity struct{}

func (noopActivity) Record(context.Context, string, string) {}

// ---- environment ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

type testEnv struct {
	store      *memory.Store
	sender     *recordingSender
	outbox     *email.Outbox
	clock      *fakeClock
	tokens     *token.Service
	challenges *challenge.Manager
	pending    *challenge.MemoryStore
	hasher     *password.Hasher
	logs       *bytes.Buffer
	logger     *slog.Logger
	auth       *usecase.AuthUsecase
}

func newEnv(t *testing.T, cfg usecase.AuthConfig) *testEnv {
	t.Helper()

	clock := &fakeClock{now: time.Now()}
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: logs}, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tokens, err := token.NewService([]byte(testJWTKey), token.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	e := &testEnv{
		store:   memory.NewStore(),
		sender:  &recordingSender{},
		clock:   clock,
		tokens:  tokens,
		pending: challenge.NewMemoryStore(),
		hasher:  password.NewHasher(bcrypt.MinCost),
		logs:    logs,
		logger:  logger,
	}
	e.outbox = email.NewOutbox(e.sender, logger)
	e.challenges = challenge.NewManager(e.pending, challenge.WithClock(clock.Now))
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}
	e.auth = usecase.NewAuthUsecase(e.store.Users(), e.hasher, tokens, e.challenges, e.outbox, noopActivity{}, cfg, logger)
	return e
}

// register creates a user directly in the store.
func (e *testEnv) register(t *testing.T, name, emailAddr, plain string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := e.hasher.Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := e.store.Users().Create(context.Background(), &domain.User{
		Name: name, Email: emailAddr, PasswordHash: hash, Role: role, IsVerified: true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *testEnv) logOutput() string {
	e.outbox.Wait()
	return e.logs.String()
}

type lockedWriter struct {
	mu sync.Mutex
	w  *bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
