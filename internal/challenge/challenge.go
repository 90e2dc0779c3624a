// Package challenge manages short-lived, single-use second-factor codes.
//
// Each user has at most one pending challenge. Issuing a new one replaces the
// old one; a successful verification or an expiry check discards it. Stores
// serialize all operations on the same user id.
package challenge

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/Samuel-soita/project-tracker-backend/internal/metrics"
)

const (
	DefaultTTL = 10 * time.Minute
	CodeLength = 6
)

var codeSpace = big.NewInt(1_000_000) // 10^CodeLength

// Decision inspects the pending challenge of a user and reports whether the
// store must discard it. The returned error is passed back to the caller.
type Decision func(c domain.Challenge) (discard bool, err error)

type Store interface {
	// Save replaces any pending challenge for userID.
	Save(ctx context.Context, userID string, c domain.Challenge) error
	// Resolve runs decide against the pending challenge while holding the
	// user's slot. It returns domain.ErrNoChallengeFound when none is pending.
	Resolve(ctx context.Context, userID string, decide Decision) error
	// Sweep drops challenges that expired before now and reports how many.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

type Manager struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
}

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		ttl:    DefaultTTL,
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue generates a fresh code for userID, overwriting any pending one.
func (m *Manager) Issue(ctx context.Context, userID string) (domain.Challenge, error) {
	n, err := rand.Int(m.random, codeSpace)
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("generate code: %w", err)
	}

	c := domain.Challenge{
		Code:      fmt.Sprintf("%0*d", CodeLength, n.Int64()),
		ExpiresAt: m.now().Add(m.ttl),
	}
	if err := m.store.Save(ctx, userID, c); err != nil {
		return domain.Challenge{}, fmt.Errorf("save challenge: %w", err)
	}

	metrics.ChallengesIssuedTotal.Inc()
	return c, nil
}

// Verify consumes the pending challenge when code matches. An expired
// challenge is discarded even if the code is right; a wrong code leaves the
// challenge pending.
func (m *Manager) Verify(ctx context.Context, userID, code string) error {
	now := m.now()
	err := m.store.Resolve(ctx, userID, func(c domain.Challenge) (bool, error) {
		if c.Expired(now) {
			return true, domain.ErrChallengeExpired
		}
		if subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) != 1 {
			return false, domain.ErrCodeMismatch
		}
		return true, nil
	})

	metrics.ChallengesResolvedTotal.WithLabelValues(outcome(err)).Inc()
	return err
}

// Sweep removes expired challenges nobody came back for.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	return m.store.Sweep(ctx, m.now())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "verified"
	case errors.Is(err, domain.ErrNoChallengeFound):
		return "not_found"
	case errors.Is(err, domain.ErrChallengeExpired):
		return "expired"
	case errors.Is(err, domain.ErrCodeMismatch):
		return "mismatch"
	default:
		return "error"
	}
}
