package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeSweeper struct {
	mu    sync.Mutex
	calls int
	n     int
	err   error
}

func (f *fakeSweeper) Sweep(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.n, f.err
}

func (f *fakeSweeper) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePruner struct {
	retention time.Duration
	now       time.Time
	calls     int
	err       error
}

func (f *fakePruner) Prune(_ context.Context, retention time.Duration, now time.Time) (int64, error) {
	f.calls++
	f.retention, f.now = retention, now
	return 3, f.err
}

func newTestJanitor(t *testing.T, s Sweeper, p Pruner, retention time.Duration) (*Janitor, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	j, err := NewJanitor("@every 1m", s, p, retention, slog.New(slog.NewTextHandler(&logs, nil)))
	if err != nil {
		t.Fatalf("NewJanitor: %v", err)
	}
	return j, &logs
}

func TestNewJanitor_InvalidSpec_ReturnsError(t *testing.T) {
	_, err := NewJanitor("every minute", &fakeSweeper{}, nil, 0, slog.Default())
	if err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestNewJanitor_AcceptsStandardCron(t *testing.T) {
	if _, err := NewJanitor("*/5 * * * *", &fakeSweeper{}, nil, 0, slog.Default()); err != nil {
		t.Fatalf("NewJanitor: %v", err)
	}
}

func TestRunOnce_SweepsAndCountsMetric(t *testing.T) {
	s := &fakeSweeper{n: 4}
	j, _ := newTestJanitor(t, s, nil, 0)

	before := testutil.ToFloat64(metrics.ChallengesSweptTotal)
	j.RunOnce(context.Background())

	if s.count() != 1 {
		t.Errorf("sweep calls = %d, want 1", s.count())
	}
	if got := testutil.ToFloat64(metrics.ChallengesSweptTotal) - before; got != 4 {
		t.Errorf("swept metric delta = %v, want 4", got)
	}
}

func TestRunOnce_ZeroRetention_SkipsPrune(t *testing.T) {
	p := &fakePruner{}
	j, _ := newTestJanitor(t, &fakeSweeper{}, p, 0)

	j.RunOnce(context.Background())

	if p.calls != 0 {
		t.Errorf("prune calls = %d, want 0", p.calls)
	}
}

func TestRunOnce_PrunesWithRetentionAndClock(t *testing.T) {
	p := &fakePruner{}
	j, _ := newTestJanitor(t, &fakeSweeper{}, p, 30*24*time.Hour)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.RunOnce(context.Background())

	if p.calls != 1 || p.retention != 30*24*time.Hour || !p.now.Equal(fixed) {
		t.Errorf("prune = %+v", p)
	}
}

func TestRunOnce_SweepFailure_StillPrunes(t *testing.T) {
	p := &fakePruner{}
	j, logs := newTestJanitor(t, &fakeSweeper{err: errors.New("redis down")}, p, time.Hour)

	j.RunOnce(context.Background())

	if p.calls != 1 {
		t.Errorf("prune calls = %d, want 1", p.calls)
	}
	if !strings.Contains(logs.String(), "sweep_challenges") {
		t.Errorf("failure not logged: %s", logs.String())
	}
}

func TestRunOnce_CancelledContext_DoesNothing(t *testing.T) {
	s := &fakeSweeper{}
	j, _ := newTestJanitor(t, s, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	j.RunOnce(ctx)

	if s.count() != 0 {
		t.Errorf("sweep calls = %d, want 0", s.count())
	}
}

func TestStart_ReturnsOnCancel(t *testing.T) {
	j, _ := newTestJanitor(t, &fakeSweeper{}, nil, 0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
