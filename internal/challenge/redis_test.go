package challenge_test

import (
	"context"
	"testing"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/challenge"
	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*challenge.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return challenge.NewRedisStore(rdb, "test2fa"), mr
}

func TestRedisStore_VerifySingleUse(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	m := challenge.NewManager(store)

	c, err := m.Issue(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test2fa:user-1"))

	require.NoError(t, m.Verify(ctx, "user-1", c.Code))
	assert.False(t, mr.Exists("test2fa:user-1"))

	assert.ErrorIs(t, m.Verify(ctx, "user-1", c.Code), domain.ErrNoChallengeFound)
}

func TestRedisStore_WrongCodeKeepsKey(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Save(ctx, "user-1", domain.Challenge{Code: "123456", ExpiresAt: time.Now().Add(time.Minute)}))

	m := challenge.NewManager(store)
	assert.ErrorIs(t, m.Verify(ctx, "user-1", "654321"), domain.ErrCodeMismatch)
	assert.True(t, mr.Exists("test2fa:user-1"))
}

func TestRedisStore_ExpiredChallengeReportedThenDiscarded(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	clock := newFakeClock()
	m := challenge.NewManager(store, challenge.WithClock(clock.Now))

	c, err := m.Issue(ctx, "user-1")
	require.NoError(t, err)

	clock.Advance(11 * time.Minute)
	assert.ErrorIs(t, m.Verify(ctx, "user-1", c.Code), domain.ErrChallengeExpired)
	assert.False(t, mr.Exists("test2fa:user-1"))
}

func TestRedisStore_KeyEventuallyExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Save(ctx, "user-1", domain.Challenge{Code: "123456", ExpiresAt: time.Now().Add(time.Minute)}))

	mr.FastForward(time.Hour)
	err := store.Resolve(ctx, "user-1", func(domain.Challenge) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, domain.ErrNoChallengeFound)
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
