package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "2fa"
	resolveRetries   = 4

	// Expired records are kept a while so late attempts get ChallengeExpired
	// instead of NoChallengeFound.
	expiredRetention = 15 * time.Minute
)

// RedisStore shares pending challenges between API instances. Resolve uses
// WATCH so concurrent verifications of one user cannot both consume a code.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + ":" + userID
}

func (s *RedisStore) Save(ctx context.Context, userID string, c domain.Challenge) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}

	ttl := max(time.Until(c.ExpiresAt), 0) + expiredRetention
	if err := s.client.Set(ctx, s.key(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Resolve(ctx context.Context, userID string, decide Decision) error {
	key := s.key(userID)

	for range resolveRetries {
		var decideErr error
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return domain.ErrNoChallengeFound
			}
			if err != nil {
				return err
			}

			var c domain.Challenge
			if err := json.Unmarshal(data, &c); err != nil {
				return fmt.Errorf("decode challenge: %w", err)
			}

			discard, err := decide(c)
			decideErr = err
			if !discard {
				return nil
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			return err
		}, key)

		switch {
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, domain.ErrNoChallengeFound):
			return err
		case err != nil:
			return fmt.Errorf("resolve challenge: %w", err)
		}
		return decideErr
	}
	return fmt.Errorf("resolve challenge: %w", redis.TxFailedErr)
}

// Sweep is a no-op: redis expires keys on its own.
func (s *RedisStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
