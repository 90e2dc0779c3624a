package challenge

import (
	"context"
	"sync"
	"time"

	"github.com/Samuel-soita/project-tracker-backend/internal/domain"
)

// MemoryStore keeps challenges in process memory behind a single mutex.
// Decisions are pure comparisons, so the critical section stays short.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[string]domain.Challenge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[string]domain.Challenge)}
}

func (s *MemoryStore) Save(_ context.Context, userID string, c domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[userID] = c
	return nil
}

func (s *MemoryStore) Resolve(_ context.Context, userID string, decide Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.pending[userID]
	if !ok {
		return domain.ErrNoChallengeFound
	}
	discard, err := decide(c)
	if discard {
		delete(s.pending, userID)
	}
	return err
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, c := range s.pending {
		if c.Expired(now) {
			delete(s.pending, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of pending challenges.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
