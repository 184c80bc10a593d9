package oauth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateTTL is how long a login redirect stays valid.
const StateTTL = 10 * time.Minute

const stateKeyPrefix = "oauth:state:"

// StateStore keeps issued OAuth states until they are consumed or expire.
type StateStore interface {
	Save(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) (bool, error)
}

// NewStateStore returns a Redis-backed store, or an in-process one when rdb is nil.
func NewStateStore(rdb *redis.Client, ttl time.Duration) StateStore {
	if rdb == nil {
		return &memoryStateStore{ttl: ttl, states: make(map[string]time.Time), now: time.Now}
	}
	return &redisStateStore{rdb: rdb, ttl: ttl}
}

type redisStateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func (s *redisStateStore) Save(ctx context.Context, state string) error {
	return s.rdb.Set(ctx, stateKeyPrefix+state, 1, s.ttl).Err()
}

// Consume deletes the key; a state can be used once.
func (s *redisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.rdb.Del(ctx, stateKeyPrefix+state).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type memoryStateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]time.Time
	now    func() time.Time
}

func (s *memoryStateStore) Save(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(s.ttl)
	return nil
}

func (s *memoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.states[state]
	if !ok {
		return false, nil
	}
	delete(s.states, state)
	return !s.now().After(exp), nil
}
