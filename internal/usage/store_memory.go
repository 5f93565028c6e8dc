package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.Mutex
	limit int
	used  map[string]int
	day   map[string]time.Time
	now   func() time.Time
}

func newMemoryStore(limit int) *memoryStore {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &memoryStore{
		limit: limit,
		used:  make(map[string]int),
		day:   make(map[string]time.Time),
		now:   time.Now,
	}
}

// roll discards a stale counter when the stored day is not today.
// Callers must hold mu.
func (s *memoryStore) roll(userID string, day time.Time) {
	if stored, ok := s.day[userID]; !ok || !stored.Equal(day) {
		s.used[userID] = 0
		s.day[userID] = day
	}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	day, resetsAt := dayWindow(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roll(userID, day)
	return Usage{Limit: s.limit, Used: s.used[userID], ResetsAt: resetsAt}, nil
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	day, resetsAt := dayWindow(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roll(userID, day)
	if n > 0 {
		if s.used[userID]+n > s.limit {
			return Usage{}, ErrLimitReached
		}
		s.used[userID] += n
	}
	return Usage{Limit: s.limit, Used: s.used[userID], ResetsAt: resetsAt}, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	day, resetsAt := dayWindow(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used[userID] = 0
	s.day[userID] = day
	return Usage{Limit: s.limit, Used: 0, ResetsAt: resetsAt}, nil
}
