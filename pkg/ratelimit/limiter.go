package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LimiterStore hands out one token bucket per key.
type LimiterStore struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	burst    int
}

func NewLimiterStore(r rate.Limit, burst int) *LimiterStore {
	return &LimiterStore{
		limiters: make(map[string]*rate.Limiter),
		r:        r,
		burst:    burst,
	}
}

// PerMinute builds a store allowing n requests per minute for each key.
func PerMinute(n int) *LimiterStore {
	return NewLimiterStore(rate.Every(time.Minute/time.Duration(n)), 1)
}

func (s *LimiterStore) GetLimiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limiter, exists := s.limiters[key]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(s.r, s.burst)
	s.limiters[key] = limiter
	return limiter
}

// Wait blocks until the limiter for key allows one event. It reports
// whether the caller had to wait.
func (s *LimiterStore) Wait(ctx context.Context, key string) (bool, error) {
	limiter := s.GetLimiter(key)
	if limiter.Allow() {
		return false, nil
	}
	return true, limiter.Wait(ctx)
}
