package georisk

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore manages per-sensor rate limiters: sensor_id -> rate limiter
type RateLimiterStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(sensorID string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[sensorID]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[sensorID] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(sensorID string, sensorRate rate.Limit, sensorBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[sensorID] = rate.NewLimiter(sensorRate, sensorBurst)
}
