package middleware

import (
	"context"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/charlesng35/nebula/pkg/errors"
	"github.com/charlesng35/nebula/pkg/logger"
	"github.com/charlesng35/nebula/pkg/response"
)

// RateStore counts hits per key in fixed windows. Increment returns the hit
// count of the current window, including this one, and the time left in it.
type RateStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int, resetIn time.Duration, err error)
}

// RateLimit allows limit requests per client and route in each window.
// A nil store or a non-positive limit or window disables limiting. When the
// store fails the request is let through.
func RateLimit(store RateStore, limit int, window time.Duration) gin.HandlerFunc {
	if store == nil || limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limitHeader := strconv.Itoa(limit)

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		count, resetIn, err := store.Increment(c.Request.Context(), c.ClientIP()+" "+route, window)
		if err != nil {
			logger.WithModule("http").Warn("rate limit store unavailable", zap.Error(err))
			c.Next()
			return
		}

		reset := strconv.Itoa(int(math.Ceil(resetIn.Seconds())))
		c.Header("X-RateLimit-Limit", limitHeader)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-count, 0)))
		c.Header("X-RateLimit-Reset", reset)

		if count > limit {
			c.Header("Retry-After", reset)
			response.Error(c, appErrors.ErrRateLimit)
			c.Abort()
			return
		}
		c.Next()
	}
}

// MemoryRateStore keeps counters in process memory. Expired counters are
// swept at most once per window.
type MemoryRateStore struct {
	mu        sync.Mutex
	now       func() time.Time
	counters  map[string]*windowCounter
	nextSweep time.Time
}

type windowCounter struct {
	hits int
	ends time.Time
}

func NewMemoryRateStore() *MemoryRateStore {
	return &MemoryRateStore{now: time.Now, counters: make(map[string]*windowCounter)}
}

func (s *MemoryRateStore) Increment(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(s.nextSweep) {
		s.sweepLocked(now)
		s.nextSweep = now.Add(window)
	}

	counter := s.counters[key]
	if counter == nil || !now.Before(counter.ends) {
		counter = &windowCounter{ends: now.Add(window)}
		s.counters[key] = counter
	}
	counter.hits++
	return counter.hits, counter.ends.Sub(now), nil
}

func (s *MemoryRateStore) sweepLocked(now time.Time) {
	for key, counter := range s.counters {
		if !now.Before(counter.ends) {
			delete(s.counters, key)
		}
	}
}
