package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func fakeClockStore(start time.Time) (*MemoryRateStore, func(time.Duration)) {
	now := start
	store := NewMemoryRateStore()
	store.now = func() time.Time { return now }
	return store, func(d time.Duration) { now = now.Add(d) }
}

func limitedRouter(store RateStore, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(store, limit, time.Minute))
	r.GET("/api/resources/:resource", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRateLimitPerRoute(t *testing.T) {
	store, advance := fakeClockStore(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	r := limitedRouter(store, 2)

	first := hit(r, "/api/resources/posts")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, "60", first.Header().Get("X-RateLimit-Reset"))

	// Both resources share the templated route.
	require.Equal(t, http.StatusOK, hit(r, "/api/resources/users").Code)

	advance(15 * time.Second)
	limited := hit(r, "/api/resources/posts")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	require.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))
	require.Equal(t, "45", limited.Header().Get("Retry-After"))
	require.Contains(t, limited.Body.String(), "RATE_LIMIT_EXCEEDED")

	advance(45 * time.Second)
	require.Equal(t, http.StatusOK, hit(r, "/api/resources/posts").Code)
}

func TestMemoryRateStoreSweepsExpiredCounters(t *testing.T) {
	store, advance := fakeClockStore(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		count, resetIn, err := store.Increment(ctx, key, time.Minute)
		require.NoError(t, err)
		require.Equal(t, 1, count)
		require.Equal(t, time.Minute, resetIn)
	}

	advance(2 * time.Minute)
	count, _, err := store.Increment(ctx, "a", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Len(t, store.counters, 1)
}

type failingStore struct{}

func (failingStore) Increment(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("unavailable")
}

func TestRateLimitFailsOpen(t *testing.T) {
	for name, r := range map[string]*gin.Engine{
		"store failure": limitedRouter(failingStore{}, 1),
		"disabled":      limitedRouter(nil, 1),
		"zero limit":    limitedRouter(NewMemoryRateStore(), 0),
	} {
		for range 3 {
			w := hit(r, "/api/resources/posts")
			require.Equal(t, http.StatusOK, w.Code, name)
			require.Empty(t, w.Header().Get("X-RateLimit-Limit"), name)
		}
	}
}
