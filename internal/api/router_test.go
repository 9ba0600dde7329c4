package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/nebula/internal/admin"
	"github.com/charlesng35/nebula/internal/app"
	"github.com/charlesng35/nebula/internal/database/testutil"
	"github.com/charlesng35/nebula/internal/realtime"
)

func testConfig() *app.Config {
	return &app.Config{
		Server: app.ServerConfig{
			RateLimit: app.RateLimitConfig{Requests: 100, Window: time.Minute},
		},
		Panel: app.PanelConfig{PerPage: 15, MaxPerPage: 100},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true},
		},
		Realtime: app.RealtimeConfig{Enabled: true, Path: "/ws"},
	}
}

func newTestRouter(t *testing.T, cfg *app.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	p, err := admin.NewPanel(db)
	require.NoError(t, err)

	router, err := NewRouter(Dependencies{
		Config: cfg,
		DB:     db,
		Panel:  p,
		Hub:    realtime.NewHub(realtime.WithStreamFilter(ResourceStreamFilter(p))),
	})
	require.NoError(t, err)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestNewRouterRequiresDependencies(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	p, err := admin.NewPanel(db)
	require.NoError(t, err)

	_, err = NewRouter(Dependencies{Config: testConfig(), Panel: p})
	require.ErrorContains(t, err, "database")

	_, err = NewRouter(Dependencies{Config: testConfig(), DB: db})
	require.ErrorContains(t, err, "panel")

	_, err = NewRouter(Dependencies{DB: db, Panel: p})
	require.ErrorContains(t, err, "config")
}

func TestRouter_PublicRoutes(t *testing.T) {
	router := newTestRouter(t, testConfig())

	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health").Code)
	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/health").Code)
	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/resources").Code)
	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/resources/posts").Code)
	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/audit").Code)
	require.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/unknown").Code)
	require.Equal(t, http.StatusMethodNotAllowed, serve(router, http.MethodPut, "/api/resources/posts").Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig())

	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health").Code)

	rec := serve(router, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "nebula_api_latency_seconds"))
	require.True(t, strings.Contains(rec.Body.String(), `path="/health"`))
	require.False(t, strings.Contains(rec.Body.String(), `path="/metrics"`))
}

func TestRouter_DisabledMonitoringAndRealtime(t *testing.T) {
	cfg := testConfig()
	cfg.Monitoring.Prometheus.Enabled = false
	cfg.Monitoring.Health.Enabled = false
	cfg.Realtime.Enabled = false
	router := newTestRouter(t, cfg)

	require.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/health").Code)
	require.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/metrics").Code)
	require.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/ws").Code)
}

func TestRouter_RealtimeRejectsUnknownResourceStream(t *testing.T) {
	router := newTestRouter(t, testConfig())

	rec := serve(router, http.MethodGet, "/ws?streams=resources.widgets")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResourceStreamFilter(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	p, err := admin.NewPanel(db)
	require.NoError(t, err)

	allow := ResourceStreamFilter(p)
	require.True(t, allow(realtime.StreamResources))
	require.True(t, allow(realtime.ResourceStream("posts")))
	require.False(t, allow(realtime.ResourceStream("widgets")))
	require.False(t, allow("notifications"))
}

func TestRouter_HealthProbes(t *testing.T) {
	router := newTestRouter(t, testConfig())

	require.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health/live").Code)

	rec := serve(router, http.MethodGet, "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"component":"database"`)
}
