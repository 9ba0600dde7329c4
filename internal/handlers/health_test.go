package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/charlesng35/nebula/internal/monitoring"
)

func TestHealthReportsDownDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	manager := monitoring.NewHealthManager()
	manager.RegisterReadiness(monitoring.NewCheck("database", func(context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "unreachable"}
	}))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)
	Health(manager)(c)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Error struct {
			Code    string                  `json:"code"`
			Details monitoring.HealthReport `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	require.Equal(t, "unreachable", body.Error.Details.Checks[0].Details)
}

func TestLivenessWithoutChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/health/live", nil)
	Liveness(monitoring.NewHealthManager())(c)

	require.Equal(t, http.StatusOK, rec.Code)
}
