package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/nebula/internal/monitoring"
	"github.com/charlesng35/nebula/pkg/errors"
	"github.com/charlesng35/nebula/pkg/response"
)

var errUnhealthy = errors.New("SERVICE_UNAVAILABLE", "Service is unavailable", http.StatusServiceUnavailable)

// Health renders the readiness report. A down dependency answers 503; a
// degraded one still serves traffic.
func Health(manager *monitoring.HealthManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeReport(c, manager.EvaluateReadiness(requestContext(c)))
	}
}

// Liveness reports whether the process can serve requests at all.
func Liveness(manager *monitoring.HealthManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		writeReport(c, manager.EvaluateLiveness(requestContext(c)))
	}
}

func writeReport(c *gin.Context, report monitoring.HealthReport) {
	if report.Status == monitoring.StatusDown {
		response.Error(c, errUnhealthy.WithDetails(report))
		return
	}
	response.Success(c, http.StatusOK, report)
}
