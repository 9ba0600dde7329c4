package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlesng35/nebula/internal/app"
	"github.com/charlesng35/nebula/internal/handlers"
	"github.com/charlesng35/nebula/internal/monitoring"
)

func registerHealthRoutes(r *gin.Engine, cfg *app.Config, manager *monitoring.HealthManager) {
	if !cfg.Monitoring.Health.Enabled {
		return
	}
	health := handlers.Health(manager)
	r.GET("/health", health)
	r.GET("/health/ready", health)
	r.GET("/health/live", handlers.Liveness(manager))
	r.GET("/api/health", health)
}

func registerMetricsRoutes(r *gin.Engine, cfg *app.Config) {
	if !cfg.Monitoring.Prometheus.Enabled {
		return
	}
	r.GET(metricsEndpoint(cfg), gin.WrapH(promhttp.Handler()))
}

func metricsEndpoint(cfg *app.Config) string {
	if endpoint := cfg.Monitoring.Prometheus.Endpoint; endpoint != "" {
		return endpoint
	}
	return "/metrics"
}
