package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/app"
	"github.com/charlesng35/nebula/internal/middleware"
	"github.com/charlesng35/nebula/internal/monitoring"
	"github.com/charlesng35/nebula/internal/panel"
	"github.com/charlesng35/nebula/internal/realtime"
	"github.com/charlesng35/nebula/internal/services"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Config *app.Config
	DB     *gorm.DB
	Panel  *panel.Panel

	// Hub is optional; realtime routes are skipped when nil.
	Hub *realtime.Hub
	// Audit is built from DB when nil.
	Audit *services.AuditService
	// RateStore defaults to an in-memory store.
	RateStore middleware.RateStore
	// Health defaults to a manager probing DB and, when present, Hub.
	Health *monitoring.HealthManager
}

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, errors.New("database handle must be provided")
	}
	if deps.Panel == nil {
		return nil, errors.New("panel must be provided")
	}
	if deps.Config == nil {
		return nil, errors.New("config must be provided")
	}
	cfg := deps.Config

	audit := deps.Audit
	if audit == nil {
		var err error
		if audit, err = services.NewAuditService(deps.DB); err != nil {
			return nil, fmt.Errorf("initialise audit service: %w", err)
		}
	}

	rateStore := deps.RateStore
	if rateStore == nil {
		rateStore = middleware.NewMemoryRateStore()
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics(metricsEndpoint(cfg)))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins...))
	r.Use(middleware.RateLimit(rateStore, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))
	r.Use(middleware.Actor())

	health := deps.Health
	if health == nil {
		health = DefaultHealth(deps.DB, deps.Hub)
	}
	registerHealthRoutes(r, cfg, health)
	registerMetricsRoutes(r, cfg)

	opts := []services.ResourceServiceOption{
		services.WithAuditService(audit),
		services.WithPagination(cfg.Panel.PerPage, cfg.Panel.MaxPerPage),
	}
	if deps.Hub != nil {
		opts = append(opts, services.WithPublisher(deps.Hub))
	}
	resourceSvc, err := services.NewResourceService(deps.Panel, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialise resource service: %w", err)
	}

	api := r.Group("/api")
	registerResourceRoutes(api, resourceSvc)
	registerAuditRoutes(api, audit)

	if cfg.Realtime.Enabled && deps.Hub != nil {
		registerRealtimeRoutes(r, cfg, deps.Hub)
	}

	r.NoRoute(middleware.NotFoundHandler)
	r.NoMethod(middleware.MethodNotAllowedHandler)

	return r, nil
}

// DefaultHealth probes the database for readiness and, when hub is set,
// reports realtime subscribers.
func DefaultHealth(db *gorm.DB, hub *realtime.Hub) *monitoring.HealthManager {
	manager := monitoring.NewHealthManager()
	manager.RegisterReadiness(monitoring.Database(db, 0))
	if hub != nil {
		manager.RegisterLiveness(monitoring.Realtime(func() int {
			return hub.Subscribers(realtime.StreamResources)
		}))
	}
	return manager
}
