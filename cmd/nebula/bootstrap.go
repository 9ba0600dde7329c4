package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/admin"
	"github.com/charlesng35/nebula/internal/api"
	"github.com/charlesng35/nebula/internal/app"
	"github.com/charlesng35/nebula/internal/app/maintenance"
	"github.com/charlesng35/nebula/internal/database"
	"github.com/charlesng35/nebula/internal/monitoring"
	"github.com/charlesng35/nebula/internal/panel"
	"github.com/charlesng35/nebula/internal/realtime"
	"github.com/charlesng35/nebula/internal/services"
	"github.com/charlesng35/nebula/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB       *gorm.DB
	Panel    *panel.Panel
	Hub      *realtime.Hub
	AuditSvc *services.AuditService
	Cleaner  *maintenance.Cleaner
	Router   *gin.Engine
}

// bootstrapRuntime opens the database, builds the panel and services and
// wires the HTTP router.
func bootstrapRuntime(cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mod
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	stack.Panel, err = admin.NewPanel(stack.DB, cfg.Panel.Namespaces...)
	if err != nil {
		return nil, fmt.Errorf("build panel: %w", err)
	}

	stack.AuditSvc, err = services.NewAuditService(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise audit service: %w", err)
	}

	if cfg.Maintenance.Enabled {
		stack.Cleaner = maintenance.NewCleaner(stack.AuditSvc,
			maintenance.WithAuditRetentionDays(cfg.Maintenance.AuditRetentionDays),
			maintenance.WithAuditSchedule(cfg.Maintenance.Schedule),
		)
		if err := stack.Cleaner.Start(); err != nil {
			return nil, fmt.Errorf("start maintenance jobs: %w", err)
		}
	}

	if cfg.Realtime.Enabled {
		stack.Hub = realtime.NewHub(
			realtime.WithStreamFilter(api.ResourceStreamFilter(stack.Panel)),
			realtime.WithAllowedOrigins(cfg.Server.CORSOrigins...),
		)
	}

	health := api.DefaultHealth(stack.DB, stack.Hub)
	if stack.Cleaner != nil {
		health.RegisterReadiness(monitoring.Maintenance(stack.Cleaner, 0))
	}

	stack.Router, err = api.NewRouter(api.Dependencies{
		Config: cfg,
		DB:     stack.DB,
		Panel:  stack.Panel,
		Hub:    stack.Hub,
		Audit:  stack.AuditSvc,
		Health: health,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		stopCtx := s.Cleaner.Stop()
		if stopCtx != nil {
			<-stopCtx.Done()
		}
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
		s.DB = nil
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := convertDatabaseConfig(cfg)
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			closeDatabase(db, logger.WithModule("database"))
			return nil, fmt.Errorf("auto-migrate database: %w", err)
		}
	}
	if cfg.Database.Seed {
		if err := database.SeedData(db); err != nil {
			closeDatabase(db, logger.WithModule("database"))
			return nil, fmt.Errorf("seed database: %w", err)
		}
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", dbCfg.Driver))

	return db, nil
}

func convertDatabaseConfig(cfg *app.Config) database.Config {
	dbCfg := database.Config{
		Driver:   strings.ToLower(strings.TrimSpace(cfg.Database.Driver)),
		Path:     strings.TrimSpace(cfg.Database.Path),
		DSN:      strings.TrimSpace(cfg.Database.DSN),
		Options:  cfg.Database.Options,
		LogLevel: cfg.Database.LogLevel,
	}

	switch dbCfg.Driver {
	case "", "sqlite", "sqlite3":
		dbCfg.Driver = "sqlite"
	case "postgres", "postgresql":
		dbCfg.Driver = "postgres"
		fallthrough
	case "mysql", "mariadb":
		dbCfg.Host = strings.TrimSpace(cfg.Database.Host)
		dbCfg.Port = cfg.Database.Port
		dbCfg.Name = strings.TrimSpace(cfg.Database.Name)
		dbCfg.User = strings.TrimSpace(cfg.Database.User)
		dbCfg.Password = cfg.Database.Password
	default:
		// Leave driver as-is to surface unsupported driver error during open.
	}

	return dbCfg
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
