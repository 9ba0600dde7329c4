package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/charlesng35/nebula/pkg/logger"
)

// slowQuery is the duration above which gorm reports a statement as slow.
const slowQuery = 200 * time.Millisecond

// Config contains database connection options.
type Config struct {
	Driver   string
	Path     string // SQLite database path when Driver == sqlite
	DSN      string // Optional DSN override
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	Options  map[string]string

	// LogLevel controls gorm statement logging: silent, error, warn or info.
	LogLevel string
}

// Open initialises a gorm.DB for the configured driver: sqlite (default),
// postgres or mysql.
func Open(cfg Config) (*gorm.DB, error) {
	dialect, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialect, gormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name(), err)
	}

	if err := enableForeignKeys(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrateAndSeed convenience helper used during application start-up.
func AutoMigrateAndSeed(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := SeedData(db); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}

	return nil
}

// gormConfig routes statement logs through the application logger.
// Record-not-found is an expected outcome of Show and is not logged.
func gormConfig(cfg Config) *gorm.Config {
	sink := zap.NewStdLog(logger.WithModule("database").WithOptions(zap.AddCallerSkip(2)))
	return &gorm.Config{
		Logger: gormlogger.New(sink, gormlogger.Config{
			SlowThreshold:             slowQuery,
			LogLevel:                  logLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}),
		TranslateError: true,
	}
}

func logLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return gormlogger.Error
	case "warn", "warning":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Silent
	}
}
