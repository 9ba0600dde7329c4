package monitoring

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	defaultDatabaseTimeout   = 2 * time.Second
	defaultMaintenanceMaxAge = 48 * time.Hour
)

// Database returns a readiness probe that pings the configured database handle.
func Database(db *gorm.DB, timeout time.Duration) Check {
	if timeout <= 0 {
		timeout = defaultDatabaseTimeout
	}

	return NewCheck("database", func(ctx context.Context) ProbeResult {
		start := time.Now()
		if db == nil {
			return ProbeResult{Status: StatusDown, Details: "database not configured"}
		}

		sqlDB, err := db.DB()
		if err != nil {
			return ResultFromError("database", err, time.Since(start))
		}

		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return ResultFromError("database", sqlDB.PingContext(probeCtx), time.Since(start))
	})
}

// MaintenanceReporter exposes the outcome of the last maintenance run.
type MaintenanceReporter interface {
	LastRun() (time.Time, error)
}

// Maintenance reports down when the last run failed and degraded when it is
// older than maxAge. A job that has not run yet is up.
func Maintenance(reporter MaintenanceReporter, maxAge time.Duration) Check {
	if maxAge <= 0 {
		maxAge = defaultMaintenanceMaxAge
	}

	return NewCheck("maintenance", func(context.Context) ProbeResult {
		if reporter == nil {
			return ProbeResult{Status: StatusUp, Details: "maintenance disabled"}
		}

		at, err := reporter.LastRun()
		switch {
		case at.IsZero():
			return ProbeResult{Status: StatusUp, Details: "pending first run"}
		case err != nil:
			return ProbeResult{Status: StatusDown, Details: err.Error()}
		case time.Since(at) > maxAge:
			return ProbeResult{
				Status:  StatusDegraded,
				Details: fmt.Sprintf("stale run %s", at.UTC().Format(time.RFC3339)),
			}
		default:
			return ProbeResult{Status: StatusUp}
		}
	})
}

// Realtime reports the number of clients following the global resource stream.
func Realtime(subscribers func() int) Check {
	return NewCheck("realtime", func(context.Context) ProbeResult {
		if subscribers == nil {
			return ProbeResult{Status: StatusUp, Details: "realtime disabled"}
		}
		return ProbeResult{Status: StatusUp, Details: fmt.Sprintf("%d subscribers", subscribers())}
	})
}
