package monitoring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/nebula/internal/database/testutil"
	"github.com/charlesng35/nebula/internal/monitoring"
)

type stubReporter struct {
	at  time.Time
	err error
}

func (s stubReporter) LastRun() (time.Time, error) {
	return s.at, s.err
}

func TestHealthManagerReadiness(t *testing.T) {
	manager := monitoring.NewHealthManager()
	manager.RegisterReadiness(monitoring.NewCheck("ok", func(context.Context) monitoring.ProbeResult {
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	}))
	manager.RegisterReadiness(monitoring.NewCheck("slow", func(context.Context) monitoring.ProbeResult {
		return monitoring.ResultFromError("slow", context.DeadlineExceeded, time.Millisecond)
	}))
	manager.RegisterReadiness(monitoring.Check{})

	report := manager.EvaluateReadiness(context.Background())
	require.False(t, report.Success)
	require.Equal(t, monitoring.StatusDegraded, report.Status)
	require.Len(t, report.Checks, 2)
	require.Equal(t, "slow", report.Checks[1].Component)

	manager.RegisterReadiness(monitoring.NewCheck("broken", nil))
	report = manager.EvaluateReadiness(context.Background())
	require.Equal(t, monitoring.StatusDown, report.Status)
}

func TestHealthManagerRecoversPanics(t *testing.T) {
	manager := monitoring.NewHealthManager()
	manager.RegisterLiveness(monitoring.NewCheck("panics", func(context.Context) monitoring.ProbeResult {
		panic("boom")
	}))

	report := manager.EvaluateLiveness(context.Background())
	require.Equal(t, monitoring.StatusDown, report.Status)
	require.Equal(t, "boom", report.Checks[0].Details)
	require.Equal(t, "panics", report.Checks[0].Component)
}

func TestHealthManagerRunsChecksConcurrently(t *testing.T) {
	manager := monitoring.NewHealthManager()
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	for _, name := range []string{"first", "second"} {
		manager.RegisterReadiness(monitoring.NewCheck(name, func(context.Context) monitoring.ProbeResult {
			started <- struct{}{}
			<-release
			return monitoring.ProbeResult{Status: "sideways"}
		}))
	}

	done := make(chan monitoring.HealthReport)
	go func() { done <- manager.EvaluateReadiness(context.Background()) }()

	// Both probes must be in flight before either is released.
	<-started
	<-started
	close(release)

	report := <-done
	require.Equal(t, []string{"first", "second"}, []string{report.Checks[0].Component, report.Checks[1].Component})
	require.Equal(t, monitoring.StatusDown, report.Status, "unknown statuses count as down")
	require.False(t, report.CheckedAt.IsZero())
}

func TestResultFromError(t *testing.T) {
	require.Equal(t, monitoring.StatusUp, monitoring.ResultFromError("db", nil, -time.Second).Status)
	require.Zero(t, monitoring.ResultFromError("db", nil, -time.Second).Duration)
	require.Equal(t, monitoring.StatusDegraded, monitoring.ResultFromError("db", context.Canceled, 0).Status)

	down := monitoring.ResultFromError("db", errors.New("connection refused"), time.Millisecond)
	require.Equal(t, monitoring.StatusDown, down.Status)
	require.Equal(t, "connection refused", down.Details)
}

func TestEmptyManagerIsUp(t *testing.T) {
	report := monitoring.NewHealthManager().EvaluateLiveness(context.Background())
	require.True(t, report.Success)
	require.Equal(t, monitoring.StatusUp, report.Status)
	require.Empty(t, report.Checks)
}

func TestDatabaseCheck(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	result := monitoring.Database(db, 0).Run(context.Background())
	require.Equal(t, monitoring.StatusUp, result.Status)

	result = monitoring.Database(nil, 0).Run(context.Background())
	require.Equal(t, monitoring.StatusDown, result.Status)
}

func TestMaintenanceCheck(t *testing.T) {
	check := func(r monitoring.MaintenanceReporter) monitoring.ProbeStatus {
		return monitoring.Maintenance(r, time.Hour).Run(context.Background()).Status
	}

	require.Equal(t, monitoring.StatusUp, check(nil))
	require.Equal(t, monitoring.StatusUp, check(stubReporter{}))
	require.Equal(t, monitoring.StatusUp, check(stubReporter{at: time.Now()}))
	require.Equal(t, monitoring.StatusDown, check(stubReporter{at: time.Now(), err: errors.New("locked")}))
	require.Equal(t, monitoring.StatusDegraded, check(stubReporter{at: time.Now().Add(-2 * time.Hour)}))
}

func TestRealtimeCheck(t *testing.T) {
	result := monitoring.Realtime(func() int { return 3 }).Run(context.Background())
	require.Equal(t, monitoring.StatusUp, result.Status)
	require.Equal(t, "3 subscribers", result.Details)
}
