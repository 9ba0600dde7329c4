package monitoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ProbeStatus is the outcome of a probe. Its order of severity is up,
// degraded, down.
type ProbeStatus string

const (
	StatusUp       ProbeStatus = "up"
	StatusDegraded ProbeStatus = "degraded"
	StatusDown     ProbeStatus = "down"
)

var severity = map[ProbeStatus]int{StatusUp: 0, StatusDegraded: 1, StatusDown: 2}

// ProbeResult is what one check reports about one dependency.
type ProbeResult struct {
	Component string        `json:"component"`
	Status    ProbeStatus   `json:"status"`
	Details   string        `json:"details,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// HealthReport is the outcome of a liveness or readiness evaluation.
type HealthReport struct {
	Success   bool          `json:"success"`
	Status    ProbeStatus   `json:"status"`
	CheckedAt time.Time     `json:"checked_at"`
	Checks    []ProbeResult `json:"checks"`
}

// Check probes one dependency.
type Check struct {
	Name string
	Run  func(ctx context.Context) ProbeResult
}

// NewCheck names fn. A nil fn always reports down.
func NewCheck(name string, fn func(ctx context.Context) ProbeResult) Check {
	if fn == nil {
		fn = func(context.Context) ProbeResult {
			return ProbeResult{Status: StatusDown, Details: "no probe configured"}
		}
	}
	return Check{Name: name, Run: fn}
}

// HealthManager holds the liveness and readiness checks served by the
// health endpoints. It is safe for concurrent use.
type HealthManager struct {
	mu        sync.RWMutex
	liveness  []Check
	readiness []Check
}

func NewHealthManager() *HealthManager {
	return &HealthManager{}
}

// RegisterLiveness adds a check to the liveness set. Unnamed checks are
// dropped.
func (m *HealthManager) RegisterLiveness(check Check) {
	m.register(&m.liveness, check)
}

// RegisterReadiness adds a check to the readiness set. Unnamed checks are
// dropped.
func (m *HealthManager) RegisterReadiness(check Check) {
	m.register(&m.readiness, check)
}

func (m *HealthManager) register(set *[]Check, check Check) {
	if check.Name == "" || check.Run == nil {
		return
	}
	m.mu.Lock()
	*set = append(*set, check)
	m.mu.Unlock()
}

func (m *HealthManager) EvaluateLiveness(ctx context.Context) HealthReport {
	m.mu.RLock()
	checks := append([]Check(nil), m.liveness...)
	m.mu.RUnlock()
	return evaluate(ctx, checks)
}

func (m *HealthManager) EvaluateReadiness(ctx context.Context) HealthReport {
	m.mu.RLock()
	checks := append([]Check(nil), m.readiness...)
	m.mu.RUnlock()
	return evaluate(ctx, checks)
}

// evaluate runs every check concurrently. Results keep registration order
// and the report carries the most severe status.
func evaluate(ctx context.Context, checks []Check) HealthReport {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]ProbeResult, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = runCheck(ctx, check)
		}()
	}
	wg.Wait()

	status := StatusUp
	for _, result := range results {
		if severity[result.Status] > severity[status] {
			status = result.Status
		}
	}
	return HealthReport{
		Success:   status == StatusUp,
		Status:    status,
		CheckedAt: time.Now().UTC(),
		Checks:    results,
	}
}

func runCheck(ctx context.Context, check Check) (result ProbeResult) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			result = ProbeResult{Status: StatusDown, Details: panicDetails(rec)}
		}
		if _, known := severity[result.Status]; !known {
			result.Status = StatusDown
		}
		if result.Duration <= 0 {
			result.Duration = time.Since(start)
		}
		result.Component = check.Name
	}()
	return check.Run(ctx)
}

func panicDetails(rec any) string {
	switch v := rec.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("panic: %v", v)
	}
}

// ResultFromError reports up for a nil err. A timeout or cancellation means
// the dependency is slow rather than gone and reports degraded; any other
// error reports down.
func ResultFromError(component string, err error, duration time.Duration) ProbeResult {
	result := ProbeResult{Component: component, Status: StatusUp, Duration: max(duration, 0)}
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		result.Status, result.Details = StatusDegraded, err.Error()
	default:
		result.Status, result.Details = StatusDown, err.Error()
	}
	return result
}
