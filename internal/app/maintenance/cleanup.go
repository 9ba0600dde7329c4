package maintenance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/charlesng35/nebula/pkg/logger"
	"github.com/charlesng35/nebula/pkg/metrics"
)

const (
	defaultAuditRetentionDays = 90
	defaultAuditSpec          = "@daily"
)

// AuditPruner removes audit entries recorded before a cutoff.
type AuditPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleaner coordinates background maintenance tasks such as pruning audit logs
// beyond the retention window.
type Cleaner struct {
	audit     AuditPruner
	cron      *cron.Cron
	now       func() time.Time
	log       *zap.Logger
	retention int

	auditSchedule string

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for retention comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithAuditRetentionDays adjusts how long audit logs are retained before cleanup.
func WithAuditRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.retention = days
		}
	}
}

// WithAuditSchedule overrides the cron specification for audit retention enforcement.
func WithAuditSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.auditSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. A nil pruner
// disables the audit job.
func NewCleaner(audit AuditPruner, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		audit:         audit,
		now:           time.Now,
		retention:     defaultAuditRetentionDays,
		auditSchedule: defaultAuditSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return cleaner
}

// Start registers cleanup jobs with the cron scheduler and launches it.
func (c *Cleaner) Start() error {
	if c.audit == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.auditSchedule, func() {
		if _, err := c.PruneAudit(context.Background()); err != nil {
			c.log.Warn("audit cleanup failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	c.log.Info("maintenance scheduled",
		zap.String("audit_schedule", c.auditSchedule),
		zap.Int("audit_retention_days", c.retention),
	)
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if c.audit == nil {
		return nil
	}
	_, err := c.PruneAudit(ctx)
	return err
}

// PruneAudit deletes audit entries older than the retention window.
func (c *Cleaner) PruneAudit(ctx context.Context) (int64, error) {
	if c.audit == nil {
		return 0, errors.New("maintenance: audit pruner is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := c.now()
	cutoff := now.AddDate(0, 0, -c.retention)
	removed, err := c.audit.PruneBefore(ctx, cutoff)

	c.mu.Lock()
	c.lastRun, c.lastErr = now, err
	c.mu.Unlock()

	if err != nil {
		return 0, err
	}

	metrics.AuditPruned.Add(float64(removed))
	if removed > 0 {
		c.log.Info("audit logs pruned", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}

// LastRun reports when the audit job last ran and the error it returned.
// The time is zero until the first run.
func (c *Cleaner) LastRun() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRun, c.lastErr
}
