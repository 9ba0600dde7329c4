package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/nebula/internal/auditctx"
	"github.com/charlesng35/nebula/internal/models"
	"github.com/charlesng35/nebula/pkg/logger"
)

const (
	AuditResultSuccess = "success"
	AuditResultFailure = "failure"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

// AuditEntry is one audit event. Actor, IPAddress and UserAgent default to
// the request actor carried by the context.
type AuditEntry struct {
	Actor     string
	Action    string
	Resource  string
	RecordID  string
	Result    string
	IPAddress string
	UserAgent string
	Metadata  map[string]any
}

// AuditQuery selects audit entries. Empty strings and zero times match
// everything. Page and PerPage only apply to List.
type AuditQuery struct {
	Page     int
	PerPage  int
	Actor    string
	Action   string
	Result   string
	Resource string
	RecordID string
	Since    time.Time
	Until    time.Time
}

// AuditPage is one page of entries, newest first.
type AuditPage struct {
	Entries []models.AuditLog
	Page    int
	PerPage int
	Total   int64
}

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) (*AuditService, error) {
	if db == nil {
		return nil, errors.New("audit service: db is required")
	}
	return &AuditService{db: db}, nil
}

// Record logs entry and drops it, with a warning, when that fails. Safe to
// call on a nil service.
func (s *AuditService) Record(ctx context.Context, entry AuditEntry) {
	if s == nil {
		return
	}
	if err := s.Log(ctx, entry); err != nil {
		logger.WithModule("audit").Warn("audit entry dropped",
			zap.String("action", entry.Action),
			zap.String("record_id", entry.RecordID),
			zap.Error(err),
		)
	}
}

func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	ctx = ensureContext(ctx)

	row := models.AuditLog{
		Action:    strings.TrimSpace(entry.Action),
		Result:    strings.TrimSpace(entry.Result),
		Actor:     strings.TrimSpace(entry.Actor),
		Resource:  strings.TrimSpace(entry.Resource),
		RecordID:  strings.TrimSpace(entry.RecordID),
		IPAddress: strings.TrimSpace(entry.IPAddress),
		UserAgent: strings.TrimSpace(entry.UserAgent),
	}
	switch {
	case row.Action == "":
		return errors.New("audit service: action is required")
	case row.Result == "":
		return errors.New("audit service: result is required")
	}

	if actor, ok := auditctx.FromContext(ctx); ok {
		row.Actor = cmp.Or(row.Actor, actor.Username)
		row.IPAddress = cmp.Or(row.IPAddress, actor.IPAddress)
		row.UserAgent = cmp.Or(row.UserAgent, actor.UserAgent)
	}
	if len(entry.Metadata) > 0 {
		row.Metadata = datatypes.JSONMap(entry.Metadata)
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("audit service: create log: %w", err)
	}
	return nil
}

// List returns one page of matching entries. Page defaults to 1; PerPage
// defaults to 50 and is capped at 200.
func (s *AuditService) List(ctx context.Context, q AuditQuery) (AuditPage, error) {
	page := AuditPage{Page: max(q.Page, 1), PerPage: q.PerPage}
	if page.PerPage <= 0 {
		page.PerPage = defaultAuditPageSize
	}
	page.PerPage = min(page.PerPage, maxAuditPageSize)
	page.Page = clampPage(page.Page, page.PerPage)

	base := s.db.WithContext(ensureContext(ctx)).Model(&models.AuditLog{}).Scopes(q.scope)
	if err := base.Count(&page.Total).Error; err != nil {
		return AuditPage{}, fmt.Errorf("audit service: count logs: %w", err)
	}

	page.Entries = []models.AuditLog{}
	if page.Total == 0 {
		return page, nil
	}
	err := base.Order("created_at DESC").
		Offset((page.Page - 1) * page.PerPage).
		Limit(page.PerPage).
		Find(&page.Entries).Error
	if err != nil {
		return AuditPage{}, fmt.Errorf("audit service: list logs: %w", err)
	}
	return page, nil
}

// Export returns every matching entry, newest first.
func (s *AuditService) Export(ctx context.Context, q AuditQuery) ([]models.AuditLog, error) {
	entries := []models.AuditLog{}
	err := s.db.WithContext(ensureContext(ctx)).
		Scopes(q.scope).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("audit service: export logs: %w", err)
	}
	return entries, nil
}

// PruneBefore deletes entries created before cutoff and reports how many.
func (s *AuditService) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := s.db.WithContext(ensureContext(ctx)).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("audit service: prune logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CleanupOlderThan prunes entries older than days.
func (s *AuditService) CleanupOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, fmt.Errorf("audit service: retention must be positive, got %d days", days)
	}
	return s.PruneBefore(ctx, time.Now().AddDate(0, 0, -days))
}

func (q AuditQuery) scope(db *gorm.DB) *gorm.DB {
	for column, value := range map[string]string{
		"actor":     q.Actor,
		"action":    q.Action,
		"result":    q.Result,
		"resource":  q.Resource,
		"record_id": q.RecordID,
	} {
		if value = strings.TrimSpace(value); value != "" {
			db = db.Where(column+" = ?", value)
		}
	}
	if !q.Since.IsZero() {
		db = db.Where("created_at >= ?", q.Since)
	}
	if !q.Until.IsZero() {
		db = db.Where("created_at <= ?", q.Until)
	}
	return db
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
