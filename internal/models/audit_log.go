package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records one mutation attempt against a resource record.
// Resource and RecordID share an index for per-record history lookups.
type AuditLog struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	Actor     string            `gorm:"size:120;index" json:"actor"`
	Action    string            `gorm:"size:120;not null;index" json:"action"`
	Resource  string            `gorm:"size:120;index:idx_audit_logs_target" json:"resource"`
	RecordID  string            `gorm:"size:64;index:idx_audit_logs_target" json:"record_id"`
	Result    string            `gorm:"size:16;not null" json:"result"`
	IPAddress string            `gorm:"size:45" json:"ip_address"`
	UserAgent string            `json:"user_agent"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(*gorm.DB) error {
	assignID(&a.ID)
	return nil
}
