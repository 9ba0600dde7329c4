package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is embedded by every admin-managed table. Keys are UUID strings
// stored as varchar(36) so the schema migrates on every supported driver.
type BaseModel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PrimaryKey satisfies records.Keyed.
func (m *BaseModel) PrimaryKey() string {
	return m.ID
}

// BeforeCreate keeps a caller-chosen id and fills one in otherwise.
func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	return nil
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
