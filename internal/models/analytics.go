// internal/models/analytics.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsSnapshot is a pre-computed metrics rollup for one publisher, one
// period granularity and one bucket. The composite unique index makes
// "at most one snapshot per (publisher, period, start)" a storage-level
// guarantee, so concurrent generation runs cannot produce duplicates.
type AnalyticsSnapshot struct {
	BaseModel
	PublisherID uuid.UUID      `json:"publisher_id" gorm:"type:uuid;not null;index:idx_snapshots_bucket,unique"`
	Period      SnapshotPeriod `json:"period" gorm:"type:varchar(10);not null;index:idx_snapshots_bucket,unique"`
	StartDate   time.Time      `json:"start_date" gorm:"not null;index:idx_snapshots_bucket,unique"`
	EndDate     time.Time      `json:"end_date" gorm:"not null"`
	Metrics     JSONB          `json:"metrics" gorm:"type:jsonb;not null"`

	// Relationships
	Publisher Publisher `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
}

// AIInsight is one generated recommendation. Insights are never overwritten;
// each generation run appends a new batch and the most recent batch is the
// "current" one.
type AIInsight struct {
	BaseModel
	PublisherID uuid.UUID   `json:"publisher_id" gorm:"type:uuid;not null;index"`
	GameIPID    *uuid.UUID  `json:"game_ip_id" gorm:"type:uuid;index"`
	BatchID     string      `json:"batch_id" gorm:"size:64;index"`
	Type        InsightType `json:"type" gorm:"type:varchar(20);not null;index"`
	Title       string      `json:"title" gorm:"size:255;not null"`
	Description string      `json:"description" gorm:"type:text"`
	Confidence  string      `json:"confidence" gorm:"type:decimal(3,2);default:0.5"`
	Data        JSONB       `json:"data" gorm:"type:jsonb"`
	IsRead      bool        `json:"is_read" gorm:"default:false"`
	IsActioned  bool        `json:"is_actioned" gorm:"default:false"`

	// Relationships
	Publisher Publisher `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	GameIP    *GameIP   `json:"game_ip,omitempty" gorm:"foreignKey:GameIPID"`
}

// AuditLog records mutating API calls per publisher.
type AuditLog struct {
	BaseModel
	PublisherID  *uuid.UUID `json:"publisher_id" gorm:"type:uuid;index"`
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
