// internal/models/connector.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Connector is one external or manual data source for a publisher: a Shopify
// OAuth connection or a CSV import marker. Config holds source-specific
// settings such as the shop domain.
type Connector struct {
	BaseModel
	PublisherID uuid.UUID       `json:"publisher_id" gorm:"type:uuid;not null;index"`
	Type        ConnectorType   `json:"type" gorm:"type:varchar(20);not null"`
	Status      ConnectorStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Config      JSONB           `json:"config" gorm:"type:jsonb"`
	LastSyncAt  *time.Time      `json:"last_sync_at"`

	// Relationships
	Publisher Publisher `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	Products  []Product `json:"products,omitempty" gorm:"foreignKey:ConnectorID"`
	Sales     []Sale    `json:"sales,omitempty" gorm:"foreignKey:ConnectorID"`
}
