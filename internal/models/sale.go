// internal/models/sale.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is one revenue-bearing event. Rows are immutable once ingested; the
// analytics pipeline only ever reads them.
type Sale struct {
	BaseModel
	PublisherID uuid.UUID  `json:"publisher_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	ConnectorID *uuid.UUID `json:"connector_id" gorm:"type:uuid;index"`
	Quantity    int        `json:"quantity" gorm:"default:1"`
	Revenue     string     `json:"revenue" gorm:"type:decimal(12,2);not null"`
	Region      string     `json:"region" gorm:"size:100"`
	Channel     string     `json:"channel" gorm:"size:100"`
	OrderDate   time.Time  `json:"order_date" gorm:"not null;index"`

	// Relationships
	Publisher Publisher  `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	Product   Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Connector *Connector `json:"connector,omitempty" gorm:"foreignKey:ConnectorID"`
}
