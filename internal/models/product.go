// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

// Product is one merchandise SKU belonging to a publisher, optionally tied to
// the Game IP it is mapped under and to the connector it was imported from.
type Product struct {
	BaseModel
	PublisherID   uuid.UUID       `json:"publisher_id" gorm:"type:uuid;not null;index"`
	GameIPID      *uuid.UUID      `json:"game_ip_id" gorm:"type:uuid;index"`
	ConnectorID   *uuid.UUID      `json:"connector_id" gorm:"type:uuid;index"`
	Name          string          `json:"name" gorm:"size:255;not null"`
	Category      ProductCategory `json:"category" gorm:"type:varchar(20);default:'other';index"`
	Price         float64         `json:"price" gorm:"type:decimal(10,2);default:0"`
	SKU           string          `json:"sku" gorm:"size:100;index"`
	Vendor        string          `json:"vendor" gorm:"size:255"`
	MappingStatus MappingStatus   `json:"mapping_status" gorm:"type:varchar(20);default:'unmapped';index"`
	TotalRevenue  float64         `json:"total_revenue" gorm:"type:decimal(12,2);default:0"` // cached rollup

	// Relationships
	Publisher  Publisher      `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	GameIP     *GameIP        `json:"game_ip,omitempty" gorm:"foreignKey:GameIPID"`
	Connector  *Connector     `json:"connector,omitempty" gorm:"foreignKey:ConnectorID"`
	AssetLinks []ProductAsset `json:"asset_links,omitempty" gorm:"foreignKey:ProductID"`
	Sales      []Sale         `json:"sales,omitempty" gorm:"foreignKey:ProductID"`
}
