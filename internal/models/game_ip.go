// internal/models/game_ip.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// GameIP is a franchise container, e.g. "Phantom Warriors".
type GameIP struct {
	BaseModel
	PublisherID uuid.UUID `json:"publisher_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Genre       string    `json:"genre" gorm:"size:100"`
	Description string    `json:"description" gorm:"type:text"`

	// Relationships
	Publisher Publisher `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	Assets    []IPAsset `json:"assets,omitempty" gorm:"foreignKey:GameIPID"`
	Products  []Product `json:"products,omitempty" gorm:"foreignKey:GameIPID"`
}

// IPAsset is a taggable character/theme/logo within a Game IP.
type IPAsset struct {
	BaseModel
	PublisherID uuid.UUID      `json:"publisher_id" gorm:"type:uuid;not null;index"`
	GameIPID    uuid.UUID      `json:"game_ip_id" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"size:255;not null"`
	AssetType   AssetType      `json:"asset_type" gorm:"type:varchar(20);not null;index"`
	Description string         `json:"description" gorm:"type:text"`
	Popularity  int            `json:"popularity" gorm:"default:50"` // 0-100
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`

	// Relationships
	GameIP       GameIP         `json:"game_ip,omitempty" gorm:"foreignKey:GameIPID"`
	ProductLinks []ProductAsset `json:"product_links,omitempty" gorm:"foreignKey:IPAssetID"`
}

// ProductAsset links a product to an IP asset. A product may link to several
// assets; aggregation attributes the full sale revenue to each linked asset
// independently rather than splitting it.
type ProductAsset struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index:idx_product_assets_pair,unique"`
	IPAssetID uuid.UUID `json:"ip_asset_id" gorm:"type:uuid;not null;index:idx_product_assets_pair,unique"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	IPAsset IPAsset `json:"ip_asset,omitempty" gorm:"foreignKey:IPAssetID"`
}
