// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierStarter    SubscriptionTier = "starter"
	TierGrowth     SubscriptionTier = "growth"
	TierEnterprise SubscriptionTier = "enterprise"
)

type UserRole string

const (
	RoleOwner   UserRole = "owner"
	RoleAdmin   UserRole = "admin"
	RoleMember  UserRole = "member"
	RoleAnalyst UserRole = "analyst"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInvited  UserStatus = "invited"
	UserStatusDisabled UserStatus = "disabled"
)

type ConnectorType string

const (
	ConnectorTypeShopify ConnectorType = "shopify"
	ConnectorTypeCSV     ConnectorType = "csv"
)

type ConnectorStatus string

const (
	ConnectorStatusPending      ConnectorStatus = "pending"
	ConnectorStatusActive       ConnectorStatus = "active"
	ConnectorStatusError        ConnectorStatus = "error"
	ConnectorStatusDisconnected ConnectorStatus = "disconnected"
)

type ProductCategory string

const (
	CategoryApparel      ProductCategory = "apparel"
	CategoryCollectibles ProductCategory = "collectibles"
	CategoryAccessories  ProductCategory = "accessories"
	CategoryHome         ProductCategory = "home"
	CategoryMedia        ProductCategory = "media"
	CategoryOther        ProductCategory = "other"
)

func (p ProductCategory) Valid() bool {
	switch p {
	case CategoryApparel, CategoryCollectibles, CategoryAccessories,
		CategoryHome, CategoryMedia, CategoryOther:
		return true
	}
	return false
}

type MappingStatus string

const (
	MappingStatusUnmapped  MappingStatus = "unmapped"
	MappingStatusSuggested MappingStatus = "suggested"
	MappingStatusConfirmed MappingStatus = "confirmed"
	MappingStatusSkipped   MappingStatus = "skipped"
)

type AssetType string

const (
	AssetTypeCharacter AssetType = "character"
	AssetTypeTheme     AssetType = "theme"
	AssetTypeLogo      AssetType = "logo"
	AssetTypeWorld     AssetType = "world"
	AssetTypeItem      AssetType = "item"
)

type SnapshotPeriod string

const (
	PeriodDaily   SnapshotPeriod = "daily"
	PeriodWeekly  SnapshotPeriod = "weekly"
	PeriodMonthly SnapshotPeriod = "monthly"
)

func (p SnapshotPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

type InsightType string

const (
	InsightTypeOpportunity    InsightType = "opportunity"
	InsightTypeWarning        InsightType = "warning"
	InsightTypeTrend          InsightType = "trend"
	InsightTypeRecommendation InsightType = "recommendation"
)
