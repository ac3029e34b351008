// internal/models/publisher.go
package models

// Publisher is the tenant root. Every tenant-scoped row hangs off its ID.
type Publisher struct {
	BaseModel
	Name             string           `json:"name" gorm:"size:255;not null"`
	Slug             string           `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier" gorm:"type:varchar(20);default:'free'"`
	StripeCustomerID string           `json:"-" gorm:"size:255"`
	Settings         JSONB            `json:"settings" gorm:"type:jsonb"`

	// Relationships
	Users      []User      `json:"users,omitempty" gorm:"foreignKey:PublisherID"`
	Connectors []Connector `json:"connectors,omitempty" gorm:"foreignKey:PublisherID"`
	GameIPs    []GameIP    `json:"game_ips,omitempty" gorm:"foreignKey:PublisherID"`
	Products   []Product   `json:"products,omitempty" gorm:"foreignKey:PublisherID"`
}
