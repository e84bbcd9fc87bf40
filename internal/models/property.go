package models

import "time"

type Property struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title    string `gorm:"type:varchar(191);not null" json:"title"`
	Location string `gorm:"type:varchar(191);not null" json:"location"`
	Price    string `gorm:"type:varchar(32);not null" json:"price"`
	ImageURL string `gorm:"type:text" json:"image_url,omitempty"`

	// Identity snapshot of the listing agent, captured at creation.
	AgentName  string `gorm:"type:varchar(100);not null" json:"agent_name"`
	AgentEmail string `gorm:"type:varchar(191);not null;index" json:"agent_email"`

	Status PropertyStatus `gorm:"type:varchar(20);not null;default:'listed';index" json:"status"`

	// Markers toggle independently of Status. NULL means absent; clearing
	// a marker sets the column back to NULL rather than to an empty value.
	WishlistedBy *string    `gorm:"type:varchar(191)" json:"wishlisted_by,omitempty"`
	AdvertisedAt *time.Time `json:"advertised_at,omitempty"`

	// Set once when the property is bought. Never cleared.
	TransactionID string `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_properties_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// PropertyStatus advances monotonically: listed -> verified -> bought.
type PropertyStatus string

const (
	PropertyStatusListed   PropertyStatus = "listed"
	PropertyStatusVerified PropertyStatus = "verified"
	PropertyStatusBought   PropertyStatus = "bought"
)

func (Property) TableName() string {
	return "properties"
}

// IsBought reports whether the property reached its terminal status.
func (p *Property) IsBought() bool {
	return p.Status == PropertyStatusBought
}
