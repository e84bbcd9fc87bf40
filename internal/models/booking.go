package models

import "time"

// Booking is written once per confirmed payment. Append-only.
type Booking struct {
	ID            string `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID    string `gorm:"type:varchar(36);index" json:"property_id,omitempty"`
	Title         string `gorm:"type:varchar(191);not null" json:"title"`
	Price         string `gorm:"type:varchar(32);not null" json:"price"`
	BuyerName     string `gorm:"type:varchar(100);not null" json:"buyer_name"`
	BuyerEmail    string `gorm:"type:varchar(191);not null;index" json:"buyer_email"`
	TransactionID string `gorm:"type:varchar(100);not null" json:"transaction_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Booking) TableName() string {
	return "bookings"
}
