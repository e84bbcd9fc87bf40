package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

type Offer struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	// Owning property, captured at submission time. Cascade filters key on
	// this rather than on the denormalized tuple below.
	PropertyID string `gorm:"type:varchar(36);not null;index" json:"property_id"`

	// Denormalized listing fields. Together with the agent and buyer they
	// form the duplicate-submission tuple; the raw tuple is too wide to
	// index under utf8mb4, so uniqueness is enforced on SubmissionKey.
	Location string `gorm:"type:varchar(191);not null" json:"location"`
	Title    string `gorm:"type:varchar(191);not null" json:"title"`
	Price    string `gorm:"type:varchar(32);not null" json:"price"`

	AgentName  string `gorm:"type:varchar(100);not null" json:"agent_name"`
	AgentEmail string `gorm:"type:varchar(191);not null;index" json:"agent_email"`
	BuyerName  string `gorm:"type:varchar(100);not null" json:"buyer_name"`
	BuyerEmail string `gorm:"type:varchar(191);not null;index" json:"buyer_email"`

	// Hash of (location, title, price, agent, buyer), set at creation.
	SubmissionKey string `gorm:"type:varchar(64);not null;uniqueIndex:idx_offer_submission" json:"-"`

	// Amount the buyer is offering, as a decimal string like Price.
	Amount string `gorm:"type:varchar(32);not null" json:"amount"`

	Status OfferStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

func (Offer) TableName() string {
	return "offers"
}

// IsTerminal reports whether the offer can no longer change status.
func (o *Offer) IsTerminal() bool {
	return o.Status == OfferStatusAccepted || o.Status == OfferStatusRejected
}

// OfferSubmissionKey derives the duplicate-submission key from the offer
// tuple. InnoDB caps index keys at 3072 bytes, which the raw utf8mb4
// columns exceed, so the unique index covers this digest instead.
func OfferSubmissionKey(location, title, price, agentEmail, buyerEmail string) string {
	sum := sha256.Sum256([]byte(strings.Join(
		[]string{location, title, price, agentEmail, buyerEmail}, "\x1f")))
	return hex.EncodeToString(sum[:])
}
