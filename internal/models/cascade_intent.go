package models

import "time"

// CascadeIntent is a durable record of a multi-document cascade in flight.
// It is written before the first dependent write and marked done after the
// last one, so a crash between the two leaves a pending intent the
// reconciler can re-apply. Both cascade steps are idempotent.
type CascadeIntent struct {
	ID           uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind         CascadeKind         `gorm:"type:varchar(32);not null;index" json:"kind"`
	SubjectEmail string              `gorm:"type:varchar(191);not null;index" json:"subject_email"`
	Status       CascadeIntentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type CascadeKind string

const (
	CascadeKindFraudDemotion CascadeKind = "fraud_demotion"
)

type CascadeIntentStatus string

const (
	CascadeIntentPending CascadeIntentStatus = "pending"
	CascadeIntentDone    CascadeIntentStatus = "done"
)

func (CascadeIntent) TableName() string {
	return "cascade_intents"
}
