package models

import "time"

type Review struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID  string `gorm:"type:varchar(36);index" json:"property_id,omitempty"`
	Content     string `gorm:"type:text;not null" json:"content"`
	AuthorName  string `gorm:"type:varchar(100);not null" json:"author_name"`
	AuthorEmail string `gorm:"type:varchar(191);not null;index" json:"author_email"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
