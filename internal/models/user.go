package models

import "time"

// Role is the access tier a user record carries. A missing record is
// equivalent to RoleNone.
type Role string

const (
	RoleNone  Role = ""
	RoleAdmin Role = "admin"
	RoleAgent Role = "agent"
	RoleFraud Role = "fraud"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleAdmin, RoleAgent, RoleFraud:
		return true
	}
	return false
}

type User struct {
	ID    string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name  string `gorm:"type:varchar(100);not null" json:"name"`
	Email string `gorm:"type:varchar(191);not null;uniqueIndex" json:"email"`
	Role  Role   `gorm:"type:varchar(20);not null;default:''" json:"role"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
