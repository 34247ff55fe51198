package users

import (
	"time"
)

const (
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `json:"name"`
	Lastname string  `json:"lastname"`
	Email    string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password *string `gorm:"" json:"-"`

	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`

	Role string `gorm:"not null;default:'librarian'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
