package model

import (
	"time"
)

// User is an account allowed to call the catalog API.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string    `gorm:"not null" json:"name"`
	Role         string    `gorm:"type:varchar(20);default:'editor'" json:"role"` // editor, admin
	TokenVersion int       `gorm:"default:0" json:"-"`                            // Increment to invalidate all user tokens

	// Relationships
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

const (
	RoleEditor = "editor"
	RoleAdmin  = "admin"
)

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
