// Package domain contains the operator accounts behind the dashboard login.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role controls access to the destructive billing endpoints.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// ValidRole reports whether r is a known user role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleOperator
}

// User is a dashboard account.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string       `gorm:"column:password_hash;not null" json:"-"`
	Name         string       `gorm:"not null" json:"name"`
	Role         Role         `gorm:"type:text;not null;default:'operator'" json:"role"`
	IsActive     bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
