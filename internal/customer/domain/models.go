// Package domain contains persistence models for subscriber management.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status represents customer lifecycle states.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// ValidStatus reports whether s is a known customer status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}
	return false
}

// PackageType is the subscription tier a customer is billed on.
type PackageType string

const (
	PackageBasic    PackageType = "basic"
	PackageStandard PackageType = "standard"
	PackagePremium  PackageType = "premium"
)

// ValidPackageType reports whether p is a known package tier.
func ValidPackageType(p PackageType) bool {
	switch p {
	case PackageBasic, PackageStandard, PackagePremium:
		return true
	}
	return false
}

// Customer represents a WiFi subscriber.
type Customer struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name             string            `gorm:"not null" json:"name"`
	Email            string            `gorm:"not null;uniqueIndex" json:"email"`
	Phone            string            `gorm:"not null;index" json:"phone"`
	Address          string            `json:"address,omitempty"`
	PackageType      PackageType       `gorm:"type:text;not null;default:'basic'" json:"package_type"`
	MonthlyRate      float64           `gorm:"type:decimal(12,2);not null;default:0" json:"monthly_rate"`
	Status           Status            `gorm:"type:text;not null;default:'active';index" json:"status"`
	MACAddress       string            `gorm:"column:mac_address" json:"mac_address,omitempty"`
	IPAddress        string            `gorm:"column:ip_address" json:"ip_address,omitempty"`
	BillingStartDate *time.Time        `gorm:"type:date" json:"billing_start_date,omitempty"`
	BillingDay       int               `gorm:"not null;default:1" json:"billing_day"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }
