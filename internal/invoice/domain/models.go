// Package domain contains persistence models for the invoice ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/netcharge/netcharge/internal/customer/domain"
)

// Status represents invoice lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is a known invoice status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Invoice is a billing demand for one customer covering one billing period.
type Invoice struct {
	ID                 snowflake.ID             `gorm:"primaryKey" json:"id"`
	InvoiceNumber      string                   `gorm:"not null;uniqueIndex" json:"invoice_number"`
	CustomerID         snowflake.ID             `gorm:"not null;index" json:"customer_id"`
	Customer           *customerdomain.Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Amount             float64                  `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaidAmount         float64                  `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	Status             Status                   `gorm:"type:text;not null;default:'pending';index" json:"status"`
	BillingPeriodStart time.Time                `gorm:"type:date;not null" json:"billing_period_start"`
	BillingPeriodEnd   time.Time                `gorm:"type:date;not null" json:"billing_period_end"`
	DueDate            time.Time                `gorm:"type:date;not null;index" json:"due_date"`
	Description        string                   `json:"description,omitempty"`
	CreatedAt          time.Time                `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time                `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// ApplyPayment increments the paid amount and flips the status to paid once
// the invoice is fully covered. This is the sole path to the paid state.
func (i *Invoice) ApplyPayment(amount float64) {
	i.PaidAmount += amount
	if i.PaidAmount >= i.Amount {
		i.Status = StatusPaid
	}
}
