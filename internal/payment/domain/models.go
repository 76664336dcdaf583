// Package domain contains persistence models for payment recording.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
)

// Method is how a payment is settled.
type Method string

const (
	MethodCash         Method = "cash"
	MethodBankTransfer Method = "bank_transfer"
	MethodQRIS         Method = "qris"
)

// ValidMethod reports whether m is a known payment method.
func ValidMethod(m Method) bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodQRIS:
		return true
	}
	return false
}

// Status represents payment lifecycle states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// ValidStatus reports whether s is a known payment status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

// CanTransition reports whether a payment may move from one status to
// another. Only pending payments move; terminal states stay terminal.
func CanTransition(from, to Status) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusCompleted || to == StatusFailed
}

// Payment is one settlement attempt against an invoice.
type Payment struct {
	ID            snowflake.ID           `gorm:"primaryKey" json:"id"`
	PaymentNumber string                 `gorm:"not null;uniqueIndex" json:"payment_number"`
	InvoiceID     snowflake.ID           `gorm:"not null;index" json:"invoice_id"`
	Invoice       *invoicedomain.Invoice `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Amount        float64                `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method        Method                 `gorm:"type:text;not null;default:'cash'" json:"method"`
	Status        Status                 `gorm:"type:text;not null;default:'pending';index" json:"status"`
	TransactionID string                 `gorm:"column:transaction_id;index" json:"transaction_id,omitempty"`
	QRISCode      string                 `gorm:"column:qris_code" json:"qris_code,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	PaidBy        string                 `gorm:"column:paid_by" json:"paid_by,omitempty"`
	CreatedAt     time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }
