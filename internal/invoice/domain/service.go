package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateInvoiceRequest struct {
	CustomerID         string
	Amount             float64
	BillingPeriodStart time.Time
	BillingPeriodEnd   time.Time
	DueDate            time.Time
	Description        string
	Status             Status
}

// UpdateInvoiceRequest carries a partial field merge; nil fields are left untouched.
type UpdateInvoiceRequest struct {
	Amount             *float64
	Status             *Status
	BillingPeriodStart *time.Time
	BillingPeriodEnd   *time.Time
	DueDate            *time.Time
	Description        *string
}

type ListInvoiceRequest struct {
	Status Status
}

// DashboardStats summarizes the collection position of the ledger.
type DashboardStats struct {
	TotalPending          float64 `json:"total_pending"`
	TotalOverdue          float64 `json:"total_overdue"`
	TotalPaidThisMonth    int64   `json:"total_paid_this_month"`
	TotalRevenueThisMonth float64 `json:"total_revenue_this_month"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) ([]Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Invoice, error)
	Update(ctx context.Context, id string, req UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id string) error

	// AddPaidAmount increments the invoice paid amount on the given handle,
	// flipping the status to paid when fully covered. Callers composing a
	// larger transaction pass their own tx.
	AddPaidAmount(ctx context.Context, tx *gorm.DB, id snowflake.ID, amount float64) (Invoice, error)

	// MarkOverdue transitions every pending invoice past its due date to
	// overdue and returns the number of rows affected.
	MarkOverdue(ctx context.Context) (int64, error)

	// GenerateMonthly creates one invoice per active customer for the current
	// calendar month. Running it twice in the same month creates duplicates;
	// callers that need idempotence must guard with HasInvoiceForPeriod.
	GenerateMonthly(ctx context.Context) ([]Invoice, error)

	HasInvoiceForPeriod(ctx context.Context, customerID snowflake.ID, periodStart time.Time) (bool, error)

	DashboardStats(ctx context.Context) (DashboardStats, error)
}

var (
	ErrNotFound      = errors.New("invoice_not_found")
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrInvalidPeriod = errors.New("invalid_period")
	ErrInvalidStatus = errors.New("invalid_status")
)
