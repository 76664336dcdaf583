package domain

import (
	"context"
	"time"

	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
	paymentdomain "github.com/netcharge/netcharge/internal/payment/domain"
	"gorm.io/gorm"
)

// TimedAmount is one raw row feeding the time-bucketed series.
type TimedAmount struct {
	CreatedAt time.Time
	Amount    float64
}

// Repository exposes the read-only aggregates the reporting layer is built
// from. Bucketing by day or month happens in the service so the queries stay
// portable across dialects.
type Repository interface {
	CompletedPaymentsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]TimedAmount, error)
	CustomerCreationsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]time.Time, error)

	CountPaymentsByStatus(ctx context.Context, db *gorm.DB, status paymentdomain.Status, since *time.Time) (int64, error)
	MethodBreakdown(ctx context.Context, db *gorm.DB, status paymentdomain.Status) ([]MethodBreakdown, error)

	CountCustomers(ctx context.Context, db *gorm.DB, status string) (int64, error)
	CountCustomersBetween(ctx context.Context, db *gorm.DB, from time.Time, to *time.Time) (int64, error)
	CountInvoices(ctx context.Context, db *gorm.DB, status invoicedomain.Status) (int64, error)
	CountInvoicesBetween(ctx context.Context, db *gorm.DB, from time.Time, to *time.Time) (int64, error)

	// SumPayments totals payment amounts across all statuses within the
	// optional window bounds.
	SumPayments(ctx context.Context, db *gorm.DB, from, to *time.Time) (float64, error)

	TopCustomersByPaidInvoices(ctx context.Context, db *gorm.DB, limit int) ([]TopCustomer, error)

	RecentPayments(ctx context.Context, db *gorm.DB, limit int) ([]paymentdomain.Payment, error)
	RecentInvoicesSince(ctx context.Context, db *gorm.DB, since time.Time, limit int) ([]invoicedomain.Invoice, error)

	CustomerStatusCounts(ctx context.Context, db *gorm.DB) ([]StatusCount, error)
	InvoiceStatusAggregates(ctx context.Context, db *gorm.DB) ([]StatusAggregate, error)
}
