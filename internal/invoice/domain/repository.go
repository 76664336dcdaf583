package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Status     Status
	CustomerID snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Invoice, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, updates map[string]any) error
	Save(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)

	// MarkOverdue bulk-updates pending invoices whose due date is before now.
	MarkOverdue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error)

	CountForPeriod(ctx context.Context, db *gorm.DB, customerID snowflake.ID, periodStart time.Time) (int64, error)

	SumAmountByStatus(ctx context.Context, db *gorm.DB, status Status) (float64, error)
	PaidWithinWindow(ctx context.Context, db *gorm.DB, from, to time.Time) (count int64, revenue float64, err error)
}
