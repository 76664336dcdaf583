package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	FindByTransactionID(ctx context.Context, db *gorm.DB, transactionID string) (*Payment, error)
	List(ctx context.Context, db *gorm.DB) ([]Payment, error)
	ListByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]Payment, error)
	ListByStatus(ctx context.Context, db *gorm.DB, status Status) ([]Payment, error)

	// Save persists the mutable settlement fields of an existing payment.
	Save(ctx context.Context, db *gorm.DB, payment *Payment) error
}
