package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/netcharge/netcharge/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Create(invoice).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Preload("Customer").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	stmt := db.WithContext(ctx).Model(&domain.Invoice{}).Preload("Customer")
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	err := stmt.Order("created_at desc, id desc").Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id snowflake.ID, updates map[string]any) error {
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"paid_amount": invoice.PaidAmount,
			"status":      invoice.Status,
			"updated_at":  invoice.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error) {
	result := db.WithContext(ctx).Delete(&domain.Invoice{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *repo) MarkOverdue(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("status = ? AND due_date < ?", domain.StatusPending, now).
		Updates(map[string]any{
			"status":     domain.StatusOverdue,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *repo) CountForPeriod(ctx context.Context, db *gorm.DB, customerID snowflake.ID, periodStart time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("customer_id = ? AND billing_period_start = ?", customerID, periodStart).
		Count(&count).Error
	return count, err
}

func (r *repo) SumAmountByStatus(ctx context.Context, db *gorm.DB, status domain.Status) (float64, error) {
	var total *float64
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("status = ?", status).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *repo) PaidWithinWindow(ctx context.Context, db *gorm.DB, from, to time.Time) (int64, float64, error) {
	var row struct {
		Count   int64
		Revenue *float64
	}
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("status = ? AND updated_at >= ? AND updated_at <= ?", domain.StatusPaid, from, to).
		Select("COUNT(*) AS count, SUM(paid_amount) AS revenue").
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	revenue := 0.0
	if row.Revenue != nil {
		revenue = *row.Revenue
	}
	return row.Count, revenue, nil
}
