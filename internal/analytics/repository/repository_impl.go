package repository

import (
	"context"
	"time"

	"github.com/netcharge/netcharge/internal/analytics/domain"
	customerdomain "github.com/netcharge/netcharge/internal/customer/domain"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
	paymentdomain "github.com/netcharge/netcharge/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CompletedPaymentsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]domain.TimedAmount, error) {
	var rows []domain.TimedAmount
	err := db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Where("status = ? AND created_at >= ?", paymentdomain.StatusCompleted, since).
		Order("created_at asc").
		Select("created_at, amount").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) CustomerCreationsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]time.Time, error) {
	var rows []time.Time
	err := db.WithContext(ctx).
		Model(&customerdomain.Customer{}).
		Where("created_at >= ?", since).
		Order("created_at asc").
		Pluck("created_at", &rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) CountPaymentsByStatus(ctx context.Context, db *gorm.DB, status paymentdomain.Status, since *time.Time) (int64, error) {
	stmt := db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Where("status = ?", status)
	if since != nil {
		stmt = stmt.Where("created_at >= ?", *since)
	}
	var count int64
	err := stmt.Count(&count).Error
	return count, err
}

func (r *repo) MethodBreakdown(ctx context.Context, db *gorm.DB, status paymentdomain.Status) ([]domain.MethodBreakdown, error) {
	var rows []domain.MethodBreakdown
	err := db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Where("status = ?", status).
		Select("method, COUNT(*) AS count, SUM(amount) AS total").
		Group("method").
		Order("method asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) CountCustomers(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	stmt := db.WithContext(ctx).Model(&customerdomain.Customer{})
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	var count int64
	err := stmt.Count(&count).Error
	return count, err
}

func (r *repo) CountCustomersBetween(ctx context.Context, db *gorm.DB, from time.Time, to *time.Time) (int64, error) {
	stmt := db.WithContext(ctx).
		Model(&customerdomain.Customer{}).
		Where("created_at >= ?", from)
	if to != nil {
		stmt = stmt.Where("created_at < ?", *to)
	}
	var count int64
	err := stmt.Count(&count).Error
	return count, err
}

func (r *repo) CountInvoices(ctx context.Context, db *gorm.DB, status invoicedomain.Status) (int64, error) {
	stmt := db.WithContext(ctx).Model(&invoicedomain.Invoice{})
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	var count int64
	err := stmt.Count(&count).Error
	return count, err
}

func (r *repo) CountInvoicesBetween(ctx context.Context, db *gorm.DB, from time.Time, to *time.Time) (int64, error) {
	stmt := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("created_at >= ?", from)
	if to != nil {
		stmt = stmt.Where("created_at < ?", *to)
	}
	var count int64
	err := stmt.Count(&count).Error
	return count, err
}

func (r *repo) SumPayments(ctx context.Context, db *gorm.DB, from, to *time.Time) (float64, error) {
	stmt := db.WithContext(ctx).Model(&paymentdomain.Payment{})
	if from != nil {
		stmt = stmt.Where("created_at >= ?", *from)
	}
	if to != nil {
		stmt = stmt.Where("created_at < ?", *to)
	}
	var total *float64
	if err := stmt.Select("SUM(amount)").Scan(&total).Error; err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *repo) TopCustomersByPaidInvoices(ctx context.Context, db *gorm.DB, limit int) ([]domain.TopCustomer, error) {
	var rows []domain.TopCustomer
	err := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select("invoices.customer_id AS customer_id, customers.name AS customer_name, customers.email AS customer_email, SUM(invoices.amount) AS total_revenue, COUNT(invoices.id) AS invoice_count").
		Joins("INNER JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.status = ?", invoicedomain.StatusPaid).
		Group("invoices.customer_id, customers.name, customers.email").
		Order("total_revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) RecentPayments(ctx context.Context, db *gorm.DB, limit int) ([]paymentdomain.Payment, error) {
	var payments []paymentdomain.Payment
	err := db.WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Preload("Invoice").
		Preload("Invoice.Customer").
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) RecentInvoicesSince(ctx context.Context, db *gorm.DB, since time.Time, limit int) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Preload("Customer").
		Where("created_at >= ?", since).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) CustomerStatusCounts(ctx context.Context, db *gorm.DB) ([]domain.StatusCount, error) {
	var rows []domain.StatusCount
	err := db.WithContext(ctx).
		Model(&customerdomain.Customer{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) InvoiceStatusAggregates(ctx context.Context, db *gorm.DB) ([]domain.StatusAggregate, error) {
	var rows []domain.StatusAggregate
	err := db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select("status, COUNT(*) AS count, SUM(amount) AS total").
		Group("status").
		Order("status asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
