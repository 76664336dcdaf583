package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/netcharge/netcharge/internal/analytics/domain"
	"github.com/netcharge/netcharge/internal/clock"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
	paymentdomain "github.com/netcharge/netcharge/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultTopCustomers = 5
	defaultActivities   = 10
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("analytics.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// periodWindow maps a reporting period onto a lookback start and a bucket
// layout. Unknown periods fall back to the 30-day window.
func (s *Service) periodWindow(period string) (start time.Time, bucket string, normalized string) {
	now := s.clock.Now()
	switch period {
	case domain.PeriodWeek:
		return now.AddDate(0, 0, -7), "2006-01-02", domain.PeriodWeek
	case domain.PeriodYear:
		return now.AddDate(0, 0, -365), "2006-01", domain.PeriodYear
	default:
		return now.AddDate(0, 0, -30), "2006-01-02", domain.PeriodMonth
	}
}

func (s *Service) RevenueStats(ctx context.Context, period string) (domain.RevenueStats, error) {
	start, bucket, normalized := s.periodWindow(period)

	rows, err := s.repo.CompletedPaymentsSince(ctx, s.db, start)
	if err != nil {
		return domain.RevenueStats{}, err
	}

	stats := domain.RevenueStats{
		Period: normalized,
		Data:   []domain.RevenuePoint{},
	}
	for _, row := range rows {
		key := row.CreatedAt.UTC().Format(bucket)
		if n := len(stats.Data); n == 0 || stats.Data[n-1].Date != key {
			stats.Data = append(stats.Data, domain.RevenuePoint{Date: key})
		}
		stats.Data[len(stats.Data)-1].Revenue += row.Amount
		stats.Total += row.Amount
	}
	return stats, nil
}

func (s *Service) CustomerGrowth(ctx context.Context, period string) (domain.CustomerGrowth, error) {
	start, bucket, normalized := s.periodWindow(period)

	creations, err := s.repo.CustomerCreationsSince(ctx, s.db, start)
	if err != nil {
		return domain.CustomerGrowth{}, err
	}

	growth := domain.CustomerGrowth{
		Period: normalized,
		Data:   []domain.GrowthPoint{},
	}
	var cumulative int64
	for _, created := range creations {
		key := created.UTC().Format(bucket)
		if n := len(growth.Data); n == 0 || growth.Data[n-1].Date != key {
			growth.Data = append(growth.Data, domain.GrowthPoint{Date: key})
		}
		cumulative++
		point := &growth.Data[len(growth.Data)-1]
		point.New++
		point.Total = cumulative
		growth.TotalNew++
	}
	return growth, nil
}

func (s *Service) PaymentStats(ctx context.Context) (domain.PaymentStats, error) {
	total, err := s.repo.CountPaymentsByStatus(ctx, s.db, paymentdomain.StatusCompleted, nil)
	if err != nil {
		return domain.PaymentStats{}, err
	}

	since := s.clock.Now().AddDate(0, 0, -30)
	recent, err := s.repo.CountPaymentsByStatus(ctx, s.db, paymentdomain.StatusCompleted, &since)
	if err != nil {
		return domain.PaymentStats{}, err
	}

	byMethod, err := s.repo.MethodBreakdown(ctx, s.db, paymentdomain.StatusCompleted)
	if err != nil {
		return domain.PaymentStats{}, err
	}
	if byMethod == nil {
		byMethod = []domain.MethodBreakdown{}
	}

	return domain.PaymentStats{
		Total:    total,
		Recent:   recent,
		ByMethod: byMethod,
	}, nil
}

func (s *Service) DashboardSummary(ctx context.Context) (domain.DashboardSummary, error) {
	totalCustomers, err := s.repo.CountCustomers(ctx, s.db, "")
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	activeCustomers, err := s.repo.CountCustomers(ctx, s.db, "active")
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	totalInvoices, err := s.repo.CountInvoices(ctx, s.db, "")
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	paidInvoices, err := s.repo.CountInvoices(ctx, s.db, invoicedomain.StatusPaid)
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	totalRevenue, err := s.repo.SumPayments(ctx, s.db, nil, nil)
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthRevenue, err := s.repo.SumPayments(ctx, s.db, &monthStart, nil)
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	return domain.DashboardSummary{
		Customers: domain.CustomerTotals{
			Total:    totalCustomers,
			Active:   activeCustomers,
			Inactive: totalCustomers - activeCustomers,
		},
		Invoices: domain.InvoiceTotals{
			Total:   totalInvoices,
			Paid:    paidInvoices,
			Pending: totalInvoices - paidInvoices,
		},
		Revenue: domain.RevenueTotals{
			Total:     totalRevenue,
			ThisMonth: monthRevenue,
		},
	}, nil
}

func (s *Service) TopCustomers(ctx context.Context, limit int) ([]domain.TopCustomer, error) {
	if limit <= 0 {
		limit = defaultTopCustomers
	}
	rows, err := s.repo.TopCustomersByPaidInvoices(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.TopCustomer{}
	}
	return rows, nil
}

func (s *Service) RecentActivities(ctx context.Context, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = defaultActivities
	}

	payments, err := s.repo.RecentPayments(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}

	weekAgo := s.clock.Now().AddDate(0, 0, -7)
	invoices, err := s.repo.RecentInvoicesSince(ctx, s.db, weekAgo, limit)
	if err != nil {
		return nil, err
	}

	activities := make([]domain.Activity, 0, len(payments)+len(invoices))
	for _, p := range payments {
		name := "Unknown"
		if p.Invoice != nil && p.Invoice.Customer != nil {
			name = p.Invoice.Customer.Name
		}
		activities = append(activities, domain.Activity{
			ID:           p.ID,
			Type:         "payment",
			Title:        fmt.Sprintf("Payment received from %s", name),
			Amount:       p.Amount,
			Date:         p.CreatedAt,
			Status:       string(p.Status),
			CustomerName: name,
		})
	}
	for _, inv := range invoices {
		name := "Unknown"
		if inv.Customer != nil {
			name = inv.Customer.Name
		}
		activities = append(activities, domain.Activity{
			ID:           inv.ID,
			Type:         "invoice",
			Title:        fmt.Sprintf("Invoice %s created for %s", inv.InvoiceNumber, name),
			Amount:       inv.Amount,
			Date:         inv.CreatedAt,
			Status:       string(inv.Status),
			CustomerName: name,
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Date.After(activities[j].Date)
	})
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

func (s *Service) StatusDistribution(ctx context.Context) (domain.StatusDistribution, error) {
	customers, err := s.repo.CustomerStatusCounts(ctx, s.db)
	if err != nil {
		return domain.StatusDistribution{}, err
	}
	invoices, err := s.repo.InvoiceStatusAggregates(ctx, s.db)
	if err != nil {
		return domain.StatusDistribution{}, err
	}
	if customers == nil {
		customers = []domain.StatusCount{}
	}
	if invoices == nil {
		invoices = []domain.StatusAggregate{}
	}
	return domain.StatusDistribution{Customers: customers, Invoices: invoices}, nil
}

func (s *Service) TrendComparison(ctx context.Context) (domain.TrendComparison, error) {
	now := s.clock.Now()
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	sixtyDaysAgo := now.AddDate(0, 0, -60)

	currentCustomers, err := s.repo.CountCustomersBetween(ctx, s.db, thirtyDaysAgo, nil)
	if err != nil {
		return domain.TrendComparison{}, err
	}
	previousCustomers, err := s.repo.CountCustomersBetween(ctx, s.db, sixtyDaysAgo, &thirtyDaysAgo)
	if err != nil {
		return domain.TrendComparison{}, err
	}

	currentInvoices, err := s.repo.CountInvoicesBetween(ctx, s.db, thirtyDaysAgo, nil)
	if err != nil {
		return domain.TrendComparison{}, err
	}
	previousInvoices, err := s.repo.CountInvoicesBetween(ctx, s.db, sixtyDaysAgo, &thirtyDaysAgo)
	if err != nil {
		return domain.TrendComparison{}, err
	}

	currentRevenue, err := s.repo.SumPayments(ctx, s.db, &thirtyDaysAgo, nil)
	if err != nil {
		return domain.TrendComparison{}, err
	}
	previousRevenue, err := s.repo.SumPayments(ctx, s.db, &sixtyDaysAgo, &thirtyDaysAgo)
	if err != nil {
		return domain.TrendComparison{}, err
	}

	thisMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonthStart := thisMonthStart.AddDate(0, -1, 0)
	thisMonthRevenue, err := s.repo.SumPayments(ctx, s.db, &thisMonthStart, nil)
	if err != nil {
		return domain.TrendComparison{}, err
	}
	lastMonthRevenue, err := s.repo.SumPayments(ctx, s.db, &lastMonthStart, &thisMonthStart)
	if err != nil {
		return domain.TrendComparison{}, err
	}

	return domain.TrendComparison{
		Customers: percentChange(float64(currentCustomers), float64(previousCustomers)),
		Invoices:  percentChange(float64(currentInvoices), float64(previousInvoices)),
		Revenue:   percentChange(currentRevenue, previousRevenue),
		ThisMonth: percentChange(thisMonthRevenue, lastMonthRevenue),
	}, nil
}

// percentChange rounds the relative delta to a whole percentage. A zero
// previous value maps to 100 when anything is current, otherwise 0.
func percentChange(current, previous float64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}
