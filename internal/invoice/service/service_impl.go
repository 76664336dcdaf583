package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/netcharge/netcharge/internal/clock"
	customerdomain "github.com/netcharge/netcharge/internal/customer/domain"
	"github.com/netcharge/netcharge/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	CustomerSvc customerdomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	customerSvc customerdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		customerSvc: p.CustomerSvc,
	}
}

// generateInvoiceNumber builds INV-<year><month>-<4-digit-random>. Uniqueness
// is only statistically likely; the unique index is the final arbiter.
func (s *Service) generateInvoiceNumber() string {
	now := s.clock.Now()
	return fmt.Sprintf("INV-%d%02d-%04d", now.Year(), int(now.Month()), rand.IntN(10000))
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	customer, err := s.customerSvc.GetByID(ctx, req.CustomerID)
	if err != nil {
		return domain.Invoice{}, err
	}

	if req.Amount < 0 {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}
	if req.BillingPeriodStart.IsZero() || req.BillingPeriodEnd.IsZero() || req.DueDate.IsZero() {
		return domain.Invoice{}, domain.ErrInvalidPeriod
	}
	if req.BillingPeriodEnd.Before(req.BillingPeriodStart) {
		return domain.Invoice{}, domain.ErrInvalidPeriod
	}

	status := req.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !domain.ValidStatus(status) {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	now := s.clock.Now()
	invoice := domain.Invoice{
		ID:                 s.genID.Generate(),
		InvoiceNumber:      s.generateInvoiceNumber(),
		CustomerID:         customer.ID,
		Amount:             req.Amount,
		PaidAmount:         0,
		Status:             status,
		BillingPeriodStart: req.BillingPeriodStart,
		BillingPeriodEnd:   req.BillingPeriodEnd,
		DueDate:            req.DueDate,
		Description:        strings.TrimSpace(req.Description),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, err
	}

	invoice.Customer = &customer
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) ([]domain.Invoice, error) {
	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, s.db, domain.ListFilter{Status: req.Status})
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	invoiceID, err := s.parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Invoice, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(customerID))
	if err != nil || id == 0 {
		return nil, customerdomain.ErrInvalidID
	}
	return s.repo.List(ctx, s.db, domain.ListFilter{CustomerID: id})
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	invoiceID, err := s.parseID(id)
	if err != nil {
		return domain.Invoice{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if existing == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	updates := map[string]any{}
	if req.Amount != nil {
		if *req.Amount < 0 {
			return domain.Invoice{}, domain.ErrInvalidAmount
		}
		updates["amount"] = *req.Amount
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return domain.Invoice{}, domain.ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.BillingPeriodStart != nil {
		updates["billing_period_start"] = *req.BillingPeriodStart
	}
	if req.BillingPeriodEnd != nil {
		updates["billing_period_end"] = *req.BillingPeriodEnd
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if len(updates) == 0 {
		return *existing, nil
	}
	updates["updated_at"] = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, invoiceID, updates); err != nil {
		return domain.Invoice{}, err
	}
	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	invoiceID, err := s.parseID(id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, s.db, invoiceID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) AddPaidAmount(ctx context.Context, tx *gorm.DB, id snowflake.ID, amount float64) (domain.Invoice, error) {
	if tx == nil {
		tx = s.db
	}

	invoice, err := s.repo.FindByID(ctx, tx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	invoice.ApplyPayment(amount)
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, tx, invoice); err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	affected, err := s.repo.MarkOverdue(ctx, s.db, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.log.Info("invoices marked overdue", zap.Int64("count", affected))
	}
	return affected, nil
}

func (s *Service) GenerateMonthly(ctx context.Context) ([]domain.Invoice, error) {
	customers, err := s.customerSvc.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	periodStart, periodEnd, dueDate := monthlyBillingWindow(now)

	invoices := make([]domain.Invoice, 0, len(customers))
	for _, customer := range customers {
		invoice, err := s.Create(ctx, domain.CreateInvoiceRequest{
			CustomerID:         customer.ID.String(),
			Amount:             customer.MonthlyRate,
			BillingPeriodStart: periodStart,
			BillingPeriodEnd:   periodEnd,
			DueDate:            dueDate,
			Description:        fmt.Sprintf("WiFi subscription for %s %d", periodStart.Month(), periodStart.Year()),
		})
		if err != nil {
			// No transactional wrapper across customers: invoices created so
			// far stay created.
			return invoices, err
		}
		invoices = append(invoices, invoice)
	}

	s.log.Info("monthly invoices generated",
		zap.Int("count", len(invoices)),
		zap.String("period_start", periodStart.Format("2006-01-02")),
	)
	return invoices, nil
}

func (s *Service) HasInvoiceForPeriod(ctx context.Context, customerID snowflake.ID, periodStart time.Time) (bool, error) {
	count, err := s.repo.CountForPeriod(ctx, s.db, customerID, periodStart)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) DashboardStats(ctx context.Context) (domain.DashboardStats, error) {
	pending, err := s.repo.SumAmountByStatus(ctx, s.db, domain.StatusPending)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	overdue, err := s.repo.SumAmountByStatus(ctx, s.db, domain.StatusOverdue)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	paidCount, revenue, err := s.repo.PaidWithinWindow(ctx, s.db, monthStart, monthEnd)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	return domain.DashboardStats{
		TotalPending:          pending,
		TotalOverdue:          overdue,
		TotalPaidThisMonth:    paidCount,
		TotalRevenueThisMonth: revenue,
	}, nil
}

// monthlyBillingWindow computes the current calendar month's billing period
// and a due date on the 10th of the following month.
func monthlyBillingWindow(now time.Time) (periodStart, periodEnd, dueDate time.Time) {
	periodStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd = periodStart.AddDate(0, 1, -1)
	dueDate = periodStart.AddDate(0, 1, 9)
	return periodStart, periodEnd, dueDate
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
