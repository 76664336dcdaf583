package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/netcharge/netcharge/internal/clock"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
	"github.com/netcharge/netcharge/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	InvoiceSvc invoicedomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	invoiceSvc invoicedomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		invoiceSvc: p.InvoiceSvc,
	}
}

// generatePaymentNumber builds PAY-<yyyymmdd>-<4-digit-random>. Collisions
// are caught by the unique index on payment_number.
func (s *Service) generatePaymentNumber() string {
	now := s.clock.Now()
	return fmt.Sprintf("PAY-%s-%04d", now.Format("20060102"), rand.IntN(10000))
}

func (s *Service) Create(ctx context.Context, req domain.CreatePaymentRequest) (domain.Payment, error) {
	invoice, err := s.invoiceSvc.GetByID(ctx, req.InvoiceID)
	if err != nil {
		return domain.Payment{}, err
	}
	if invoice.Status == invoicedomain.StatusPaid || invoice.Status == invoicedomain.StatusCancelled {
		return domain.Payment{}, domain.ErrInvoiceNotOpen
	}

	if req.Amount <= 0 {
		return domain.Payment{}, domain.ErrInvalidAmount
	}
	method := req.Method
	if method == "" {
		method = domain.MethodCash
	}
	if !domain.ValidMethod(method) {
		return domain.Payment{}, domain.ErrInvalidMethod
	}

	now := s.clock.Now()
	payment := domain.Payment{
		ID:            s.genID.Generate(),
		PaymentNumber: s.generatePaymentNumber(),
		InvoiceID:     invoice.ID,
		Amount:        req.Amount,
		Method:        method,
		Status:        domain.StatusPending,
		TransactionID: strings.TrimSpace(req.TransactionID),
		Notes:         strings.TrimSpace(req.Notes),
		PaidBy:        strings.TrimSpace(req.PaidBy),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if method == domain.MethodQRIS {
		payment.QRISCode = buildQRISPayload(payment.Amount, payment.PaymentNumber)
	}

	if err := s.repo.Insert(ctx, s.db, &payment); err != nil {
		return domain.Payment{}, err
	}

	s.log.Info("payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("invoice_id", invoice.ID.String()),
		zap.Float64("amount", payment.Amount),
		zap.String("method", string(method)),
	)

	payment.Invoice = &invoice
	return payment, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Payment, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	paymentID, err := s.parseID(id)
	if err != nil {
		return domain.Payment{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return domain.Payment{}, err
	}
	if item == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]domain.Payment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil || id == 0 {
		return nil, invoicedomain.ErrInvalidID
	}
	return s.repo.ListByInvoice(ctx, s.db, id)
}

// Confirm completes a pending payment and credits the invoice in the same
// database transaction, so a crash cannot leave the two out of step.
func (s *Service) Confirm(ctx context.Context, id string) (domain.Payment, error) {
	paymentID, err := s.parseID(id)
	if err != nil {
		return domain.Payment{}, err
	}

	var confirmed domain.Payment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		payment, err := s.repo.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domain.ErrNotFound
		}
		if payment.Status == domain.StatusCompleted {
			return domain.ErrAlreadyCompleted
		}
		if !domain.CanTransition(payment.Status, domain.StatusCompleted) {
			return domain.ErrNotPending
		}

		payment.Status = domain.StatusCompleted
		payment.UpdatedAt = s.clock.Now()
		if err := s.repo.Save(ctx, tx, payment); err != nil {
			return err
		}

		invoice, err := s.invoiceSvc.AddPaidAmount(ctx, tx, payment.InvoiceID, payment.Amount)
		if err != nil {
			return err
		}

		payment.Invoice = &invoice
		confirmed = *payment
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.log.Info("payment confirmed",
		zap.String("payment_id", confirmed.ID.String()),
		zap.String("invoice_id", confirmed.InvoiceID.String()),
		zap.Float64("amount", confirmed.Amount),
	)
	return confirmed, nil
}

func (s *Service) Fail(ctx context.Context, id string, reason string) (domain.Payment, error) {
	paymentID, err := s.parseID(id)
	if err != nil {
		return domain.Payment{}, err
	}

	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	if !domain.CanTransition(payment.Status, domain.StatusFailed) {
		return domain.Payment{}, domain.ErrNotPending
	}

	payment.Status = domain.StatusFailed
	if reason = strings.TrimSpace(reason); reason != "" {
		payment.Notes = reason
	}
	payment.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, s.db, payment); err != nil {
		return domain.Payment{}, err
	}

	s.log.Info("payment failed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("reason", reason),
	)
	return *payment, nil
}

func (s *Service) GenerateQRIS(ctx context.Context, invoiceID string) (domain.Payment, error) {
	invoice, err := s.invoiceSvc.GetByID(ctx, invoiceID)
	if err != nil {
		return domain.Payment{}, err
	}

	remaining := invoice.Amount - invoice.PaidAmount
	if remaining <= 0 {
		return domain.Payment{}, domain.ErrNothingToPay
	}

	return s.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID: invoiceID,
		Amount:    remaining,
		Method:    domain.MethodQRIS,
	})
}

func (s *Service) HandleQRISCallback(ctx context.Context, transactionID, status string) (domain.Payment, error) {
	payment, err := s.repo.FindByTransactionID(ctx, s.db, strings.TrimSpace(transactionID))
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil {
		return domain.Payment{}, domain.ErrNotFound
	}

	switch status {
	case "success":
		return s.Confirm(ctx, payment.ID.String())
	case "failed":
		return s.Fail(ctx, payment.ID.String(), "QRIS payment failed")
	default:
		return domain.Payment{}, domain.ErrUnknownCallback
	}
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	completed, err := s.repo.ListByStatus(ctx, s.db, domain.StatusCompleted)
	if err != nil {
		return domain.Stats{}, err
	}

	stats := domain.Stats{ByMethod: map[domain.Method]domain.MethodStat{}}
	for _, payment := range completed {
		stats.TotalCount++
		stats.TotalAmount += payment.Amount

		entry := stats.ByMethod[payment.Method]
		entry.Count++
		entry.Amount += payment.Amount
		stats.ByMethod[payment.Method] = entry
	}
	return stats, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
