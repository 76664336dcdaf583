package domain

import (
	"context"
	"errors"
)

type CreatePaymentRequest struct {
	InvoiceID     string
	Amount        float64
	Method        Method
	TransactionID string
	Notes         string
	PaidBy        string
}

// MethodStat is the per-method slice of the payment statistics.
type MethodStat struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

// Stats summarizes completed payments, total and per method.
type Stats struct {
	TotalCount  int64                 `json:"total_count"`
	TotalAmount float64               `json:"total_amount"`
	ByMethod    map[Method]MethodStat `json:"by_method"`
}

type Service interface {
	// Create records a pending settlement attempt against an invoice. Paid
	// and cancelled invoices reject further payments.
	Create(context.Context, CreatePaymentRequest) (Payment, error)

	List(ctx context.Context) ([]Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]Payment, error)

	// Confirm completes a pending payment and credits its amount onto the
	// invoice. Both writes happen in one database transaction.
	Confirm(ctx context.Context, id string) (Payment, error)

	// Fail marks a pending payment failed, optionally recording a reason.
	Fail(ctx context.Context, id string, reason string) (Payment, error)

	// GenerateQRIS creates a qris payment for the invoice's outstanding
	// balance and returns it with the generated code attached.
	GenerateQRIS(ctx context.Context, invoiceID string) (Payment, error)

	// HandleQRISCallback resolves a payment by transaction id and settles it
	// according to the provider-reported status ("success" or "failed").
	HandleQRISCallback(ctx context.Context, transactionID, status string) (Payment, error)

	Stats(ctx context.Context) (Stats, error)
}

var (
	ErrNotFound         = errors.New("payment_not_found")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidMethod    = errors.New("invalid_method")
	ErrInvoiceNotOpen   = errors.New("invoice_not_open")
	ErrAlreadyCompleted = errors.New("payment_already_completed")
	ErrNotPending       = errors.New("payment_not_pending")
	ErrNothingToPay     = errors.New("invoice_fully_paid")
	ErrUnknownCallback  = errors.New("unknown_callback_status")
)
