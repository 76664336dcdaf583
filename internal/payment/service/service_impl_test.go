package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/netcharge/netcharge/internal/clock"
	customerdomain "github.com/netcharge/netcharge/internal/customer/domain"
	customerrepo "github.com/netcharge/netcharge/internal/customer/repository"
	customerservice "github.com/netcharge/netcharge/internal/customer/service"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
	invoicerepo "github.com/netcharge/netcharge/internal/invoice/repository"
	invoiceservice "github.com/netcharge/netcharge/internal/invoice/service"
	"github.com/netcharge/netcharge/internal/payment/domain"
	"github.com/netcharge/netcharge/internal/payment/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc        domain.Service
	invoiceSvc invoicedomain.Service
	db         *gorm.DB
	clock      *clock.FakeClock
	customer   customerdomain.Customer
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&customerdomain.Customer{},
		&invoicedomain.Invoice{},
		&domain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC))

	customerSvc := customerservice.New(customerservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  customerrepo.Provide(),
	})
	invoiceSvc := invoiceservice.New(invoiceservice.Params{
		DB:          conn,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       fake,
		Repo:        invoicerepo.Provide(),
		CustomerSvc: customerSvc,
	})
	paymentSvc := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      fake,
		Repo:       repository.Provide(),
		InvoiceSvc: invoiceSvc,
	})

	customer, err := customerSvc.Create(context.Background(), customerdomain.CreateCustomerRequest{
		Name:        "Payer",
		Email:       "payer@example.com",
		Phone:       "0812999999",
		MonthlyRate: 100000,
	})
	require.NoError(t, err)

	return &fixture{
		svc:        paymentSvc,
		invoiceSvc: invoiceSvc,
		db:         conn,
		clock:      fake,
		customer:   customer,
	}
}

func (f *fixture) createInvoice(t *testing.T, amount float64) invoicedomain.Invoice {
	t.Helper()
	invoice, err := f.invoiceSvc.Create(context.Background(), invoicedomain.CreateInvoiceRequest{
		CustomerID:         f.customer.ID.String(),
		Amount:             amount,
		BillingPeriodStart: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		BillingPeriodEnd:   time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
		DueDate:            time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return invoice
}

func TestCreatePaymentDefaults(t *testing.T) {
	f := setupFixture(t)
	invoice := f.createInvoice(t, 100000)

	payment, err := f.svc.Create(context.Background(), domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    100000,
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^PAY-20250315-\d{4}$`), payment.PaymentNumber)
	assert.Equal(t, domain.MethodCash, payment.Method)
	assert.Equal(t, domain.StatusPending, payment.Status)
	assert.Empty(t, payment.QRISCode)
}

func TestCreatePaymentQRISPayload(t *testing.T) {
	f := setupFixture(t)
	invoice := f.createInvoice(t, 150000)

	payment, err := f.svc.Create(context.Background(), domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    150000.50,
		Method:    domain.MethodQRIS,
	})
	require.NoError(t, err)

	expected := "00020101021226" + "1234567890123456" + "15000050" + payment.PaymentNumber
	assert.Equal(t, expected, payment.QRISCode)
}

func TestConfirmPaymentSettlesInvoice(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	invoice := f.createInvoice(t, 100000)

	payment, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    100000,
		Method:    domain.MethodCash,
	})
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, payment.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, confirmed.Status)

	settled, err := f.invoiceSvc.GetByID(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 100000.0, settled.PaidAmount)
	assert.Equal(t, invoicedomain.StatusPaid, settled.Status)
}

func TestConfirmPaymentTwiceRejected(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	invoice := f.createInvoice(t, 100000)

	payment, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    100000,
	})
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, payment.ID.String())
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, payment.ID.String())
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
}

func TestCreatePaymentAgainstPaidInvoiceRejected(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	invoice := f.createInvoice(t, 100000)

	payment, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    100000,
	})
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, payment.ID.String())
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    50000,
	})
	assert.ErrorIs(t, err, domain.ErrInvoiceNotOpen)
}

func TestFailPaymentTransitions(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	invoice := f.createInvoice(t, 100000)

	payment, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    100000,
	})
	require.NoError(t, err)

	failed, err := f.svc.Fail(ctx, payment.ID.String(), "insufficient funds")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, failed.Status)
	assert.Equal(t, "insufficient funds", failed.Notes)

	// Terminal states stay terminal in both directions.
	_, err = f.svc.Fail(ctx, payment.ID.String(), "again")
	assert.ErrorIs(t, err, domain.ErrNotPending)

	_, err = f.svc.Confirm(ctx, payment.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestGenerateQRISForRemainingBalance(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	invoice := f.createInvoice(t, 100000)

	partial, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    30000,
	})
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, partial.ID.String())
	require.NoError(t, err)

	qris, err := f.svc.GenerateQRIS(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 70000.0, qris.Amount)
	assert.Equal(t, domain.MethodQRIS, qris.Method)
	assert.NotEmpty(t, qris.QRISCode)
}

func TestGenerateQRISFullyPaidRejected(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	invoice := f.createInvoice(t, 100000)

	payment, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    100000,
	})
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, payment.ID.String())
	require.NoError(t, err)

	_, err = f.svc.GenerateQRIS(ctx, invoice.ID.String())
	assert.ErrorIs(t, err, domain.ErrNothingToPay)
}

func TestHandleQRISCallback(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	t.Run("success settles payment", func(t *testing.T) {
		invoice := f.createInvoice(t, 50000)
		payment, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
			InvoiceID:     invoice.ID.String(),
			Amount:        50000,
			Method:        domain.MethodQRIS,
			TransactionID: "trx-success",
		})
		require.NoError(t, err)

		settled, err := f.svc.HandleQRISCallback(ctx, "trx-success", "success")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, settled.Status)
		assert.Equal(t, payment.ID, settled.ID)
	})

	t.Run("failed marks payment failed", func(t *testing.T) {
		invoice := f.createInvoice(t, 50000)
		_, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
			InvoiceID:     invoice.ID.String(),
			Amount:        50000,
			Method:        domain.MethodQRIS,
			TransactionID: "trx-failed",
		})
		require.NoError(t, err)

		failed, err := f.svc.HandleQRISCallback(ctx, "trx-failed", "failed")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, failed.Status)
		assert.Equal(t, "QRIS payment failed", failed.Notes)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		_, err := f.svc.HandleQRISCallback(ctx, "trx-missing", "success")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown status", func(t *testing.T) {
		invoice := f.createInvoice(t, 50000)
		_, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
			InvoiceID:     invoice.ID.String(),
			Amount:        50000,
			Method:        domain.MethodQRIS,
			TransactionID: "trx-odd",
		})
		require.NoError(t, err)

		_, err = f.svc.HandleQRISCallback(ctx, "trx-odd", "maybe")
		assert.ErrorIs(t, err, domain.ErrUnknownCallback)
	})
}

func TestPaymentStatsBucketsByMethod(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	pay := func(amount float64, method domain.Method) {
		invoice := f.createInvoice(t, amount)
		payment, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
			InvoiceID: invoice.ID.String(),
			Amount:    amount,
			Method:    method,
		})
		require.NoError(t, err)
		_, err = f.svc.Confirm(ctx, payment.ID.String())
		require.NoError(t, err)
	}

	pay(100000, domain.MethodCash)
	pay(50000, domain.MethodCash)
	pay(75000, domain.MethodBankTransfer)

	// Pending payments are excluded from stats.
	invoice := f.createInvoice(t, 20000)
	_, err := f.svc.Create(ctx, domain.CreatePaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    20000,
	})
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalCount)
	assert.Equal(t, 225000.0, stats.TotalAmount)
	assert.Equal(t, int64(2), stats.ByMethod[domain.MethodCash].Count)
	assert.Equal(t, 150000.0, stats.ByMethod[domain.MethodCash].Amount)
	assert.Equal(t, int64(1), stats.ByMethod[domain.MethodBankTransfer].Count)
}
