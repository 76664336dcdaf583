package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	analyticsrepo "github.com/netcharge/netcharge/internal/analytics/repository"
	analyticsservice "github.com/netcharge/netcharge/internal/analytics/service"
	authdomain "github.com/netcharge/netcharge/internal/auth/domain"
	authrepo "github.com/netcharge/netcharge/internal/auth/repository"
	authservice "github.com/netcharge/netcharge/internal/auth/service"
	"github.com/netcharge/netcharge/internal/clock"
	"github.com/netcharge/netcharge/internal/config"
	customerdomain "github.com/netcharge/netcharge/internal/customer/domain"
	customerrepo "github.com/netcharge/netcharge/internal/customer/repository"
	customerservice "github.com/netcharge/netcharge/internal/customer/service"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
	invoicerepo "github.com/netcharge/netcharge/internal/invoice/repository"
	invoiceservice "github.com/netcharge/netcharge/internal/invoice/service"
	paymentdomain "github.com/netcharge/netcharge/internal/payment/domain"
	paymentrepo "github.com/netcharge/netcharge/internal/payment/repository"
	paymentservice "github.com/netcharge/netcharge/internal/payment/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type apiFixture struct {
	server     *Server
	adminToken string
	opToken    string
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(
		&authdomain.User{},
		&customerdomain.Customer{},
		&invoicedomain.Invoice{},
		&paymentdomain.Payment{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	fake := clock.NewFakeClock(time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC))
	cfg := config.Config{AuthJWTSecret: "test-secret"}

	authSvc := authservice.New(authservice.Params{
		Config: cfg,
		DB:     conn,
		Log:    log,
		GenID:  node,
		Clock:  fake,
		Repo:   authrepo.Provide(),
	})
	customerSvc := customerservice.New(customerservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  customerrepo.Provide(),
	})
	invoiceSvc := invoiceservice.New(invoiceservice.Params{
		DB:          conn,
		Log:         log,
		GenID:       node,
		Clock:       fake,
		Repo:        invoicerepo.Provide(),
		CustomerSvc: customerSvc,
	})
	paymentSvc := paymentservice.New(paymentservice.Params{
		DB:         conn,
		Log:        log,
		GenID:      node,
		Clock:      fake,
		Repo:       paymentrepo.Provide(),
		InvoiceSvc: invoiceSvc,
	})
	analyticsSvc := analyticsservice.New(analyticsservice.Params{
		DB:    conn,
		Log:   log,
		Clock: fake,
		Repo:  analyticsrepo.Provide(),
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		DB:           conn,
		GenID:        node,
		AuthSvc:      authSvc,
		CustomerSvc:  customerSvc,
		InvoiceSvc:   invoiceSvc,
		PaymentSvc:   paymentSvc,
		AnalyticsSvc: analyticsSvc,
	})

	ctx := context.Background()
	_, err = authSvc.CreateUser(ctx, authdomain.CreateUserRequest{
		Email:    "admin@netcharge.pro",
		Password: "admin-password",
		Name:     "Admin",
		Role:     authdomain.RoleAdmin,
	})
	require.NoError(t, err)
	_, err = authSvc.CreateUser(ctx, authdomain.CreateUserRequest{
		Email:    "operator@netcharge.pro",
		Password: "operator-password",
		Name:     "Operator",
		Role:     authdomain.RoleOperator,
	})
	require.NoError(t, err)

	adminLogin, err := authSvc.Login(ctx, authdomain.LoginRequest{Email: "admin@netcharge.pro", Password: "admin-password"})
	require.NoError(t, err)
	opLogin, err := authSvc.Login(ctx, authdomain.LoginRequest{Email: "operator@netcharge.pro", Password: "operator-password"})
	require.NoError(t, err)

	return &apiFixture{
		server:     srv,
		adminToken: adminLogin.AccessToken,
		opToken:    opLogin.AccessToken,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.server.engine.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var envelope errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error
}

func TestAuthGuards(t *testing.T) {
	f := setupAPI(t)

	rec := f.do(t, http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Type)

	rec = f.do(t, http.MethodGet, "/api/customers", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Operators can read but cannot hit admin-only routes.
	rec = f.do(t, http.MethodGet, "/api/customers", f.opToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/invoices/generate/monthly", f.opToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec).Type)
}

func TestLoginAndProfile(t *testing.T) {
	f := setupAPI(t)

	rec := f.do(t, http.MethodPost, "/api/auth/login", "", authdomain.LoginRequest{
		Email:    "admin@netcharge.pro",
		Password: "admin-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decodeData[authdomain.LoginResult](t, rec)
	require.NotEmpty(t, login.AccessToken)

	rec = f.do(t, http.MethodGet, "/api/auth/profile", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeData[authdomain.User](t, rec)
	assert.Equal(t, "admin@netcharge.pro", profile.Email)
	assert.Equal(t, authdomain.RoleAdmin, profile.Role)

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", authdomain.LoginRequest{
		Email:    "admin@netcharge.pro",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaymentSettlementFlow(t *testing.T) {
	f := setupAPI(t)

	rec := f.do(t, http.MethodPost, "/api/customers", f.adminToken, createCustomerRequest{
		Name:        "Flow Customer",
		Email:       "flow@example.com",
		Phone:       "0812345678",
		MonthlyRate: 250000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	customer := decodeData[customerdomain.Customer](t, rec)

	rec = f.do(t, http.MethodPost, "/api/invoices", f.adminToken, createInvoiceRequest{
		CustomerID:         customer.ID.String(),
		Amount:             250000,
		BillingPeriodStart: "2025-03-01",
		BillingPeriodEnd:   "2025-03-31",
		DueDate:            "2025-04-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	invoice := decodeData[invoicedomain.Invoice](t, rec)
	assert.Equal(t, invoicedomain.StatusPending, invoice.Status)

	rec = f.do(t, http.MethodPost, "/api/payments", f.adminToken, createPaymentRequest{
		InvoiceID: invoice.ID.String(),
		Amount:    250000,
		Method:    string(paymentdomain.MethodCash),
		PaidBy:    "Flow Customer",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	payment := decodeData[paymentdomain.Payment](t, rec)
	assert.Equal(t, paymentdomain.StatusPending, payment.Status)

	rec = f.do(t, http.MethodPost, "/api/payments/"+payment.ID.String()+"/confirm", f.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	confirmed := decodeData[paymentdomain.Payment](t, rec)
	assert.Equal(t, paymentdomain.StatusCompleted, confirmed.Status)

	rec = f.do(t, http.MethodGet, "/api/invoices/"+invoice.ID.String(), f.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	settled := decodeData[invoiceDetail](t, rec)
	assert.Equal(t, invoicedomain.StatusPaid, settled.Status)
	assert.Equal(t, 250000.0, settled.PaidAmount)
	require.Len(t, settled.Payments, 1)

	// Double confirmation is a business rule violation.
	rec = f.do(t, http.MethodPost, "/api/payments/"+payment.ID.String()+"/confirm", f.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "business_rule_violation", decodeError(t, rec).Type)
}

func TestQRISFlowOverHTTP(t *testing.T) {
	f := setupAPI(t)

	rec := f.do(t, http.MethodPost, "/api/customers", f.adminToken, createCustomerRequest{
		Name:        "QRIS Customer",
		Email:       "qris@example.com",
		Phone:       "0812345678",
		MonthlyRate: 150000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	customer := decodeData[customerdomain.Customer](t, rec)

	rec = f.do(t, http.MethodPost, "/api/invoices", f.adminToken, createInvoiceRequest{
		CustomerID:         customer.ID.String(),
		Amount:             150000,
		BillingPeriodStart: "2025-03-01",
		BillingPeriodEnd:   "2025-03-31",
		DueDate:            "2025-04-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	invoice := decodeData[invoicedomain.Invoice](t, rec)

	rec = f.do(t, http.MethodPost, "/api/payments/qris/generate/"+invoice.ID.String(), f.adminToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var generated struct {
		Data struct {
			Payment  paymentdomain.Payment `json:"payment"`
			QRISCode string                `json:"qris_code"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
	require.NotEmpty(t, generated.Data.QRISCode)
	assert.Equal(t, paymentdomain.MethodQRIS, generated.Data.Payment.Method)
	assert.Equal(t, 150000.0, generated.Data.Payment.Amount)

	rec = f.do(t, http.MethodPost, "/api/payments", f.adminToken, createPaymentRequest{
		InvoiceID:     invoice.ID.String(),
		Amount:        150000,
		Method:        string(paymentdomain.MethodQRIS),
		TransactionID: "TRX-CALLBACK-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// The provider callback is unauthenticated.
	rec = f.do(t, http.MethodPost, "/api/payments/qris/callback", "", qrisCallbackRequest{
		TransactionID: "TRX-CALLBACK-1",
		Status:        "success",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	settled := decodeData[paymentdomain.Payment](t, rec)
	assert.Equal(t, paymentdomain.StatusCompleted, settled.Status)

	rec = f.do(t, http.MethodGet, "/api/invoices/"+invoice.ID.String(), f.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeData[invoiceDetail](t, rec)
	assert.Equal(t, invoicedomain.StatusPaid, detail.Status)
}

func TestErrorMapping(t *testing.T) {
	f := setupAPI(t)

	rec := f.do(t, http.MethodGet, "/api/customers/999999999", f.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Type)

	rec = f.do(t, http.MethodGet, "/api/customers/not-an-id", f.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Type)

	rec = f.do(t, http.MethodPost, "/api/customers", f.adminToken, createCustomerRequest{
		Name:        "No Email",
		Phone:       "0812345678",
		MonthlyRate: 100000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Type)

	rec = f.do(t, http.MethodPost, "/api/customers", f.adminToken, createCustomerRequest{
		Name:        "Dup",
		Email:       "dup@example.com",
		Phone:       "0812345678",
		MonthlyRate: 100000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/customers", f.adminToken, createCustomerRequest{
		Name:        "Dup Again",
		Email:       "dup@example.com",
		Phone:       "0812345678",
		MonthlyRate: 100000,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeError(t, rec).Type)
}

func TestAnalyticsEndpoints(t *testing.T) {
	f := setupAPI(t)

	for _, path := range []string{
		"/api/analytics/revenue?period=7days",
		"/api/analytics/customers?period=30days",
		"/api/analytics/payments",
		"/api/analytics/summary",
		"/api/analytics/top-customers?limit=3",
		"/api/analytics/recent-activities",
		"/api/analytics/status-distribution",
		"/api/analytics/trends",
	} {
		rec := f.do(t, http.MethodGet, path, f.opToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
