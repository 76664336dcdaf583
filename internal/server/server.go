package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/netcharge/netcharge/internal/analytics"
	analyticsdomain "github.com/netcharge/netcharge/internal/analytics/domain"
	"github.com/netcharge/netcharge/internal/auth"
	authdomain "github.com/netcharge/netcharge/internal/auth/domain"
	"github.com/netcharge/netcharge/internal/clock"
	"github.com/netcharge/netcharge/internal/config"
	"github.com/netcharge/netcharge/internal/customer"
	customerdomain "github.com/netcharge/netcharge/internal/customer/domain"
	"github.com/netcharge/netcharge/internal/invoice"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
	"github.com/netcharge/netcharge/internal/logger"
	"github.com/netcharge/netcharge/internal/metrics"
	"github.com/netcharge/netcharge/internal/migration"
	"github.com/netcharge/netcharge/internal/payment"
	paymentdomain "github.com/netcharge/netcharge/internal/payment/domain"
	"github.com/netcharge/netcharge/internal/scheduler"
	"github.com/netcharge/netcharge/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	logger.Module,
	clock.Module,
	metrics.Module,
	db.Module,
	migration.Module,
	fx.Provide(RegisterSnowflake),
	fx.Provide(NewEngine),
	auth.Module,
	customer.Module,
	invoice.Module,
	payment.Module,
	analytics.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

// RegisterSnowflake provides the process-wide id generator node.
func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *metrics.HTTPMetrics, registry *prometheus.Registry) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(log))
	r.Use(metrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	authSvc      authdomain.Service
	customerSvc  customerdomain.Service
	invoiceSvc   invoicedomain.Service
	paymentSvc   paymentdomain.Service
	analyticsSvc analyticsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	AuthSvc      authdomain.Service
	CustomerSvc  customerdomain.Service
	InvoiceSvc   invoicedomain.Service
	PaymentSvc   paymentdomain.Service
	AnalyticsSvc analyticsdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		authSvc:      p.AuthSvc,
		customerSvc:  p.CustomerSvc,
		invoiceSvc:   p.InvoiceSvc,
		paymentSvc:   p.PaymentSvc,
		analyticsSvc: p.AnalyticsSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	// Login and the provider callback are the only unauthenticated routes.
	api.POST("/auth/login", s.Login)
	api.POST("/payments/qris/callback", s.QRISCallback)

	authed := api.Group("")
	authed.Use(s.AuthRequired())

	authed.GET("/auth/profile", s.Profile)
	authed.POST("/auth/register", s.RequireRole(authdomain.RoleAdmin), s.RegisterUser)

	authed.POST("/customers", s.CreateCustomer)
	authed.GET("/customers", s.ListCustomers)
	authed.GET("/customers/:id", s.GetCustomerByID)
	authed.PATCH("/customers/:id", s.UpdateCustomer)
	authed.DELETE("/customers/:id", s.DeleteCustomer)
	authed.POST("/customers/:id/suspend", s.SuspendCustomer)
	authed.POST("/customers/:id/activate", s.ActivateCustomer)

	authed.POST("/invoices", s.CreateInvoice)
	authed.GET("/invoices", s.ListInvoices)
	authed.GET("/invoices/dashboard/stats", s.InvoiceDashboardStats)
	authed.GET("/invoices/customer/:customerId", s.ListInvoicesByCustomer)
	authed.GET("/invoices/:id", s.GetInvoiceByID)
	authed.PATCH("/invoices/:id", s.UpdateInvoice)
	authed.DELETE("/invoices/:id", s.RequireRole(authdomain.RoleAdmin), s.DeleteInvoice)
	authed.POST("/invoices/generate/monthly", s.RequireRole(authdomain.RoleAdmin), s.GenerateMonthlyInvoices)
	authed.POST("/invoices/mark-overdue", s.MarkInvoicesOverdue)

	authed.POST("/payments", s.CreatePayment)
	authed.GET("/payments", s.ListPayments)
	authed.GET("/payments/stats", s.PaymentStats)
	authed.GET("/payments/invoice/:invoiceId", s.ListPaymentsByInvoice)
	authed.GET("/payments/:id", s.GetPaymentByID)
	authed.POST("/payments/:id/confirm", s.ConfirmPayment)
	authed.POST("/payments/:id/fail", s.FailPayment)
	authed.POST("/payments/qris/generate/:invoiceId", s.GenerateQRISPayment)

	authed.GET("/analytics/revenue", s.AnalyticsRevenue)
	authed.GET("/analytics/customers", s.AnalyticsCustomerGrowth)
	authed.GET("/analytics/payments", s.AnalyticsPaymentStats)
	authed.GET("/analytics/summary", s.AnalyticsSummary)
	authed.GET("/analytics/top-customers", s.AnalyticsTopCustomers)
	authed.GET("/analytics/recent-activities", s.AnalyticsRecentActivities)
	authed.GET("/analytics/status-distribution", s.AnalyticsStatusDistribution)
	authed.GET("/analytics/trends", s.AnalyticsTrends)
}
