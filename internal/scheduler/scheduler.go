// Package scheduler runs the recurring billing jobs: flagging overdue
// invoices and generating the monthly invoice batch.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/netcharge/netcharge/internal/clock"
	"github.com/netcharge/netcharge/internal/config"
	customerdomain "github.com/netcharge/netcharge/internal/customer/domain"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
	"github.com/netcharge/netcharge/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultRunInterval = time.Hour

type Params struct {
	fx.In

	Config      config.Config
	Log         *zap.Logger
	Clock       clock.Clock
	InvoiceSvc  invoicedomain.Service
	CustomerSvc customerdomain.Service
	Metrics     *metrics.SchedulerMetrics `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	clock       clock.Clock
	invoiceSvc  invoicedomain.Service
	customerSvc customerdomain.Service
	metrics     *metrics.SchedulerMetrics
	interval    time.Duration
	billingDay  int
}

func New(p Params) *Scheduler {
	billingDay := p.Config.SchedulerBillingDay
	if billingDay < 1 || billingDay > 28 {
		billingDay = 1
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler"),
		clock:       p.Clock,
		invoiceSvc:  p.InvoiceSvc,
		customerSvc: p.CustomerSvc,
		metrics:     p.Metrics,
		interval:    defaultRunInterval,
		billingDay:  billingDay,
	}
}

// RunForever ticks until the context is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunPending(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunPending(ctx)
		}
	}
}

// RunPending executes one pass of the due jobs.
func (s *Scheduler) RunPending(ctx context.Context) {
	if err := s.runOverdueJob(ctx); err != nil {
		s.log.Error("mark_overdue job failed", zap.Error(err))
	}

	if s.clock.Now().Day() == s.billingDay {
		if err := s.runMonthlyGenerationJob(ctx); err != nil {
			s.log.Error("generate_monthly job failed", zap.Error(err))
		}
	}
}

func (s *Scheduler) runOverdueJob(ctx context.Context) error {
	s.metrics.IncJobRun("mark_overdue")

	affected, err := s.invoiceSvc.MarkOverdue(ctx)
	if err != nil {
		s.metrics.IncJobError("mark_overdue")
		return err
	}
	if affected > 0 {
		s.log.Info("overdue sweep finished", zap.Int64("updated", affected))
	}
	return nil
}

// runMonthlyGenerationJob creates this month's invoice for every active
// customer that does not have one yet, so a rerun on the same day is a no-op.
func (s *Scheduler) runMonthlyGenerationJob(ctx context.Context) error {
	s.metrics.IncJobRun("generate_monthly")

	customers, err := s.customerSvc.ListActive(ctx)
	if err != nil {
		s.metrics.IncJobError("generate_monthly")
		return err
	}

	now := s.clock.Now()
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)
	dueDate := periodStart.AddDate(0, 1, 9)

	created := 0
	for _, customer := range customers {
		exists, err := s.invoiceSvc.HasInvoiceForPeriod(ctx, customer.ID, periodStart)
		if err != nil {
			s.metrics.IncJobError("generate_monthly")
			return err
		}
		if exists {
			continue
		}

		_, err = s.invoiceSvc.Create(ctx, invoicedomain.CreateInvoiceRequest{
			CustomerID:         customer.ID.String(),
			Amount:             customer.MonthlyRate,
			BillingPeriodStart: periodStart,
			BillingPeriodEnd:   periodEnd,
			DueDate:            dueDate,
			Description:        fmt.Sprintf("WiFi subscription for %s %d", periodStart.Month(), periodStart.Year()),
		})
		if err != nil {
			s.metrics.IncJobError("generate_monthly")
			return err
		}
		created++
	}

	if created > 0 {
		s.log.Info("monthly invoice batch generated",
			zap.Int("created", created),
			zap.String("period_start", periodStart.Format("2006-01-02")),
		)
	}
	return nil
}
