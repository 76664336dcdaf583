// Package domain defines the read-only reporting types consumed by the
// dashboard.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Reporting periods accepted by the windowed endpoints.
const (
	PeriodWeek  = "7days"
	PeriodMonth = "30days"
	PeriodYear  = "12months"
)

type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type RevenueStats struct {
	Period string         `json:"period"`
	Data   []RevenuePoint `json:"data"`
	Total  float64        `json:"total"`
}

type GrowthPoint struct {
	Date  string `json:"date"`
	New   int64  `json:"new"`
	Total int64  `json:"total"`
}

type CustomerGrowth struct {
	Period   string        `json:"period"`
	Data     []GrowthPoint `json:"data"`
	TotalNew int64         `json:"total_new"`
}

type MethodBreakdown struct {
	Method string  `json:"method"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

type PaymentStats struct {
	Total    int64             `json:"total"`
	Recent   int64             `json:"recent"`
	ByMethod []MethodBreakdown `json:"by_method"`
}

type CustomerTotals struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

type InvoiceTotals struct {
	Total   int64 `json:"total"`
	Paid    int64 `json:"paid"`
	Pending int64 `json:"pending"`
}

type RevenueTotals struct {
	Total     float64 `json:"total"`
	ThisMonth float64 `json:"this_month"`
}

type DashboardSummary struct {
	Customers CustomerTotals `json:"customers"`
	Invoices  InvoiceTotals  `json:"invoices"`
	Revenue   RevenueTotals  `json:"revenue"`
}

type TopCustomer struct {
	CustomerID    snowflake.ID `json:"customer_id"`
	CustomerName  string       `json:"customer_name"`
	CustomerEmail string       `json:"customer_email"`
	TotalRevenue  float64      `json:"total_revenue"`
	InvoiceCount  int64        `json:"invoice_count"`
}

// Activity is one entry of the merged recent-activity feed.
type Activity struct {
	ID           snowflake.ID `json:"id"`
	Type         string       `json:"type"`
	Title        string       `json:"title"`
	Amount       float64      `json:"amount"`
	Date         time.Time    `json:"date"`
	Status       string       `json:"status"`
	CustomerName string       `json:"customer_name,omitempty"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type StatusAggregate struct {
	Status string  `json:"status"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

type StatusDistribution struct {
	Customers []StatusCount     `json:"customers"`
	Invoices  []StatusAggregate `json:"invoices"`
}

// TrendComparison holds rounded percentage deltas between reporting windows.
type TrendComparison struct {
	Customers int `json:"customers"`
	Invoices  int `json:"invoices"`
	Revenue   int `json:"revenue"`
	ThisMonth int `json:"this_month"`
}

type Service interface {
	RevenueStats(ctx context.Context, period string) (RevenueStats, error)
	CustomerGrowth(ctx context.Context, period string) (CustomerGrowth, error)
	PaymentStats(ctx context.Context) (PaymentStats, error)
	DashboardSummary(ctx context.Context) (DashboardSummary, error)
	TopCustomers(ctx context.Context, limit int) ([]TopCustomer, error)
	RecentActivities(ctx context.Context, limit int) ([]Activity, error)
	StatusDistribution(ctx context.Context) (StatusDistribution, error)
	TrendComparison(ctx context.Context) (TrendComparison, error)
}

var ErrInvalidPeriod = errors.New("invalid_period")
