package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
	paymentdomain "github.com/netcharge/netcharge/internal/payment/domain"
)

type createInvoiceRequest struct {
	CustomerID         string  `json:"customer_id"`
	Amount             float64 `json:"amount"`
	BillingPeriodStart string  `json:"billing_period_start"`
	BillingPeriodEnd   string  `json:"billing_period_end"`
	DueDate            string  `json:"due_date"`
	Description        string  `json:"description"`
}

type updateInvoiceRequest struct {
	Amount             *float64 `json:"amount"`
	Status             *string  `json:"status"`
	BillingPeriodStart *string  `json:"billing_period_start"`
	BillingPeriodEnd   *string  `json:"billing_period_end"`
	DueDate            *string  `json:"due_date"`
	Description        *string  `json:"description"`
}

// invoiceDetail is the get-by-id response with settlement attempts attached.
type invoiceDetail struct {
	invoicedomain.Invoice
	Payments []paymentdomain.Payment `json:"payments"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	periodStart, err := parseRequiredDate(req.BillingPeriodStart)
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidPeriod)
		return
	}
	periodEnd, err := parseRequiredDate(req.BillingPeriodEnd)
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidPeriod)
		return
	}
	dueDate, err := parseRequiredDate(req.DueDate)
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidPeriod)
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		CustomerID:         strings.TrimSpace(req.CustomerID),
		Amount:             req.Amount,
		BillingPeriodStart: periodStart,
		BillingPeriodEnd:   periodEnd,
		DueDate:            dueDate,
		Description:        req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Status: invoicedomain.Status(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payments, err := s.paymentSvc.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if payments == nil {
		payments = []paymentdomain.Payment{}
	}

	c.JSON(http.StatusOK, gin.H{"data": invoiceDetail{
		Invoice:  invoice,
		Payments: payments,
	}})
}

func (s *Server) ListInvoicesByCustomer(c *gin.Context) {
	invoices, err := s.invoiceSvc.ListByCustomer(c.Request.Context(), strings.TrimSpace(c.Param("customerId")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	detailed := make([]invoiceDetail, 0, len(invoices))
	for _, invoice := range invoices {
		payments, err := s.paymentSvc.ListByInvoice(c.Request.Context(), invoice.ID.String())
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if payments == nil {
			payments = []paymentdomain.Payment{}
		}
		detailed = append(detailed, invoiceDetail{Invoice: invoice, Payments: payments})
	}

	c.JSON(http.StatusOK, gin.H{"data": detailed})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	update := invoicedomain.UpdateInvoiceRequest{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Status != nil {
		status := invoicedomain.Status(*req.Status)
		update.Status = &status
	}
	if req.BillingPeriodStart != nil {
		start, err := parseRequiredDate(*req.BillingPeriodStart)
		if err != nil {
			AbortWithError(c, invoicedomain.ErrInvalidPeriod)
			return
		}
		update.BillingPeriodStart = &start
	}
	if req.BillingPeriodEnd != nil {
		end, err := parseRequiredDate(*req.BillingPeriodEnd)
		if err != nil {
			AbortWithError(c, invoicedomain.ErrInvalidPeriod)
			return
		}
		update.BillingPeriodEnd = &end
	}
	if req.DueDate != nil {
		due, err := parseRequiredDate(*req.DueDate)
		if err != nil {
			AbortWithError(c, invoicedomain.ErrInvalidPeriod)
			return
		}
		update.DueDate = &due
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	if err := s.invoiceSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GenerateMonthlyInvoices(c *gin.Context) {
	resp, err := s.invoiceSvc.GenerateMonthly(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) MarkInvoicesOverdue(c *gin.Context) {
	affected, err := s.invoiceSvc.MarkOverdue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": affected}})
}

func (s *Server) InvoiceDashboardStats(c *gin.Context) {
	resp, err := s.invoiceSvc.DashboardStats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseRequiredDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(value))
}
