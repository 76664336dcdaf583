package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/netcharge/netcharge/internal/customer/domain"
	invoicedomain "github.com/netcharge/netcharge/internal/invoice/domain"
)

type createCustomerRequest struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address"`
	PackageType      string  `json:"package_type"`
	MonthlyRate      float64 `json:"monthly_rate"`
	MACAddress       string  `json:"mac_address"`
	IPAddress        string  `json:"ip_address"`
	BillingStartDate string  `json:"billing_start_date"`
	BillingDay       int     `json:"billing_day"`
}

type updateCustomerRequest struct {
	Name             *string  `json:"name"`
	Email            *string  `json:"email"`
	Phone            *string  `json:"phone"`
	Address          *string  `json:"address"`
	PackageType      *string  `json:"package_type"`
	MonthlyRate      *float64 `json:"monthly_rate"`
	Status           *string  `json:"status"`
	MACAddress       *string  `json:"mac_address"`
	IPAddress        *string  `json:"ip_address"`
	BillingStartDate *string  `json:"billing_start_date"`
	BillingDay       *int     `json:"billing_day"`
}

// customerDetail is the get-by-id response with the customer's invoices
// attached.
type customerDetail struct {
	customerdomain.Customer
	Invoices []invoicedomain.Invoice `json:"invoices"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	billingStart, err := parseOptionalDate(req.BillingStartDate)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:             strings.TrimSpace(req.Name),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		Address:          strings.TrimSpace(req.Address),
		PackageType:      customerdomain.PackageType(req.PackageType),
		MonthlyRate:      req.MonthlyRate,
		MACAddress:       strings.TrimSpace(req.MACAddress),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		BillingStartDate: billingStart,
		BillingDay:       req.BillingDay,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		Status: customerdomain.Status(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomerByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	customer, err := s.customerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoices, err := s.invoiceSvc.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if invoices == nil {
		invoices = []invoicedomain.Invoice{}
	}

	c.JSON(http.StatusOK, gin.H{"data": customerDetail{
		Customer: customer,
		Invoices: invoices,
	}})
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	update := customerdomain.UpdateCustomerRequest{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		MonthlyRate: req.MonthlyRate,
		MACAddress:  req.MACAddress,
		IPAddress:   req.IPAddress,
		BillingDay:  req.BillingDay,
	}
	if req.PackageType != nil {
		pkg := customerdomain.PackageType(*req.PackageType)
		update.PackageType = &pkg
	}
	if req.Status != nil {
		status := customerdomain.Status(*req.Status)
		update.Status = &status
	}
	if req.BillingStartDate != nil {
		start, err := parseOptionalDate(*req.BillingStartDate)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		update.BillingStartDate = start
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) SuspendCustomer(c *gin.Context) {
	resp, err := s.customerSvc.Suspend(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ActivateCustomer(c *gin.Context) {
	resp, err := s.customerSvc.Activate(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
