package domain

import (
	"context"
	"errors"
	"time"
)

type CreateCustomerRequest struct {
	Name             string
	Email            string
	Phone            string
	Address          string
	PackageType      PackageType
	MonthlyRate      float64
	MACAddress       string
	IPAddress        string
	BillingStartDate *time.Time
	BillingDay       int
}

// UpdateCustomerRequest carries a partial field merge; nil fields are left untouched.
type UpdateCustomerRequest struct {
	Name             *string
	Email            *string
	Phone            *string
	Address          *string
	PackageType      *PackageType
	MonthlyRate      *float64
	Status           *Status
	MACAddress       *string
	IPAddress        *string
	BillingStartDate *time.Time
	BillingDay       *int
}

type ListCustomerRequest struct {
	Status Status
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) ([]Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	GetByPhone(ctx context.Context, phone string) (Customer, error)
	Update(ctx context.Context, id string, req UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
	Suspend(ctx context.Context, id string) (Customer, error)
	Activate(ctx context.Context, id string) (Customer, error)
	ListActive(ctx context.Context) ([]Customer, error)
}

var (
	ErrNotFound           = errors.New("customer_not_found")
	ErrEmailExists        = errors.New("customer_email_exists")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidPhone       = errors.New("invalid_phone")
	ErrInvalidPackageType = errors.New("invalid_package_type")
	ErrInvalidMonthlyRate = errors.New("invalid_monthly_rate")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidBillingDay  = errors.New("invalid_billing_day")
)
