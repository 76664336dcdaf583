package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/netcharge/netcharge/internal/customer/domain"
	"github.com/netcharge/netcharge/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return domain.Customer{}, domain.ErrInvalidPhone
	}

	packageType := req.PackageType
	if packageType == "" {
		packageType = domain.PackageBasic
	}
	if !domain.ValidPackageType(packageType) {
		return domain.Customer{}, domain.ErrInvalidPackageType
	}

	if req.MonthlyRate < 0 {
		return domain.Customer{}, domain.ErrInvalidMonthlyRate
	}

	billingDay := req.BillingDay
	if billingDay == 0 {
		billingDay = 1
	}
	if billingDay < 1 || billingDay > 28 {
		return domain.Customer{}, domain.ErrInvalidBillingDay
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing != nil {
		return domain.Customer{}, domain.ErrEmailExists
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:               s.genID.Generate(),
		Name:             name,
		Email:            email,
		Phone:            phone,
		Address:          strings.TrimSpace(req.Address),
		PackageType:      packageType,
		MonthlyRate:      req.MonthlyRate,
		Status:           domain.StatusActive,
		MACAddress:       strings.TrimSpace(req.MACAddress),
		IPAddress:        strings.TrimSpace(req.IPAddress),
		BillingStartDate: req.BillingStartDate,
		BillingDay:       billingDay,
		Metadata:         datatypes.JSONMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		// races on the unique email index surface as conflicts too
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrEmailExists
		}
		return domain.Customer{}, err
	}

	s.log.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("package", string(customer.PackageType)),
	)
	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) ([]domain.Customer, error) {
	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return nil, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, s.db, domain.ListFilter{Status: req.Status})
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := s.parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) GetByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return domain.Customer{}, domain.ErrInvalidPhone
	}

	item, err := s.repo.FindByPhone(ctx, s.db, phone)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	customerID, err := s.parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	updates, err := buildUpdates(req)
	if err != nil {
		return domain.Customer{}, err
	}
	if len(updates) == 0 {
		return *existing, nil
	}
	updates["updated_at"] = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, customerID, updates); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Customer{}, domain.ErrEmailExists
		}
		return domain.Customer{}, err
	}

	return s.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	customerID, err := s.parseID(id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, s.db, customerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Suspend(ctx context.Context, id string) (domain.Customer, error) {
	return s.setStatus(ctx, id, domain.StatusSuspended)
}

func (s *Service) Activate(ctx context.Context, id string) (domain.Customer, error) {
	return s.setStatus(ctx, id, domain.StatusActive)
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.List(ctx, s.db, domain.ListFilter{Status: domain.StatusActive})
}

func (s *Service) setStatus(ctx context.Context, id string, status domain.Status) (domain.Customer, error) {
	customerID, err := s.parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if err := s.repo.Update(ctx, s.db, customerID, updates); err != nil {
		return domain.Customer{}, err
	}

	existing.Status = status
	return *existing, nil
}

func buildUpdates(req domain.UpdateCustomerRequest) (map[string]any, error) {
	updates := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		updates["name"] = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.ErrInvalidEmail
		}
		updates["email"] = email
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone == "" {
			return nil, domain.ErrInvalidPhone
		}
		updates["phone"] = phone
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.PackageType != nil {
		if !domain.ValidPackageType(*req.PackageType) {
			return nil, domain.ErrInvalidPackageType
		}
		updates["package_type"] = *req.PackageType
	}
	if req.MonthlyRate != nil {
		if *req.MonthlyRate < 0 {
			return nil, domain.ErrInvalidMonthlyRate
		}
		updates["monthly_rate"] = *req.MonthlyRate
	}
	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return nil, domain.ErrInvalidStatus
		}
		updates["status"] = *req.Status
	}
	if req.MACAddress != nil {
		updates["mac_address"] = strings.TrimSpace(*req.MACAddress)
	}
	if req.IPAddress != nil {
		updates["ip_address"] = strings.TrimSpace(*req.IPAddress)
	}
	if req.BillingStartDate != nil {
		updates["billing_start_date"] = *req.BillingStartDate
	}
	if req.BillingDay != nil {
		if *req.BillingDay < 1 || *req.BillingDay > 28 {
			return nil, domain.ErrInvalidBillingDay
		}
		updates["billing_day"] = *req.BillingDay
	}

	return updates, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
