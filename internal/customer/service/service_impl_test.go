package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/netcharge/netcharge/internal/customer/domain"
	"github.com/netcharge/netcharge/internal/customer/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func TestCreateCustomerDefaults(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Budi Santoso",
		Email: "budi@example.com",
		Phone: "081234567890",
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.PackageBasic, created.PackageType)
	assert.Equal(t, domain.StatusActive, created.Status)
	assert.Equal(t, 1, created.BillingDay)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateCustomerRequest
		want error
	}{
		{"missing name", domain.CreateCustomerRequest{Email: "a@b.c", Phone: "08"}, domain.ErrInvalidName},
		{"bad email", domain.CreateCustomerRequest{Name: "A", Email: "not-an-email", Phone: "08"}, domain.ErrInvalidEmail},
		{"missing phone", domain.CreateCustomerRequest{Name: "A", Email: "a@b.c"}, domain.ErrInvalidPhone},
		{"negative rate", domain.CreateCustomerRequest{Name: "A", Email: "a@b.c", Phone: "08", MonthlyRate: -1}, domain.ErrInvalidMonthlyRate},
		{"bad package", domain.CreateCustomerRequest{Name: "A", Email: "a@b.c", Phone: "08", PackageType: "gold"}, domain.ErrInvalidPackageType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "First",
		Email: "dup@example.com",
		Phone: "0800000001",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Second",
		Email: "dup@example.com",
		Phone: "0800000002",
	})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestUpdateCustomerPartialMerge(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:        "Original",
		Email:       "original@example.com",
		Phone:       "0800000003",
		MonthlyRate: 150000,
	})
	require.NoError(t, err)

	newRate := 200000.0
	updated, err := svc.Update(ctx, created.ID.String(), domain.UpdateCustomerRequest{
		MonthlyRate: &newRate,
	})
	require.NoError(t, err)

	assert.Equal(t, "Original", updated.Name)
	assert.Equal(t, "original@example.com", updated.Email)
	assert.Equal(t, 200000.0, updated.MonthlyRate)
}

func TestSuspendAndActivate(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Cycle",
		Email: "cycle@example.com",
		Phone: "0800000004",
	})
	require.NoError(t, err)

	suspended, err := svc.Suspend(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuspended, suspended.Status)

	activated, err := svc.Activate(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, activated.Status)
}

func TestListCustomersByStatus(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{
			Name:  fmt.Sprintf("Customer %d", i),
			Email: fmt.Sprintf("c%d@example.com", i),
			Phone: fmt.Sprintf("08000001%02d", i),
		})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, domain.ListCustomerRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = svc.Suspend(ctx, all[0].ID.String())
	require.NoError(t, err)

	active, err := svc.List(ctx, domain.ListCustomerRequest{Status: domain.StatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	activeOnly, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, activeOnly, 2)
}

func TestDeleteCustomer(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateCustomerRequest{
		Name:  "Gone",
		Email: "gone@example.com",
		Phone: "0800000005",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))

	_, err = svc.GetByID(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, created.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
