package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/netcharge/netcharge/internal/auth/domain"
	"github.com/netcharge/netcharge/internal/auth/repository"
	"github.com/netcharge/netcharge/internal/clock"
	"github.com/netcharge/netcharge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) (domain.Service, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, conn.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, time.March, 15, 10, 0, 0, 0, time.UTC))
	svc := New(Params{
		Config: config.Config{AuthJWTSecret: "test-secret"},
		DB:     conn,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  fake,
		Repo:   repository.Provide(),
	})
	return svc, fake, conn
}

func TestCreateUserAndLogin(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "Admin@Netcharge.PRO",
		Password: "SecurePassword123",
		Name:     "Admin",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@netcharge.pro", user.Email)
	assert.True(t, user.IsActive)

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "admin@netcharge.pro",
		Password: "SecurePassword123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "ops@netcharge.pro",
		Password: "correct-password",
		Name:     "Ops",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "ops@netcharge.pro", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@netcharge.pro", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{Email: "bad", Password: "longenough", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "x@y.z", Password: "short", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "x@y.z", Password: "longenough", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "dup@y.z", Password: "longenough"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{Email: "dup@y.z", Password: "longenough"})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	svc, fake, db := setupService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "token@netcharge.pro",
		Password: "SecurePassword123",
		Name:     "Token",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:    user.Email,
		Password: "SecurePassword123",
	})
	require.NoError(t, err)

	claims, err := svc.VerifyToken(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, err = svc.VerifyToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// Expired tokens are rejected.
	fake.Advance(25 * time.Hour)
	_, err = svc.VerifyToken(ctx, result.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	// Deactivated accounts lose access even with a fresh token.
	fake.Advance(-25 * time.Hour)
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)
	_, err = svc.VerifyToken(ctx, result.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
