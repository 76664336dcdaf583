package domain

import (
	"context"
	"errors"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

// Claims is the decoded identity carried by a bearer token.
type Claims struct {
	UserID string
	Email  string
	Role   Role
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type Service interface {
	// Login verifies the credentials and issues a signed bearer token.
	Login(context.Context, LoginRequest) (LoginResult, error)

	// CreateUser registers a dashboard account. Duplicate emails reject.
	CreateUser(context.Context, CreateUserRequest) (User, error)

	GetByID(ctx context.Context, id string) (User, error)

	// VerifyToken parses and validates a bearer token, then checks the
	// account still exists and is active.
	VerifyToken(ctx context.Context, token string) (Claims, error)
}

var (
	ErrNotFound           = errors.New("user_not_found")
	ErrInvalidID          = errors.New("invalid_id")
	ErrEmailExists        = errors.New("email_already_registered")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrPasswordTooShort   = errors.New("password_too_short")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserInactive       = errors.New("user_inactive")
	ErrInvalidToken       = errors.New("invalid_token")
)
