package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// UserView is the read shape: password and superuser flag stay internal,
// the derived role renders instead.
type UserView struct {
	ID        snowflake.ID `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Role      string       `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (UserView, error)

	CreateUser(ctx context.Context, req CreateUserRequest) (UserView, error)
	ListUsers(ctx context.Context) ([]UserView, error)
	DeleteUser(ctx context.Context, id snowflake.ID) error
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrDuplicateUsername  = errors.New("duplicate_username")
)
