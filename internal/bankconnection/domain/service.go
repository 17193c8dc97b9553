package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
)

type CreateBankConnectionRequest struct {
	BankName         string `json:"bank_name"`
	AccountNumber    string `json:"account_number"`
	APIKey           string `json:"api_key"`
	ClientID         string `json:"client_id"`
	OAuthCredentials string `json:"oauth_credentials"`
	Token            string `json:"token"`
	SecretKey        string `json:"secret_key"`
}

type UpdateBankConnectionRequest struct {
	BankName         *string `json:"bank_name"`
	AccountNumber    *string `json:"account_number"`
	APIKey           *string `json:"api_key"`
	ClientID         *string `json:"client_id"`
	OAuthCredentials *string `json:"oauth_credentials"`
	Token            *string `json:"token"`
	SecretKey        *string `json:"secret_key"`
	IsActive         *bool   `json:"is_active"`
}

type ListBankConnectionResponse struct {
	pagination.PageInfo
	BankConnections []BankConnection `json:"bank_connections"`
}

type Service interface {
	Create(ctx context.Context, req CreateBankConnectionRequest) (BankConnection, error)
	GetByID(ctx context.Context, id snowflake.ID) (BankConnection, error)
	List(ctx context.Context, page pagination.Pagination) (ListBankConnectionResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateBankConnectionRequest) (BankConnection, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound             = errors.New("bank_connection_not_found")
	ErrInvalidBankName      = errors.New("invalid_bank_name")
	ErrInvalidAccountNumber = errors.New("invalid_account_number")
)
