package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type CreateBankTransactionRequest struct {
	BankConnectionID snowflake.ID    `json:"bank_connection_id"`
	TransactionDate  time.Time       `json:"transaction_date"`
	Description      string          `json:"description"`
	CustomerName     string          `json:"customer_name"`
	WithdrawalAmount decimal.Decimal `json:"withdrawal_amount"`
	DepositAmount    decimal.Decimal `json:"deposit_amount"`
	TransactionID    string          `json:"transaction_id"`
	ChequeRefNo      string          `json:"cheque_ref_no"`
	Balance          decimal.Decimal `json:"balance"`
}

type ListBankTransactionFilter struct {
	Status           Status
	Source           Source
	BankConnectionID snowflake.ID
	Search           string
}

// BankTransactionView joins the transaction with its connection's bank name.
type BankTransactionView struct {
	BankTransaction
	BankName string `json:"bank_name"`
}

type ListBankTransactionResponse struct {
	pagination.PageInfo
	Transactions []BankTransactionView `json:"transactions"`
}

// SkippedRow reports one statement row the import dropped and why.
type SkippedRow struct {
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
}

type ImportReport struct {
	Created int          `json:"created"`
	Skipped []SkippedRow `json:"skipped"`
}

type ImportRequest struct {
	Filename string
	BankType string
	Content  io.Reader
}

type SyncReport struct {
	Created int `json:"created"`
}

type Service interface {
	Create(ctx context.Context, req CreateBankTransactionRequest) (BankTransactionView, error)
	GetByID(ctx context.Context, id snowflake.ID) (BankTransactionView, error)
	List(ctx context.Context, filter ListBankTransactionFilter, page pagination.Pagination) (ListBankTransactionResponse, error)
	Delete(ctx context.Context, id snowflake.ID) error

	Import(ctx context.Context, req ImportRequest) (ImportReport, error)
	Sync(ctx context.Context) (SyncReport, error)
}

var (
	ErrNotFound           = errors.New("bank_transaction_not_found")
	ErrConnectionNotFound = errors.New("bank_connection_not_found")
	ErrNoActiveConnection = errors.New("no_active_bank_connection")
	ErrMissingFile        = errors.New("file_required")
	ErrInvalidDate        = errors.New("invalid_transaction_date")
)
