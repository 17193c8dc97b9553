package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	banktxdomain "github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/shopspring/decimal"
)

type MatchRequest struct {
	TransactionID      snowflake.ID   `json:"transaction_id"`
	ReceiptIDs         []snowflake.ID `json:"receipt_ids"`
	ReconciliationDate *time.Time     `json:"reconciliation_date"`
}

type ExcludeRequest struct {
	TransactionID snowflake.ID `json:"transaction_id"`
	Reason        string       `json:"reason"`
}

// AmountMismatchError reports both sides of a failed exact-sum match so the
// caller can correct the voucher selection.
type AmountMismatchError struct {
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	VoucherTotal      decimal.Decimal `json:"voucher_total"`
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("voucher total %s does not match transaction amount %s",
		e.VoucherTotal.StringFixed(2), e.TransactionAmount.StringFixed(2))
}

type Service interface {
	Match(ctx context.Context, req MatchRequest) (banktxdomain.BankTransactionView, error)
	Exclude(ctx context.Context, req ExcludeRequest) (banktxdomain.BankTransactionView, error)
	UndoExclude(ctx context.Context, transactionID snowflake.ID) (banktxdomain.BankTransactionView, error)
}

var (
	ErrTransactionNotFound = errors.New("bank_transaction_not_found")
	ErrNoVouchersSelected  = errors.New("no_receipt_vouchers_selected")
	ErrVoucherNotFound     = errors.New("receipt_voucher_not_found")
)
