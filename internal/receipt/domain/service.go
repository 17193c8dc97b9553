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

// AdjustmentInstruction names one invoice and the amounts to apply against
// it. Instructions where all three amounts are zero are dropped silently.
type AdjustmentInstruction struct {
	InvoiceID     snowflake.ID    `json:"invoice_id"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	TDSAmount     decimal.Decimal `json:"tds_amount"`
	BankCharges   decimal.Decimal `json:"bank_charges"`
}

func (a AdjustmentInstruction) Total() decimal.Decimal {
	return a.PaymentAmount.Add(a.TDSAmount).Add(a.BankCharges)
}

type CreateReceiptVoucherRequest struct {
	CustomerName    string                  `json:"customer_name"`
	LeadID          *snowflake.ID           `json:"lead_id"`
	PaymentDate     time.Time               `json:"payment_date"`
	ReferenceNumber string                  `json:"reference_number"`
	PaymentMethod   string                  `json:"payment_method"`
	DepositToID     *snowflake.ID           `json:"deposit_to_id"`
	AmountReceived  decimal.Decimal         `json:"amount_received"`
	TDSReceivable   decimal.Decimal         `json:"tds_receivable"`
	ExchangeRate    decimal.Decimal         `json:"exchange_rate"`
	Adjustments     []AdjustmentInstruction `json:"adjustments"`
}

type ListReceiptVoucherFilter struct {
	Status       Status
	CustomerName string
	Unreconciled bool
}

// ReceiptVoucherView joins the voucher with display fields resolved from
// its deposit connection and, once reconciled, the linked transaction.
type ReceiptVoucherView struct {
	ReceiptVoucher
	BankName           string     `json:"bank_name"`
	ReconciliationDate *time.Time `json:"reconciliation_date"`
}

type ListReceiptVoucherResponse struct {
	pagination.PageInfo
	Vouchers []ReceiptVoucherView `json:"vouchers"`
}

type Service interface {
	Create(ctx context.Context, req CreateReceiptVoucherRequest) (ReceiptVoucherView, error)
	GetByID(ctx context.Context, id snowflake.ID) (ReceiptVoucherView, error)
	List(ctx context.Context, filter ListReceiptVoucherFilter, page pagination.Pagination) (ListReceiptVoucherResponse, error)
	Delete(ctx context.Context, id snowflake.ID) error

	AddAttachment(ctx context.Context, id snowflake.ID, filename string, content io.Reader) (ReceiptAttachment, error)
	DeleteAttachment(ctx context.Context, id, attachmentID snowflake.ID) error
}

var (
	ErrNotFound           = errors.New("receipt_voucher_not_found")
	ErrInvalidAmount      = errors.New("invalid_amount_received")
	ErrInvalidPaymentDate = errors.New("invalid_payment_date")
	ErrInvoiceNotFound    = errors.New("adjustment_invoice_not_found")
	ErrMissingFile        = errors.New("file_required")
	ErrAttachmentNotFound = errors.New("attachment_not_found")
)
