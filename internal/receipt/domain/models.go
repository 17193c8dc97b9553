package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusUnreconciled Status = "UNRECONCILED"
	StatusReconciled   Status = "RECONCILED"
)

// ReceiptVoucher records one customer payment event. ReceiptNo is
// server-assigned and sequential; BankTransactionID is set once the voucher
// is reconciled against a statement line.
type ReceiptVoucher struct {
	ID           snowflake.ID  `json:"id" gorm:"primaryKey"`
	ReceiptNo    string        `json:"receipt_no" gorm:"uniqueIndex;size:100"`
	CustomerName string        `json:"customer_name" gorm:"size:255"`
	LeadID       *snowflake.ID `json:"lead_id" gorm:"index"`

	PaymentDate     time.Time       `json:"payment_date"`
	ReferenceNumber string          `json:"reference_number" gorm:"size:100"`
	PaymentMethod   string          `json:"payment_method" gorm:"size:100"`
	DepositToID     *snowflake.ID   `json:"deposit_to_id"`
	AmountReceived  decimal.Decimal `json:"amount_received" gorm:"type:decimal(15,2)"`
	TDSReceivable   decimal.Decimal `json:"tds_receivable" gorm:"type:decimal(15,2)"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate" gorm:"type:decimal(10,4);default:1"`

	Status            Status        `json:"status" gorm:"size:20;default:UNRECONCILED"`
	BankTransactionID *snowflake.ID `json:"bank_transaction_id" gorm:"index"`

	Adjustments []ReceiptAdjustment `json:"adjustments" gorm:"foreignKey:ReceiptVoucherID;constraint:OnDelete:CASCADE"`
	Attachments []ReceiptAttachment `json:"attachments" gorm:"foreignKey:ReceiptVoucherID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReceiptVoucher) TableName() string { return "receipt_vouchers" }

// ReceiptAdjustment splits a voucher's amount against one invoice. Applying
// it decrements the invoice open balance by the three amounts summed.
type ReceiptAdjustment struct {
	ID               snowflake.ID    `json:"id" gorm:"primaryKey"`
	ReceiptVoucherID snowflake.ID    `json:"receipt_voucher_id" gorm:"index"`
	InvoiceID        snowflake.ID    `json:"invoice_id" gorm:"index"`
	PaymentAmount    decimal.Decimal `json:"payment_amount" gorm:"type:decimal(15,2)"`
	TDSAmount        decimal.Decimal `json:"tds_amount" gorm:"type:decimal(15,2)"`
	BankCharges      decimal.Decimal `json:"bank_charges" gorm:"type:decimal(15,2)"`
}

func (ReceiptAdjustment) TableName() string { return "receipt_adjustments" }

type ReceiptAttachment struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	ReceiptVoucherID snowflake.ID `json:"receipt_voucher_id" gorm:"index"`
	Path             string       `json:"-" gorm:"size:512"`
	Filename         string       `json:"filename" gorm:"size:255"`
	UploadedAt       time.Time    `json:"uploaded_at"`
}

func (ReceiptAttachment) TableName() string { return "receipt_attachments" }
