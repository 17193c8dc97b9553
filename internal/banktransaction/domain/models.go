package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusForReview   Status = "FOR_REVIEW"
	StatusCategorized Status = "CATEGORIZED"
	StatusExcluded    Status = "EXCLUDED"
)

type Source string

const (
	SourceAuto   Source = "AUTO"
	SourceManual Source = "MANUAL"
)

// BankTransaction is the canonical normalized statement record. AmountReceived
// mirrors DepositAmount for callers that predate the withdrawal/deposit split.
type BankTransaction struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	BankConnectionID snowflake.ID `json:"bank_connection_id" gorm:"index"`

	TransactionDate time.Time       `json:"transaction_date"`
	Description     string          `json:"description" gorm:"type:text"`
	CustomerName    string          `json:"customer_name" gorm:"size:255"`
	AmountReceived  decimal.Decimal `json:"amount_received" gorm:"type:decimal(15,2)"`
	Status          Status          `json:"status" gorm:"size:20;default:FOR_REVIEW"`
	Source          Source          `json:"source" gorm:"size:10;default:AUTO"`

	ReconciliationDate *time.Time `json:"reconciliation_date"`
	ExclusionReason    string     `json:"exclusion_reason" gorm:"size:255"`

	TransactionID      string          `json:"transaction_id" gorm:"size:100"`
	ValueDate          *time.Time      `json:"value_date"`
	PostedDate         *time.Time      `json:"posted_date"`
	ChequeRefNo        string          `json:"cheque_ref_no" gorm:"size:100"`
	TransactionRemarks string          `json:"transaction_remarks" gorm:"type:text"`
	WithdrawalAmount   decimal.Decimal `json:"withdrawal_amount" gorm:"type:decimal(15,2)"`
	DepositAmount      decimal.Decimal `json:"deposit_amount" gorm:"type:decimal(15,2)"`
	Balance            decimal.Decimal `json:"balance" gorm:"type:decimal(15,2)"`

	CreatedAt time.Time `json:"created_at"`
}

func (BankTransaction) TableName() string { return "bank_transactions" }
