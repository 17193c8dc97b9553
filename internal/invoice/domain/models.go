package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusPartial Status = "PARTIAL"
	StatusPaid    Status = "PAID"
)

// Invoice tracks an amount billed against a lead. OpenBalance only ever
// decreases, through receipt adjustments, and Status is derived from it.
type Invoice struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	InvoiceNo   string          `json:"invoice_no" gorm:"uniqueIndex;size:100"`
	InvoiceDate time.Time       `json:"invoice_date"`
	DueDate     time.Time       `json:"due_date"`
	LeadID      snowflake.ID    `json:"lead_id" gorm:"index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(15,2)"`
	OpenBalance decimal.Decimal `json:"open_balance" gorm:"type:decimal(15,2)"`
	Status      Status          `json:"status" gorm:"size:20;default:OPEN"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }
