package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type CreateInvoiceRequest struct {
	InvoiceNo   string          `json:"invoice_no"`
	InvoiceDate time.Time       `json:"invoice_date"`
	DueDate     time.Time       `json:"due_date"`
	LeadID      snowflake.ID    `json:"lead_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type UpdateInvoiceRequest struct {
	InvoiceDate *time.Time `json:"invoice_date"`
	DueDate     *time.Time `json:"due_date"`
}

type ListInvoiceFilter struct {
	Status       Status
	CustomerName string
	Search       string
}

// InvoiceView joins the invoice with display fields from its lead.
type InvoiceView struct {
	Invoice
	CustomerName string `json:"customer_name"`
	ProjectName  string `json:"project_name"`
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []InvoiceView `json:"invoices"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (InvoiceView, error)
	GetByID(ctx context.Context, id snowflake.ID) (InvoiceView, error)
	List(ctx context.Context, filter ListInvoiceFilter, page pagination.Pagination) (ListInvoiceResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateInvoiceRequest) (InvoiceView, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrNotFound         = errors.New("invoice_not_found")
	ErrInvalidInvoiceNo = errors.New("invalid_invoice_no")
	ErrInvalidAmount    = errors.New("invalid_total_amount")
	ErrDuplicateNo      = errors.New("duplicate_invoice_no")
	ErrLeadNotFound     = errors.New("lead_not_found")
)
