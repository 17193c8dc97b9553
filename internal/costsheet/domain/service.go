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

// Line-item inputs carry only caller-writable fields; every computed pricing
// field is derived server-side.

type LicenseItemInput struct {
	Name             string
	Type             string
	Rate             decimal.Decimal
	Qty              int
	Period           string
	MarginPercentage decimal.Decimal
}

type ResourceItemInput struct {
	Category         string
	NumResources     int
	NumDays          int
	RatePerDay       decimal.Decimal
	MarginPercentage decimal.Decimal
}

type InfrastructureItemInput struct {
	Name             string
	Qty              int
	Months           int
	RatePerMonth     decimal.Decimal
	MarginPercentage decimal.Decimal
}

type OtherItemInput struct {
	Description      string
	EstimatedCost    decimal.Decimal
	MarginPercentage decimal.Decimal
}

type ItemsInput struct {
	LicenseItems        []LicenseItemInput
	ImplementationItems []ResourceItemInput
	SupportItems        []ResourceItemInput
	InfraItems          []InfrastructureItemInput
	OtherItems          []OtherItemInput
}

type CreateCostSheetRequest struct {
	CostSheetNo   string
	CostSheetDate *time.Time
	LeadID        snowflake.ID
	Items         ItemsInput
}

// UpdateCostSheetRequest replaces whole collections: a nil collection is
// left untouched, a non-nil one is deleted and recreated.
type UpdateCostSheetRequest struct {
	CostSheetDate *time.Time
	Items         UpdateItemsInput
}

type UpdateItemsInput struct {
	LicenseItems        *[]LicenseItemInput
	ImplementationItems *[]ResourceItemInput
	SupportItems        *[]ResourceItemInput
	InfraItems          *[]InfrastructureItemInput
	OtherItems          *[]OtherItemInput
}

type ListCostSheetFilter struct {
	Status       Status
	LeadID       snowflake.ID
	CustomerName string
}

// CostSheetView joins the sheet with display fields from its lead.
type CostSheetView struct {
	CostSheet
	LeadNo         string `json:"lead_no"`
	CustomerName   string `json:"customer_name"`
	ProjectName    string `json:"project_name"`
	ProjectManager string `json:"project_manager"`
	SalesPerson    string `json:"sales_person"`
}

type ListCostSheetResponse struct {
	pagination.PageInfo
	CostSheets []CostSheetView `json:"cost_sheets"`
}

// ExportRequest selects sheets for CSV export, either by explicit range or
// by a named preset.
type ExportRequest struct {
	From   *time.Time
	To     *time.Time
	Preset string
}

// Export presets. The financial year runs April through March.
const (
	PresetLastMonth         = "last_month"
	PresetLast3Months       = "last_3_months"
	PresetLast6Months       = "last_6_months"
	PresetLastYear          = "last_year"
	PresetLastFinancialYear = "last_financial_year"
)

type Service interface {
	Create(ctx context.Context, req CreateCostSheetRequest) (CostSheetView, error)
	GetByID(ctx context.Context, id snowflake.ID) (CostSheetView, error)
	List(ctx context.Context, filter ListCostSheetFilter, page pagination.Pagination) (ListCostSheetResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateCostSheetRequest) (CostSheetView, error)
	Delete(ctx context.Context, id snowflake.ID) error

	Submit(ctx context.Context, id snowflake.ID) (CostSheetView, error)
	Approve(ctx context.Context, id snowflake.ID) (CostSheetView, error)
	Reject(ctx context.Context, id snowflake.ID, comments string) (CostSheetView, error)
	Revert(ctx context.Context, id snowflake.ID, comments string) (CostSheetView, error)

	ExportCSV(ctx context.Context, req ExportRequest, w io.Writer) error

	AddAttachment(ctx context.Context, id snowflake.ID, filename string, content io.Reader) (Attachment, error)
	DeleteAttachment(ctx context.Context, id, attachmentID snowflake.ID) error
}

var (
	ErrNotFound           = errors.New("cost_sheet_not_found")
	ErrLeadNotFound       = errors.New("cost_sheet_lead_not_found")
	ErrInvalidCostSheetNo = errors.New("invalid_cost_sheet_no")
	ErrDuplicateNo        = errors.New("duplicate_cost_sheet_no")
	ErrNotSubmitted       = errors.New("cost_sheet_not_submitted")
	ErrMissingComments    = errors.New("comments_required")
	ErrNotEditable        = errors.New("cost_sheet_not_editable")
	ErrInvalidPreset      = errors.New("invalid_export_preset")
	ErrMissingFile        = errors.New("file_required")
	ErrAttachmentNotFound = errors.New("attachment_not_found")
)
