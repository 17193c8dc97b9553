// Package domain contains persistence models for cost sheets and their
// line-item collections.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Status represents the approval lifecycle of a cost sheet.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSubmitted Status = "SUBMITTED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusReverted  Status = "REVERTED"
)

// Editable reports whether full-content edits are allowed in this status.
func (s Status) Editable() bool {
	return s == StatusPending || s == StatusReverted
}

// Terminal reports whether no further transitions exist.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CostSheet is the quotation aggregate. Totals are a pure sum over all five
// line-item collections and are only written by the rollup; callers never
// mutate them directly.
type CostSheet struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	CostSheetNo   string       `gorm:"type:varchar(100);not null;uniqueIndex" json:"cost_sheet_no"`
	CostSheetDate *time.Time   `gorm:"type:date" json:"cost_sheet_date"`
	LeadID        snowflake.ID `gorm:"not null;index" json:"lead_id"`
	Status        Status       `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`

	// ApprovalComments holds rejection text; RevertComments holds revert
	// text. The two are tracked separately.
	ApprovalComments string `gorm:"type:text" json:"approval_comments"`
	RevertComments   string `gorm:"type:text" json:"revert_comments"`

	TotalEstimatedCost   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_estimated_cost"`
	TotalEstimatedMargin decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_estimated_margin"`
	TotalEstimatedPrice  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_estimated_price"`

	LicenseItems        []LicenseItem               `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE" json:"license_items"`
	ImplementationItems []ServiceImplementationItem `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE" json:"implementation_items"`
	SupportItems        []ServiceSupportItem        `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE" json:"support_items"`
	InfraItems          []InfrastructureItem        `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE" json:"infra_items"`
	OtherItems          []OtherItem                 `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE" json:"other_items"`
	Attachments         []Attachment                `gorm:"foreignKey:CostSheetID;constraint:OnDelete:CASCADE" json:"attachments"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CostSheet) TableName() string { return "cost_sheets" }

// LicenseItem prices licenses as rate times quantity.
type LicenseItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CostSheetID snowflake.ID `gorm:"not null;index" json:"cost_sheet_id"`
	Name        string       `gorm:"type:varchar(255)" json:"name"`
	Type        string       `gorm:"type:varchar(100)" json:"type"`

	Rate   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"rate"`
	Qty    int             `gorm:"not null;default:1" json:"qty"`
	Period string          `gorm:"type:varchar(100)" json:"period"`

	MarginPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"margin_percentage"`

	EstimatedCost         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_cost"`
	EstimatedMarginAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_margin_amount"`
	EstimatedPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_price"`
}

// TableName sets the database table name.
func (LicenseItem) TableName() string { return "cost_sheet_license_items" }

// ServiceImplementationItem prices implementation effort by resource-days.
type ServiceImplementationItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CostSheetID snowflake.ID `gorm:"not null;index" json:"cost_sheet_id"`
	Category    string       `gorm:"type:varchar(255)" json:"category"`

	NumResources int             `gorm:"not null;default:1" json:"num_resources"`
	NumDays      int             `gorm:"not null;default:1" json:"num_days"`
	RatePerDay   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"rate_per_day"`

	MarginPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"margin_percentage"`

	TotalDays             int             `gorm:"not null;default:0" json:"total_days"`
	EstimatedCost         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_cost"`
	EstimatedMarginAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_margin_amount"`
	EstimatedPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_price"`
}

// TableName sets the database table name.
func (ServiceImplementationItem) TableName() string { return "cost_sheet_implementation_items" }

// ServiceSupportItem prices support effort by resource-days.
type ServiceSupportItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CostSheetID snowflake.ID `gorm:"not null;index" json:"cost_sheet_id"`
	Category    string       `gorm:"type:varchar(255)" json:"category"`

	NumResources int             `gorm:"not null;default:1" json:"num_resources"`
	NumDays      int             `gorm:"not null;default:1" json:"num_days"`
	RatePerDay   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"rate_per_day"`

	MarginPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"margin_percentage"`

	TotalDays             int             `gorm:"not null;default:0" json:"total_days"`
	EstimatedCost         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_cost"`
	EstimatedMarginAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_margin_amount"`
	EstimatedPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_price"`
}

// TableName sets the database table name.
func (ServiceSupportItem) TableName() string { return "cost_sheet_support_items" }

// InfrastructureItem prices infrastructure by quantity, monthly rate and term.
type InfrastructureItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CostSheetID snowflake.ID `gorm:"not null;index" json:"cost_sheet_id"`
	Name        string       `gorm:"type:varchar(255)" json:"name"`

	Qty          int             `gorm:"not null;default:1" json:"qty"`
	Months       int             `gorm:"not null;default:1" json:"months"`
	RatePerMonth decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"rate_per_month"`

	MarginPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"margin_percentage"`

	EstimatedCost         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_cost"`
	EstimatedMarginAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_margin_amount"`
	EstimatedPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_price"`
}

// TableName sets the database table name.
func (InfrastructureItem) TableName() string { return "cost_sheet_infra_items" }

// OtherItem has no quantity basis; cost is entered directly.
type OtherItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CostSheetID snowflake.ID `gorm:"not null;index" json:"cost_sheet_id"`
	Description string       `gorm:"type:varchar(500)" json:"description"`

	MarginPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"margin_percentage"`

	EstimatedCost         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_cost"`
	EstimatedMarginAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_margin_amount"`
	EstimatedPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"estimated_price"`
}

// TableName sets the database table name.
func (OtherItem) TableName() string { return "cost_sheet_other_items" }

// Attachment is an uploaded file owned by a cost sheet.
type Attachment struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CostSheetID snowflake.ID `gorm:"not null;index" json:"cost_sheet_id"`
	Path        string       `gorm:"type:varchar(500);not null" json:"-"`
	Filename    string       `gorm:"type:varchar(255);not null" json:"filename"`
	UploadedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"uploaded_at"`
}

// TableName sets the database table name.
func (Attachment) TableName() string { return "cost_sheet_attachments" }
