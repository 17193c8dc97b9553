// Package domain contains persistence models for sales leads.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Lead is the sales lead referenced by cost sheets, invoices and receipts.
// LeadNo is immutable once assigned.
type Lead struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	LeadNo         string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"lead_no"`
	CustomerName   string       `gorm:"type:varchar(255);not null" json:"customer_name"`
	ProjectName    string       `gorm:"type:varchar(255);not null" json:"project_name"`
	ProjectManager string       `gorm:"type:varchar(255)" json:"project_manager"`
	SalesPerson    string       `gorm:"type:varchar(255)" json:"sales_person"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Lead) TableName() string { return "leads" }
