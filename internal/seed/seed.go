// Package seed bootstraps a fresh database with the groups, the default
// admin account and a handful of demo records.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/finbooks/salesdesk/internal/auth/domain"
	bankconndomain "github.com/finbooks/salesdesk/internal/bankconnection/domain"
	costsheetdomain "github.com/finbooks/salesdesk/internal/costsheet/domain"
	"github.com/finbooks/salesdesk/internal/costsheet/pricing"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
	defaultAdminEmail    = "admin@salesdesk.local"
)

// EnsureBootstrapData seeds groups, the default admin and demo records.
// Every step is idempotent; existing rows are left alone.
func EnsureBootstrapData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureGroups(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureAdmin(ctx, tx, node); err != nil {
			return err
		}
		leads, err := ensureDemoLeads(ctx, tx, node)
		if err != nil {
			return err
		}
		if err := ensureDemoCostSheet(ctx, tx, node, leads); err != nil {
			return err
		}
		return ensureDemoBankConnection(ctx, tx, node)
	})
}

func ensureGroups(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	for _, name := range []string{authdomain.GroupAppAdmin, authdomain.GroupAppUser} {
		var group authdomain.Group
		err := tx.WithContext(ctx).Where("name = ?", name).First(&group).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		group = authdomain.Group{ID: node.Generate(), Name: name}
		if err := tx.WithContext(ctx).Create(&group).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureAdmin(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var user authdomain.User
	err := tx.WithContext(ctx).Where("username = ?", defaultAdminUsername).First(&user).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user = authdomain.User{
		ID:           node.Generate(),
		Username:     defaultAdminUsername,
		Email:        defaultAdminEmail,
		PasswordHash: string(hashed),
		IsSuperuser:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}

	var adminGroup authdomain.Group
	if err := tx.WithContext(ctx).Where("name = ?", authdomain.GroupAppAdmin).First(&adminGroup).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(&user).Association("Groups").Append(&adminGroup)
}

func ensureDemoLeads(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (map[string]leaddomain.Lead, error) {
	demo := []leaddomain.Lead{
		{LeadNo: "LEAD-001", CustomerName: "Acme Corporation", ProjectName: "ERP Rollout", ProjectManager: "Priya Sharma", SalesPerson: "Rahul Mehta"},
		{LeadNo: "LEAD-002", CustomerName: "Globex Industries", ProjectName: "Warehouse Automation", ProjectManager: "Anil Kumar", SalesPerson: "Sneha Patel"},
		{LeadNo: "LEAD-003", CustomerName: "Initech Solutions", ProjectName: "Cloud Migration", ProjectManager: "Ravi Iyer", SalesPerson: "Rahul Mehta"},
	}

	out := make(map[string]leaddomain.Lead, len(demo))
	for _, lead := range demo {
		var existing leaddomain.Lead
		err := tx.WithContext(ctx).Where("lead_no = ?", lead.LeadNo).First(&existing).Error
		if err == nil {
			out[existing.LeadNo] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		now := time.Now().UTC()
		lead.ID = node.Generate()
		lead.CreatedAt = now
		lead.UpdatedAt = now
		if err := tx.WithContext(ctx).Create(&lead).Error; err != nil {
			return nil, err
		}
		out[lead.LeadNo] = lead
	}
	return out, nil
}

func ensureDemoCostSheet(ctx context.Context, tx *gorm.DB, node *snowflake.Node, leads map[string]leaddomain.Lead) error {
	lead, ok := leads["LEAD-001"]
	if !ok {
		return nil
	}

	var existing costsheetdomain.CostSheet
	err := tx.WithContext(ctx).Where("cost_sheet_no = ?", "CS-001").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	rate := decimal.NewFromInt(1200)
	margin := decimal.NewFromInt(20)
	item := pricing.License(rate, 10, margin)

	now := time.Now().UTC()
	date := now.Truncate(24 * time.Hour)
	sheet := costsheetdomain.CostSheet{
		ID:                   node.Generate(),
		CostSheetNo:          "CS-001",
		CostSheetDate:        &date,
		LeadID:               lead.ID,
		Status:               costsheetdomain.StatusPending,
		TotalEstimatedCost:   item.Cost,
		TotalEstimatedMargin: item.MarginAmount,
		TotalEstimatedPrice:  item.Price,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := tx.WithContext(ctx).Create(&sheet).Error; err != nil {
		return err
	}

	license := costsheetdomain.LicenseItem{
		ID:                    node.Generate(),
		CostSheetID:           sheet.ID,
		Name:                  "ERP Base License",
		Type:                  "Perpetual",
		Rate:                  rate,
		Qty:                   10,
		Period:                "Annual",
		MarginPercentage:      margin,
		EstimatedCost:         item.Cost,
		EstimatedMarginAmount: item.MarginAmount,
		EstimatedPrice:        item.Price,
	}
	return tx.WithContext(ctx).Create(&license).Error
}

func ensureDemoBankConnection(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var existing bankconndomain.BankConnection
	err := tx.WithContext(ctx).Where("bank_name = ?", "ICICI Bank").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	conn := bankconndomain.BankConnection{
		ID:            node.Generate(),
		BankName:      "ICICI Bank",
		AccountNumber: "000405001234",
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return tx.WithContext(ctx).Create(&conn).Error
}
