package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/costsheet/domain"
	leaddomain "github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sheet *domain.CostSheet) error {
	return db.WithContext(ctx).Omit("LicenseItems", "ImplementationItems", "SupportItems", "InfraItems", "OtherItems", "Attachments").Create(sheet).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.CostSheet, error) {
	var sheet domain.CostSheet
	err := db.WithContext(ctx).
		Preload("LicenseItems").
		Preload("ImplementationItems").
		Preload("SupportItems").
		Preload("InfraItems").
		Preload("OtherItems").
		Preload("Attachments").
		First(&sheet, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCostSheetFilter, page pagination.Pagination) ([]*domain.CostSheet, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.CostSheet{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.LeadID != 0 {
		stmt = stmt.Where("lead_id = ?", filter.LeadID)
	}
	if filter.CustomerName != "" {
		stmt = stmt.Where("lead_id IN (?)",
			db.Model(&leaddomain.Lead{}).Select("id").Where("customer_name = ?", filter.CustomerName))
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sheets []*domain.CostSheet
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&sheets).Error
	if err != nil {
		return nil, 0, err
	}
	return sheets, total, nil
}

func (r *repo) ListBetween(ctx context.Context, db *gorm.DB, from, to *time.Time) ([]*domain.CostSheet, error) {
	stmt := db.WithContext(ctx).Model(&domain.CostSheet{})
	if from != nil {
		stmt = stmt.Where("cost_sheet_date >= ?", *from)
	}
	if to != nil {
		stmt = stmt.Where("cost_sheet_date <= ?", *to)
	}

	var sheets []*domain.CostSheet
	err := stmt.Order("cost_sheet_date asc, id asc").Find(&sheets).Error
	if err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, sheet *domain.CostSheet) error {
	return db.WithContext(ctx).
		Omit("LicenseItems", "ImplementationItems", "SupportItems", "InfraItems", "OtherItems", "Attachments").
		Save(sheet).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.CostSheet{}, "id = ?", id).Error
}

func (r *repo) ReplaceLicenseItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []domain.LicenseItem) error {
	if err := db.WithContext(ctx).Delete(&domain.LicenseItem{}, "cost_sheet_id = ?", sheetID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) ReplaceImplementationItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []domain.ServiceImplementationItem) error {
	if err := db.WithContext(ctx).Delete(&domain.ServiceImplementationItem{}, "cost_sheet_id = ?", sheetID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) ReplaceSupportItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []domain.ServiceSupportItem) error {
	if err := db.WithContext(ctx).Delete(&domain.ServiceSupportItem{}, "cost_sheet_id = ?", sheetID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) ReplaceInfraItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []domain.InfrastructureItem) error {
	if err := db.WithContext(ctx).Delete(&domain.InfrastructureItem{}, "cost_sheet_id = ?", sheetID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) ReplaceOtherItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []domain.OtherItem) error {
	if err := db.WithContext(ctx).Delete(&domain.OtherItem{}, "cost_sheet_id = ?", sheetID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) InsertAttachment(ctx context.Context, db *gorm.DB, att *domain.Attachment) error {
	return db.WithContext(ctx).Create(att).Error
}

func (r *repo) FindAttachment(ctx context.Context, db *gorm.DB, sheetID, attachmentID snowflake.ID) (*domain.Attachment, error) {
	var att domain.Attachment
	err := db.WithContext(ctx).
		First(&att, "id = ? AND cost_sheet_id = ?", attachmentID, sheetID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *repo) DeleteAttachment(ctx context.Context, db *gorm.DB, attachmentID snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Attachment{}, "id = ?", attachmentID).Error
}
