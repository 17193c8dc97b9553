package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/lead/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, lead *domain.Lead) error {
	return db.WithContext(ctx).Create(lead).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Lead, error) {
	var lead domain.Lead
	err := db.WithContext(ctx).First(&lead, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repo) FindByCustomerName(ctx context.Context, db *gorm.DB, customerName string) (*domain.Lead, error) {
	var lead domain.Lead
	err := db.WithContext(ctx).
		Where("customer_name = ?", customerName).
		Order("created_at asc").
		First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListLeadFilter, page pagination.Pagination) ([]*domain.Lead, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Lead{})
	if filter.LeadNo != "" {
		stmt = stmt.Where("lead_no = ?", filter.LeadNo)
	}
	if filter.CustomerName != "" {
		stmt = stmt.Where("customer_name LIKE ?", "%"+filter.CustomerName+"%")
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []*domain.Lead
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&leads).Error
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, lead *domain.Lead) error {
	return db.WithContext(ctx).Save(lead).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Lead{}, "id = ?", id).Error
}
