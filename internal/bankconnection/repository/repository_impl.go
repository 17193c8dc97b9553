package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/bankconnection/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, conn *domain.BankConnection) error {
	return db.WithContext(ctx).Create(conn).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.BankConnection, error) {
	var conn domain.BankConnection
	err := db.WithContext(ctx).First(&conn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *repo) FindFirstActive(ctx context.Context, db *gorm.DB) (*domain.BankConnection, error) {
	var conn domain.BankConnection
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at asc, id asc").
		First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB) ([]*domain.BankConnection, error) {
	var conns []*domain.BankConnection
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at asc, id asc").
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*domain.BankConnection, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.BankConnection{})

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var conns []*domain.BankConnection
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&conns).Error
	if err != nil {
		return nil, 0, err
	}
	return conns, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, conn *domain.BankConnection) error {
	return db.WithContext(ctx).Save(conn).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.BankConnection{}, "id = ?", id).Error
}
