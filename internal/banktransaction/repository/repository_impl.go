package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/banktransaction/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tx *domain.BankTransaction) error {
	return db.WithContext(ctx).Create(tx).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.BankTransaction, error) {
	var tx domain.BankTransaction
	err := db.WithContext(ctx).First(&tx, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListBankTransactionFilter, page pagination.Pagination) ([]*domain.BankTransaction, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.BankTransaction{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Source != "" {
		stmt = stmt.Where("source = ?", filter.Source)
	}
	if filter.BankConnectionID != 0 {
		stmt = stmt.Where("bank_connection_id = ?", filter.BankConnectionID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		stmt = stmt.Where("description LIKE ? OR customer_name LIKE ?", like, like)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []*domain.BankTransaction
	err := page.Apply(stmt).
		Order("transaction_date desc, id desc").
		Find(&txs).Error
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tx *domain.BankTransaction) error {
	return db.WithContext(ctx).Save(tx).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.BankTransaction{}, "id = ?", id).Error
}
