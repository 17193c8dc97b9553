package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/receipt/domain"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, voucher *domain.ReceiptVoucher) error {
	return db.WithContext(ctx).Omit("Adjustments", "Attachments").Create(voucher).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.ReceiptVoucher, error) {
	var voucher domain.ReceiptVoucher
	err := db.WithContext(ctx).
		Preload("Adjustments").
		Preload("Attachments").
		First(&voucher, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*domain.ReceiptVoucher, error) {
	var vouchers []*domain.ReceiptVoucher
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&vouchers).Error
	if err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (r *repo) FindLatest(ctx context.Context, db *gorm.DB) (*domain.ReceiptVoucher, error) {
	var voucher domain.ReceiptVoucher
	err := db.WithContext(ctx).
		Order("created_at desc, id desc").
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListReceiptVoucherFilter, page pagination.Pagination) ([]*domain.ReceiptVoucher, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.ReceiptVoucher{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Unreconciled {
		stmt = stmt.Where("status = ?", domain.StatusUnreconciled)
	}
	if filter.CustomerName != "" {
		stmt = stmt.Where("customer_name = ?", filter.CustomerName)
	}

	var total int64
	if err := stmt.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vouchers []*domain.ReceiptVoucher
	err := page.Apply(stmt).
		Preload("Adjustments").
		Order("created_at desc, id desc").
		Find(&vouchers).Error
	if err != nil {
		return nil, 0, err
	}
	return vouchers, total, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, voucher *domain.ReceiptVoucher) error {
	return db.WithContext(ctx).Omit("Adjustments", "Attachments").Save(voucher).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.ReceiptVoucher{}, "id = ?", id).Error
}

func (r *repo) InsertAdjustment(ctx context.Context, db *gorm.DB, adj *domain.ReceiptAdjustment) error {
	return db.WithContext(ctx).Create(adj).Error
}

func (r *repo) InsertAttachment(ctx context.Context, db *gorm.DB, att *domain.ReceiptAttachment) error {
	return db.WithContext(ctx).Create(att).Error
}

func (r *repo) FindAttachment(ctx context.Context, db *gorm.DB, voucherID, attachmentID snowflake.ID) (*domain.ReceiptAttachment, error) {
	var att domain.ReceiptAttachment
	err := db.WithContext(ctx).
		First(&att, "id = ? AND receipt_voucher_id = ?", attachmentID, voucherID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &att, nil
}

func (r *repo) DeleteAttachment(ctx context.Context, db *gorm.DB, attachmentID snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.ReceiptAttachment{}, "id = ?", attachmentID).Error
}
