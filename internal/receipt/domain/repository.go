package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, voucher *ReceiptVoucher) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*ReceiptVoucher, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]*ReceiptVoucher, error)
	FindLatest(ctx context.Context, db *gorm.DB) (*ReceiptVoucher, error)
	List(ctx context.Context, db *gorm.DB, filter ListReceiptVoucherFilter, page pagination.Pagination) ([]*ReceiptVoucher, int64, error)
	Update(ctx context.Context, db *gorm.DB, voucher *ReceiptVoucher) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertAdjustment(ctx context.Context, db *gorm.DB, adj *ReceiptAdjustment) error

	InsertAttachment(ctx context.Context, db *gorm.DB, att *ReceiptAttachment) error
	FindAttachment(ctx context.Context, db *gorm.DB, voucherID, attachmentID snowflake.ID) (*ReceiptAttachment, error)
	DeleteAttachment(ctx context.Context, db *gorm.DB, attachmentID snowflake.ID) error
}
