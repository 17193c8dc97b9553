package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tx *BankTransaction) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BankTransaction, error)
	List(ctx context.Context, db *gorm.DB, filter ListBankTransactionFilter, page pagination.Pagination) ([]*BankTransaction, int64, error)
	Update(ctx context.Context, db *gorm.DB, tx *BankTransaction) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
