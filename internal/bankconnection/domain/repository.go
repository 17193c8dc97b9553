package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, conn *BankConnection) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BankConnection, error)
	FindFirstActive(ctx context.Context, db *gorm.DB) (*BankConnection, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]*BankConnection, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*BankConnection, int64, error)
	Update(ctx context.Context, db *gorm.DB, conn *BankConnection) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
