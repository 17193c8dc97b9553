package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, lead *Lead) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Lead, error)
	FindByCustomerName(ctx context.Context, db *gorm.DB, customerName string) (*Lead, error)
	List(ctx context.Context, db *gorm.DB, filter ListLeadFilter, page pagination.Pagination) ([]*Lead, int64, error)
	Update(ctx context.Context, db *gorm.DB, lead *Lead) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
