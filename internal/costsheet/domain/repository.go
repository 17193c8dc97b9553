package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sheet *CostSheet) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CostSheet, error)
	List(ctx context.Context, db *gorm.DB, filter ListCostSheetFilter, page pagination.Pagination) ([]*CostSheet, int64, error)
	ListBetween(ctx context.Context, db *gorm.DB, from, to *time.Time) ([]*CostSheet, error)
	Update(ctx context.Context, db *gorm.DB, sheet *CostSheet) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	// ReplaceLicenseItems and friends implement wholesale child
	// replacement: delete every row under the sheet, then insert the new
	// collection.
	ReplaceLicenseItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []LicenseItem) error
	ReplaceImplementationItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []ServiceImplementationItem) error
	ReplaceSupportItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []ServiceSupportItem) error
	ReplaceInfraItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []InfrastructureItem) error
	ReplaceOtherItems(ctx context.Context, db *gorm.DB, sheetID snowflake.ID, items []OtherItem) error

	InsertAttachment(ctx context.Context, db *gorm.DB, att *Attachment) error
	FindAttachment(ctx context.Context, db *gorm.DB, sheetID, attachmentID snowflake.ID) (*Attachment, error)
	DeleteAttachment(ctx context.Context, db *gorm.DB, attachmentID snowflake.ID) error
}
