// Package audit keeps a slim trail of who changed what. Entries are fire
// and forget: a failed write logs a warning instead of failing the request
// that triggered it.
package audit

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Entry struct {
	ID        snowflake.ID      `json:"id" gorm:"primaryKey"`
	Actor     string            `json:"actor" gorm:"size:150;index"`
	Action    string            `json:"action" gorm:"size:100;index"`
	Entity    string            `json:"entity" gorm:"size:100"`
	EntityID  string            `json:"entity_id" gorm:"size:100"`
	Detail    datatypes.JSONMap `json:"detail"`
	CreatedAt time.Time         `json:"created_at"`
}

func (Entry) TableName() string { return "audit_entries" }

type Recorder struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewRecorder(p Params) *Recorder {
	return &Recorder{db: p.DB, log: p.Log.Named("audit"), genID: p.GenID}
}

func (r *Recorder) Record(ctx context.Context, actor, action, entity, entityID string, detail map[string]interface{}) {
	entry := Entry{
		ID:        r.genID.Generate(),
		Actor:     actor,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    datatypes.JSONMap(detail),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		r.log.Warn("audit write failed",
			zap.String("action", action),
			zap.String("entity", entity),
			zap.Error(err))
	}
}

func (r *Recorder) List(ctx context.Context, entity string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	stmt := r.db.WithContext(ctx).Model(&Entry{})
	if entity != "" {
		stmt = stmt.Where("entity = ?", entity)
	}

	var entries []Entry
	err := stmt.Order("created_at desc, id desc").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

var Module = fx.Module("audit",
	fx.Provide(NewRecorder),
)
