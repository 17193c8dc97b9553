package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/finbooks/salesdesk/internal/clock"
	"github.com/finbooks/salesdesk/internal/config"
	"github.com/finbooks/salesdesk/internal/migration"
	"github.com/finbooks/salesdesk/internal/observability"
	"github.com/finbooks/salesdesk/internal/scheduler"
	"github.com/finbooks/salesdesk/internal/server"
	"github.com/finbooks/salesdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
