package reconciliation

import (
	"github.com/finbooks/salesdesk/internal/reconciliation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reconciliation.service",
	fx.Provide(service.New),
)
