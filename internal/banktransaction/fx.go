package banktransaction

import (
	"github.com/finbooks/salesdesk/internal/banktransaction/repository"
	"github.com/finbooks/salesdesk/internal/banktransaction/service"
	"go.uber.org/fx"
)

var Module = fx.Module("banktransaction.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
