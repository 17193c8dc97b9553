package costsheet

import (
	"github.com/finbooks/salesdesk/internal/costsheet/repository"
	"github.com/finbooks/salesdesk/internal/costsheet/service"
	"go.uber.org/fx"
)

var Module = fx.Module("costsheet.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
