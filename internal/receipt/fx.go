package receipt

import (
	"github.com/finbooks/salesdesk/internal/receipt/repository"
	"github.com/finbooks/salesdesk/internal/receipt/service"
	"go.uber.org/fx"
)

var Module = fx.Module("receipt.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
