package invoice

import (
	"github.com/finbooks/salesdesk/internal/invoice/repository"
	"github.com/finbooks/salesdesk/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
