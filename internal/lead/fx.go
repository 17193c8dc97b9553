package lead

import (
	"github.com/finbooks/salesdesk/internal/lead/repository"
	"github.com/finbooks/salesdesk/internal/lead/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lead.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
