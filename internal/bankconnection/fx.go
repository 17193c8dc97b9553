package bankconnection

import (
	"github.com/finbooks/salesdesk/internal/bankconnection/repository"
	"github.com/finbooks/salesdesk/internal/bankconnection/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bankconnection.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
