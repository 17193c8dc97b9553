package auth

import (
	"github.com/finbooks/salesdesk/internal/auth/repository"
	"github.com/finbooks/salesdesk/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
