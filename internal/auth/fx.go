package auth

import (
	"github.com/netcharge/netcharge/internal/auth/repository"
	"github.com/netcharge/netcharge/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
