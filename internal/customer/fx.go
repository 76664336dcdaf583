package customer

import (
	"github.com/netcharge/netcharge/internal/customer/repository"
	"github.com/netcharge/netcharge/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
