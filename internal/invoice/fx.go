package invoice

import (
	"github.com/netcharge/netcharge/internal/invoice/repository"
	"github.com/netcharge/netcharge/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
