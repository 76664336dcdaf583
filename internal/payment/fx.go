package payment

import (
	"github.com/netcharge/netcharge/internal/payment/repository"
	"github.com/netcharge/netcharge/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
