package analytics

import (
	"github.com/netcharge/netcharge/internal/analytics/repository"
	"github.com/netcharge/netcharge/internal/analytics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
