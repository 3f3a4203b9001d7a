//go:build wireinject
// +build wireinject

package di

import (
	"github.com/VinothKuppanna/pigeon-maps/configs"
	"github.com/VinothKuppanna/pigeon-maps/internal/cache"
	"github.com/VinothKuppanna/pigeon-maps/internal/endpoints/sessions"
	"github.com/VinothKuppanna/pigeon-maps/pkg/data"
	"github.com/go-kit/log"
	"github.com/google/wire"
)

func InitApplication(config *configs.Config, logger log.Logger, publisher data.Publisher) (*Application, error) {
	wire.Build(
		wire.FieldsOf(new(*configs.Config), "Places", "Routes", "Search", "Cache", "Sessions"),
		ProvideMapsClient,
		data.NewPlacesService,
		ProvideRouteService,
		data.NewGatewayStats,
		cache.NewGatewayCache,
		cache.NewSessionCache,
		ProvideSearchGateway,
		ProvideCoordinatorFactory,
		sessions.NewStore,
		sessions.NewHandler,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
