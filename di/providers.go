package di

import (
	"net/http"

	"github.com/VinothKuppanna/pigeon-maps/configs"
	"github.com/VinothKuppanna/pigeon-maps/internal/cache"
	"github.com/VinothKuppanna/pigeon-maps/internal/endpoints/sessions"
	"github.com/VinothKuppanna/pigeon-maps/pkg/data"
	"github.com/VinothKuppanna/pigeon-maps/pkg/domain"
	def "github.com/VinothKuppanna/pigeon-maps/pkg/domain/definition"
	"github.com/go-kit/log"
	"googlemaps.github.io/maps"
)

// Application is everything the server needs to mount its routes.
type Application struct {
	Sessions *sessions.Handler
	Store    *sessions.Store
	Stats    *data.GatewayStats
}

func ProvideMapsClient(config configs.Places) (*maps.Client, error) {
	return data.NewMapsClient(data.MapsClientOptions{
		APIKey:    config.APIKey,
		BaseURL:   config.BaseURL,
		RateLimit: config.RateLimit,
	})
}

func ProvideRouteService(config configs.Routes, client *maps.Client, logger log.Logger) (data.RouteService, error) {
	if config.Provider == configs.RoutesProviderDirections {
		return data.NewDirectionsService(client), nil
	}
	return data.NewRoutesAPIService(data.RoutesAPIOptions{
		URL:               config.URL,
		APIKey:            config.APIKey,
		FieldMask:         config.FieldMask,
		TravelMode:        config.TravelMode,
		RoutingPreference: config.RoutingPreference,
		Units:             config.Units,
		Timeout:           config.Timeout,
	}, http.DefaultClient, logger)
}

// ProvideSearchGateway stacks cache over logging over the remote services, so
// cache hits are neither logged nor counted.
func ProvideSearchGateway(
	places data.PlacesService,
	routes data.RouteService,
	gatewayCache *cache.GatewayCache,
	config configs.Cache,
	logger log.Logger,
	publisher data.Publisher,
	stats *data.GatewayStats,
) def.SearchGateway {
	gateway := data.NewSearchGateway(places, routes)
	gateway = data.NewGatewayLoggingMiddleware(logger, publisher, stats)(gateway)
	return data.NewCachingGateway(gateway, gatewayCache.Cache, data.CacheTTL{
		Autocomplete: config.Autocomplete,
		Details:      config.Details,
		Route:        config.Route,
	})
}

func ProvideCoordinatorFactory(gateway def.SearchGateway, config configs.Search, logger log.Logger) sessions.CoordinatorFactory {
	return func() *domain.SearchCoordinator {
		return domain.NewSearchCoordinator(gateway,
			domain.WithLogger(logger),
			domain.WithQuietPeriod(config.QuietPeriod),
			domain.WithMinQueryLength(config.MinQueryLength),
			domain.WithSelectionZoom(config.SelectionZoom),
		)
	}
}
