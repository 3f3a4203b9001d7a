package data

import (
	"context"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	def "github.com/VinothKuppanna/pigeon-maps/pkg/domain/definition"
)

type searchGateway struct {
	places PlacesService
	routes RouteService
}

func (g *searchGateway) Autocomplete(ctx context.Context, query string) ([]model.AutocompleteSuggestion, error) {
	suggestions, err := g.places.Autocomplete(ctx, query)
	if err != nil {
		return nil, def.AutocompleteFailed(err)
	}
	return suggestions, nil
}

func (g *searchGateway) ResolveDetails(ctx context.Context, placeID string) (*model.ResolvedAddress, error) {
	address, err := g.places.Details(ctx, placeID)
	if err != nil {
		return nil, def.LookupFailed(err)
	}
	return address, nil
}

func (g *searchGateway) ComputeRoute(ctx context.Context, origin, destination model.Coordinate) (*model.RouteInfo, error) {
	route, err := g.routes.Route(ctx, origin, destination)
	if err != nil {
		return nil, def.RouteRequestFailed(err)
	}
	return route, nil
}

func NewSearchGateway(places PlacesService, routes RouteService) def.SearchGateway {
	return &searchGateway{places: places, routes: routes}
}
