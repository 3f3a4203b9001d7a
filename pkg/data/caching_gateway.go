package data

import (
	"context"
	"strings"
	"time"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	def "github.com/VinothKuppanna/pigeon-maps/pkg/domain/definition"
	"github.com/mmcloughlin/geohash"
	"github.com/patrickmn/go-cache"
)

// routeKeyPrecision is about 5m by 5m, well inside a map pin.
const routeKeyPrecision = 9

type CacheTTL struct {
	Autocomplete time.Duration
	Details      time.Duration
	Route        time.Duration
}

type cachingGateway struct {
	def.SearchGateway
	cache *cache.Cache
	ttl   CacheTTL
}

func (g *cachingGateway) Autocomplete(ctx context.Context, query string) ([]model.AutocompleteSuggestion, error) {
	key := "autocomplete:" + strings.ToLower(strings.TrimSpace(query))
	if value, ok := g.cache.Get(key); ok {
		return append([]model.AutocompleteSuggestion(nil), value.([]model.AutocompleteSuggestion)...), nil
	}
	suggestions, err := g.SearchGateway.Autocomplete(ctx, query)
	if err != nil {
		return nil, err
	}
	g.cache.Set(key, append([]model.AutocompleteSuggestion(nil), suggestions...), g.ttl.Autocomplete)
	return suggestions, nil
}

func (g *cachingGateway) ResolveDetails(ctx context.Context, placeID string) (*model.ResolvedAddress, error) {
	key := "details:" + placeID
	if value, ok := g.cache.Get(key); ok {
		address := value.(model.ResolvedAddress)
		return &address, nil
	}
	address, err := g.SearchGateway.ResolveDetails(ctx, placeID)
	if err != nil || address == nil {
		return address, err
	}
	g.cache.Set(key, *address, g.ttl.Details)
	return address, nil
}

func (g *cachingGateway) ComputeRoute(ctx context.Context, origin, destination model.Coordinate) (*model.RouteInfo, error) {
	key := routeKey(origin, destination)
	if value, ok := g.cache.Get(key); ok {
		route := value.(model.RouteInfo)
		return &route, nil
	}
	route, err := g.SearchGateway.ComputeRoute(ctx, origin, destination)
	if err != nil || route == nil {
		return route, err
	}
	g.cache.Set(key, *route, g.ttl.Route)
	return route, nil
}

func routeKey(origin, destination model.Coordinate) string {
	return "route:" +
		geohash.EncodeWithPrecision(origin.Latitude, origin.Longitude, routeKeyPrecision) + "|" +
		geohash.EncodeWithPrecision(destination.Latitude, destination.Longitude, routeKeyPrecision)
}

// NewCachingGateway memoises successful answers. Failures and missing routes
// always go back to the wrapped gateway.
func NewCachingGateway(gateway def.SearchGateway, c *cache.Cache, ttl CacheTTL) def.SearchGateway {
	return &cachingGateway{SearchGateway: gateway, cache: c, ttl: ttl}
}
