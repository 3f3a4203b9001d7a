package domain

import (
	"context"
	"sync"
	"time"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/jonboulle/clockwork"
)

type autocompleteCall struct {
	query string
	at    time.Time
}

type routeCall struct {
	origin, destination model.Coordinate
}

// fakeGateway records calls and answers from per-test hooks. Hooks run on
// the coordinator's worker goroutines and must honour ctx when they block.
type fakeGateway struct {
	clock clockwork.Clock

	autocomplete func(ctx context.Context, query string) ([]model.AutocompleteSuggestion, error)
	details      func(ctx context.Context, placeID string) (*model.ResolvedAddress, error)
	route        func(ctx context.Context, origin, destination model.Coordinate) (*model.RouteInfo, error)

	mu                sync.Mutex
	autocompleteCalls []autocompleteCall
	detailCalls       []string
	routeCalls        []routeCall
}

func newFakeGateway(clock clockwork.Clock) *fakeGateway {
	return &fakeGateway{clock: clock}
}

func (g *fakeGateway) Autocomplete(ctx context.Context, query string) ([]model.AutocompleteSuggestion, error) {
	g.mu.Lock()
	g.autocompleteCalls = append(g.autocompleteCalls, autocompleteCall{query: query, at: g.clock.Now()})
	hook := g.autocomplete
	g.mu.Unlock()
	if hook == nil {
		return []model.AutocompleteSuggestion{{Label: query + " result", PlaceID: "id:" + query}}, nil
	}
	return hook(ctx, query)
}

func (g *fakeGateway) ResolveDetails(ctx context.Context, placeID string) (*model.ResolvedAddress, error) {
	g.mu.Lock()
	g.detailCalls = append(g.detailCalls, placeID)
	hook := g.details
	g.mu.Unlock()
	if hook == nil {
		return addressFor(placeID), nil
	}
	return hook(ctx, placeID)
}

func (g *fakeGateway) ComputeRoute(ctx context.Context, origin, destination model.Coordinate) (*model.RouteInfo, error) {
	g.mu.Lock()
	g.routeCalls = append(g.routeCalls, routeCall{origin, destination})
	hook := g.route
	g.mu.Unlock()
	if hook == nil {
		return &model.RouteInfo{DistanceMeters: 1200, DurationSeconds: 300, EncodedPolyline: "_p~iF~ps|U_ulLnnqC"}, nil
	}
	return hook(ctx, origin, destination)
}

func (g *fakeGateway) setAutocomplete(hook func(ctx context.Context, query string) ([]model.AutocompleteSuggestion, error)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.autocomplete = hook
}

func (g *fakeGateway) setDetails(hook func(ctx context.Context, placeID string) (*model.ResolvedAddress, error)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.details = hook
}

func (g *fakeGateway) setRoute(hook func(ctx context.Context, origin, destination model.Coordinate) (*model.RouteInfo, error)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.route = hook
}

func (g *fakeGateway) autocompletes() []autocompleteCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]autocompleteCall(nil), g.autocompleteCalls...)
}

func (g *fakeGateway) routes() []routeCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]routeCall(nil), g.routeCalls...)
}

func (g *fakeGateway) lookups() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.detailCalls...)
}

var places = map[string]model.ResolvedAddress{
	"home": {Name: "Home", FormattedAddress: "1 Main St", Location: model.Coordinate{Latitude: 38.5, Longitude: -120.2}},
	"work": {Name: "Work", FormattedAddress: "99 Market St", Location: model.Coordinate{Latitude: 40.7, Longitude: -120.95}},
	"park": {Name: "Park", FormattedAddress: "5 Elm Rd", Location: model.Coordinate{Latitude: 43.252, Longitude: -126.453}},
}

func addressFor(placeID string) *model.ResolvedAddress {
	if a, ok := places[placeID]; ok {
		return &a
	}
	return &model.ResolvedAddress{Name: placeID, FormattedAddress: placeID + " St"}
}
