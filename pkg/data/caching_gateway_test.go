package data

import (
	"context"
	"testing"
	"time"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	err         error
	route       *model.RouteInfo
	calls       map[string]int
	lastQueried string
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		calls: map[string]int{},
		route: &model.RouteInfo{DistanceMeters: 100, DurationSeconds: 60, EncodedPolyline: "??"},
	}
}

func (s *stubGateway) Autocomplete(_ context.Context, query string) ([]model.AutocompleteSuggestion, error) {
	s.calls["autocomplete"]++
	s.lastQueried = query
	if s.err != nil {
		return nil, s.err
	}
	return []model.AutocompleteSuggestion{{Label: query, PlaceID: "p:" + query}}, nil
}

func (s *stubGateway) ResolveDetails(_ context.Context, placeID string) (*model.ResolvedAddress, error) {
	s.calls["details"]++
	if s.err != nil {
		return nil, s.err
	}
	return &model.ResolvedAddress{Name: placeID, FormattedAddress: "somewhere"}, nil
}

func (s *stubGateway) ComputeRoute(_ context.Context, _, _ model.Coordinate) (*model.RouteInfo, error) {
	s.calls["route"]++
	if s.err != nil {
		return nil, s.err
	}
	return s.route, nil
}

func newTestCachingGateway(stub *stubGateway) *cachingGateway {
	ttl := CacheTTL{Autocomplete: time.Minute, Details: time.Hour, Route: time.Minute}
	return NewCachingGateway(stub, cache.New(time.Hour, time.Hour), ttl).(*cachingGateway)
}

func TestCachingGatewayAutocomplete(t *testing.T) {
	stub := newStubGateway()
	gateway := newTestCachingGateway(stub)
	ctx := context.Background()

	first, err := gateway.Autocomplete(ctx, "Main St")
	require.NoError(t, err)
	first[0].Label = "mutated"

	second, err := gateway.Autocomplete(ctx, "  main st ")
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls["autocomplete"])
	assert.Equal(t, "Main St", second[0].Label)

	_, err = gateway.Autocomplete(ctx, "main street")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls["autocomplete"])
}

func TestCachingGatewayDetails(t *testing.T) {
	stub := newStubGateway()
	gateway := newTestCachingGateway(stub)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		address, err := gateway.ResolveDetails(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", address.Name)
	}
	assert.Equal(t, 1, stub.calls["details"])
}

func TestCachingGatewayRoutesByGeohash(t *testing.T) {
	stub := newStubGateway()
	gateway := newTestCachingGateway(stub)
	ctx := context.Background()

	_, err := gateway.ComputeRoute(ctx, testOrigin, testDestination)
	require.NoError(t, err)

	// a few centimetres away shares the geohash cell
	nudged := model.Coordinate{Latitude: testOrigin.Latitude + 1e-7, Longitude: testOrigin.Longitude}
	route, err := gateway.ComputeRoute(ctx, nudged, testDestination)
	require.NoError(t, err)
	assert.Equal(t, stub.route, route)
	assert.Equal(t, 1, stub.calls["route"])

	_, err = gateway.ComputeRoute(ctx, testDestination, testOrigin)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls["route"], "reversed direction is a different route")
}

func TestCachingGatewayNeverCachesFailures(t *testing.T) {
	stub := newStubGateway()
	gateway := newTestCachingGateway(stub)
	ctx := context.Background()

	stub.err = errors.New("unavailable")
	_, err := gateway.ResolveDetails(ctx, "p1")
	assert.Error(t, err)
	_, err = gateway.ComputeRoute(ctx, testOrigin, testDestination)
	assert.Error(t, err)

	stub.err = nil
	stub.route = nil
	route, err := gateway.ComputeRoute(ctx, testOrigin, testDestination)
	require.NoError(t, err)
	assert.Nil(t, route)

	stub.route = &model.RouteInfo{DistanceMeters: 1}
	route, err = gateway.ComputeRoute(ctx, testOrigin, testDestination)
	require.NoError(t, err)
	assert.Equal(t, 1, route.DistanceMeters)

	_, err = gateway.ResolveDetails(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.calls["details"])
	assert.Equal(t, 3, stub.calls["route"])
}
