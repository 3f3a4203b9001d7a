package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	def "github.com/VinothKuppanna/pigeon-maps/pkg/domain/definition"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testOrigin      = model.Coordinate{Latitude: 38.5, Longitude: -120.2}
	testDestination = model.Coordinate{Latitude: 40.7, Longitude: -120.95}
)

func newTestRoutesService(t *testing.T, url string) RouteService {
	service, err := NewRoutesAPIService(RoutesAPIOptions{URL: url, APIKey: testAPIKey}, nil, nil)
	require.NoError(t, err)
	return service
}

func TestRoutesAPIRequest(t *testing.T) {
	server := newMapsServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, testAPIKey, r.Header.Get("X-Goog-Api-Key"))
		assert.Equal(t, DefaultRoutesFieldMask, r.Header.Get("X-Goog-FieldMask"))
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "DRIVE", body["travelMode"])
		assert.Equal(t, "TRAFFIC_AWARE", body["routingPreference"])
		assert.Equal(t, "METRIC", body["units"])
		origin := body["origin"].(map[string]interface{})["location"].(map[string]interface{})["latLng"].(map[string]interface{})
		assert.Equal(t, 38.5, origin["latitude"])
		assert.Equal(t, -120.2, origin["longitude"])

		fmt.Fprint(w, `{"routes":[{"distanceMeters":15230,"duration":"1260s",
			"polyline":{"encodedPolyline":"_p~iF~ps|U_ulLnnqC"}}]}`)
	})
	route, err := newTestRoutesService(t, server.URL).Route(context.Background(), testOrigin, testDestination)
	require.NoError(t, err)
	assert.Equal(t, &model.RouteInfo{DistanceMeters: 15230, DurationSeconds: 1260, EncodedPolyline: "_p~iF~ps|U_ulLnnqC"}, route)
}

func TestRoutesAPIResponses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantRoute *model.RouteInfo
		wantErr   bool
	}{
		{name: "no routes", status: http.StatusOK, body: `{}`},
		{name: "forbidden is no route", status: http.StatusForbidden, body: `{"error":{"code":403}}`},
		{name: "server error is no route", status: http.StatusInternalServerError, body: `oops`},
		{name: "fractional duration", status: http.StatusOK, body: `{"routes":[{"distanceMeters":10,"duration":"1.6s"}]}`,
			wantRoute: &model.RouteInfo{DistanceMeters: 10, DurationSeconds: 2}},
		{name: "malformed body", status: http.StatusOK, body: `{"routes":`, wantErr: true},
		{name: "malformed duration", status: http.StatusOK, body: `{"routes":[{"duration":"soon"}]}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newMapsServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			route, err := newTestRoutesService(t, server.URL).Route(context.Background(), testOrigin, testDestination)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, route)
		})
	}
}

func TestRoutesAPITransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	gateway := NewSearchGateway(nil, newTestRoutesService(t, url))
	route, err := gateway.ComputeRoute(context.Background(), testOrigin, testDestination)
	assert.Nil(t, route)
	require.Error(t, err)
	assert.True(t, errors.Is(err, def.ErrRouteRequestFailed))
}

func TestDirectionsService(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantRoute *model.RouteInfo
		wantErr   bool
	}{
		{
			name: "two legs",
			body: `{"status":"OK","routes":[{"overview_polyline":{"points":"_p~iF~ps|U"},"legs":[
				{"distance":{"text":"1.2 km","value":1200},"duration":{"text":"5 mins","value":300}},
				{"distance":{"text":"0.8 km","value":800},"duration":{"text":"2 mins","value":120}}]}]}`,
			wantRoute: &model.RouteInfo{DistanceMeters: 2000, DurationSeconds: 420, EncodedPolyline: "_p~iF~ps|U"},
		},
		{name: "zero results", body: `{"status":"ZERO_RESULTS","routes":[]}`},
		{name: "not found", body: `{"status":"NOT_FOUND","routes":[]}`},
		{name: "denied", body: `{"status":"REQUEST_DENIED","error_message":"key"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newMapsServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
				assert.Equal(t, testOrigin.String(), r.URL.Query().Get("origin"))
				assert.Equal(t, "driving", r.URL.Query().Get("mode"))
				fmt.Fprint(w, tt.body)
			})
			client, err := NewMapsClient(MapsClientOptions{APIKey: testAPIKey, BaseURL: server.URL})
			require.NoError(t, err)

			route, err := NewDirectionsService(client).Route(context.Background(), testOrigin, testDestination)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRoute, route)
		})
	}
}
