package data

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/go-kit/kit/endpoint"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

const (
	DefaultRoutesURL         = "https://routes.googleapis.com/directions/v2:computeRoutes"
	DefaultRoutesFieldMask   = "routes.distanceMeters,routes.duration,routes.polyline.encodedPolyline"
	DefaultTravelMode        = "DRIVE"
	DefaultRoutingPreference = "TRAFFIC_AWARE"
	DefaultRouteUnits        = "METRIC"
)

// RouteService computes a driving route between two coordinates.
// A nil route with a nil error means the backend has no route.
type RouteService interface {
	Route(ctx context.Context, origin, destination model.Coordinate) (*model.RouteInfo, error)
}

type RoutesAPIOptions struct {
	URL               string
	APIKey            string
	FieldMask         string
	TravelMode        string
	RoutingPreference string
	Units             string
	Timeout           time.Duration
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type waypoint struct {
	Location struct {
		LatLng latLng `json:"latLng"`
	} `json:"location"`
}

func newWaypoint(c model.Coordinate) waypoint {
	var w waypoint
	w.Location.LatLng = latLng{Latitude: c.Latitude, Longitude: c.Longitude}
	return w
}

type computeRoutesRequest struct {
	Origin            waypoint `json:"origin"`
	Destination       waypoint `json:"destination"`
	TravelMode        string   `json:"travelMode"`
	RoutingPreference string   `json:"routingPreference,omitempty"`
	Units             string   `json:"units,omitempty"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters int    `json:"distanceMeters"`
		Duration       string `json:"duration"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
	} `json:"routes"`
}

type routesAPIService struct {
	options RoutesAPIOptions
	compute endpoint.Endpoint
}

func (r *routesAPIService) Route(ctx context.Context, origin, destination model.Coordinate) (*model.RouteInfo, error) {
	if r.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.options.Timeout)
		defer cancel()
	}
	request := computeRoutesRequest{
		Origin:            newWaypoint(origin),
		Destination:       newWaypoint(destination),
		TravelMode:        r.options.TravelMode,
		RoutingPreference: r.options.RoutingPreference,
		Units:             r.options.Units,
	}
	response, err := r.compute(ctx, request)
	if err != nil {
		return nil, errors.Wrap(err, "RouteService.Route")
	}
	route, _ := response.(*model.RouteInfo)
	return route, nil
}

func decodeComputeRoutesResponse(logger log.Logger) kithttp.DecodeResponseFunc {
	return func(_ context.Context, resp *http.Response) (interface{}, error) {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_ = level.Warn(logger).Log("msg", "no route", "status", resp.StatusCode)
			return (*model.RouteInfo)(nil), nil
		}
		var body computeRoutesResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, errors.Wrap(err, "decode computeRoutes response")
		}
		if len(body.Routes) == 0 {
			return (*model.RouteInfo)(nil), nil
		}
		first := body.Routes[0]
		duration, err := parseRouteDuration(first.Duration)
		if err != nil {
			return nil, err
		}
		return &model.RouteInfo{
			DistanceMeters:  first.DistanceMeters,
			DurationSeconds: duration,
			EncodedPolyline: first.Polyline.EncodedPolyline,
		}, nil
	}
}

// parseRouteDuration reads protobuf JSON durations such as "165s" or "1.5s".
func parseRouteDuration(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "route duration %q", value)
	}
	return int(math.Round(d.Seconds())), nil
}

// NewRoutesAPIService posts to the Routes API computeRoutes method.
func NewRoutesAPIService(options RoutesAPIOptions, httpClient *http.Client, logger log.Logger) (RouteService, error) {
	if options.URL == "" {
		options.URL = DefaultRoutesURL
	}
	if options.FieldMask == "" {
		options.FieldMask = DefaultRoutesFieldMask
	}
	if options.TravelMode == "" {
		options.TravelMode = DefaultTravelMode
	}
	if options.RoutingPreference == "" {
		options.RoutingPreference = DefaultRoutingPreference
	}
	if options.Units == "" {
		options.Units = DefaultRouteUnits
	}
	target, err := url.Parse(options.URL)
	if err != nil {
		return nil, errors.Wrap(err, "NewRoutesAPIService")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = log.With(logger, "component", "routes_api")
	client := kithttp.NewClient(
		http.MethodPost,
		target,
		kithttp.EncodeJSONRequest,
		decodeComputeRoutesResponse(logger),
		kithttp.SetClient(httpClient),
		kithttp.ClientBefore(
			kithttp.SetRequestHeader("X-Goog-Api-Key", options.APIKey),
			kithttp.SetRequestHeader("X-Goog-FieldMask", options.FieldMask),
		),
	)
	return &routesAPIService{options: options, compute: client.Endpoint()}, nil
}
