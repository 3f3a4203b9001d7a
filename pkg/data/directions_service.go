package data

import (
	"context"
	"strings"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/pkg/errors"
	"googlemaps.github.io/maps"
)

type directionsService struct {
	client *maps.Client
}

func (d *directionsService) Route(ctx context.Context, origin, destination model.Coordinate) (*model.RouteInfo, error) {
	request := maps.DirectionsRequest{
		Origin:        origin.String(),
		Destination:   destination.String(),
		Mode:          maps.TravelModeDriving,
		Units:         maps.UnitsMetric,
		DepartureTime: "now",
	}
	routes, _, err := d.client.Directions(ctx, &request)
	if err != nil {
		if strings.Contains(err.Error(), "NOT_FOUND") {
			return nil, nil
		}
		return nil, errors.Wrap(err, "DirectionsService.Route")
	}
	if len(routes) == 0 {
		return nil, nil
	}
	route := routes[0]
	info := &model.RouteInfo{EncodedPolyline: route.OverviewPolyline.Points}
	for _, leg := range route.Legs {
		info.DistanceMeters += leg.Meters
		info.DurationSeconds += int(leg.Duration.Seconds())
	}
	return info, nil
}

// NewDirectionsService routes through the legacy Directions API.
func NewDirectionsService(client *maps.Client) RouteService {
	return &directionsService{client}
}
