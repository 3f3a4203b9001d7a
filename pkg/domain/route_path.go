package domain

import (
	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/VinothKuppanna/pigeon-maps/pkg/polyline"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// RoutePath decodes the route's geometry. A nil route has no path; a
// malformed polyline yields no path and is logged, so callers can render the
// endpoints without a line.
func RoutePath(logger log.Logger, route *model.RouteInfo) []model.Coordinate {
	if route == nil || route.EncodedPolyline == "" {
		return nil
	}
	path, err := polyline.Decode(route.EncodedPolyline)
	if err != nil {
		if logger != nil {
			_ = level.Warn(logger).Log("msg", "dropping route geometry", "err", err)
		}
		return nil
	}
	return path
}
