package sessions

import (
	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/VinothKuppanna/pigeon-maps/pkg/domain"
	"github.com/go-kit/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type endpointView struct {
	Query       string                         `json:"query"`
	Suggestions []model.AutocompleteSuggestion `json:"suggestions"`
	Address     *model.ResolvedAddress         `json:"address,omitempty"`
	Suppressed  bool                           `json:"autoSearchSuppressed"`
}

type routeView struct {
	DistanceMeters  int                `json:"distanceMeters"`
	DurationSeconds int                `json:"durationSeconds"`
	EncodedPolyline string             `json:"encodedPolyline"`
	Path            []model.Coordinate `json:"path"`
}

type noticeView struct {
	Seq     uint64 `json:"seq"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message"`
}

type sessionView struct {
	ID      string         `json:"id"`
	Pickup  endpointView   `json:"pickup"`
	DropOff endpointView   `json:"dropOff"`
	Route   *routeView     `json:"route,omitempty"`
	Zoom    float64        `json:"zoom"`
	Markers []model.Marker `json:"markers"`
	Notice  *noticeView    `json:"notice,omitempty"`
}

func newEndpointView(e model.EndpointSnapshot) endpointView {
	suggestions := e.Suggestions
	if suggestions == nil {
		suggestions = []model.AutocompleteSuggestion{}
	}
	return endpointView{Query: e.QueryText, Suggestions: suggestions, Address: e.Address, Suppressed: e.Suppressed}
}

func newSessionView(id string, s model.SessionSnapshot, logger log.Logger) *sessionView {
	view := &sessionView{
		ID:      id,
		Pickup:  newEndpointView(s.Pickup),
		DropOff: newEndpointView(s.DropOff),
		Zoom:    s.Zoom,
		Markers: s.Markers(),
	}
	if view.Markers == nil {
		view.Markers = []model.Marker{}
	}
	if s.Route != nil {
		path := domain.RoutePath(logger, s.Route)
		if path == nil {
			path = []model.Coordinate{}
		}
		view.Route = &routeView{
			DistanceMeters:  s.Route.DistanceMeters,
			DurationSeconds: s.Route.DurationSeconds,
			EncodedPolyline: s.Route.EncodedPolyline,
			Path:            path,
		}
	}
	if n := s.Notice; n != nil {
		view.Notice = &noticeView{Seq: n.Seq, Message: n.Message()}
		if n.Role != nil {
			view.Notice.Role = n.Role.String()
		}
	}
	return view
}

func point(c model.Coordinate) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// routeFeatures renders the endpoint pins and the decoded route line.
func routeFeatures(s model.SessionSnapshot, logger log.Logger) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, marker := range s.Markers() {
		feature := geojson.NewFeature(point(marker.Position))
		feature.Properties["type"] = string(marker.Type)
		feature.Properties["title"] = marker.Title
		fc.Append(feature)
	}
	if s.Route == nil {
		return fc
	}
	path := domain.RoutePath(logger, s.Route)
	if len(path) < 2 {
		return fc
	}
	line := make(orb.LineString, 0, len(path))
	for _, c := range path {
		line = append(line, point(c))
	}
	feature := geojson.NewFeature(line)
	feature.Properties["distanceMeters"] = s.Route.DistanceMeters
	feature.Properties["durationSeconds"] = s.Route.DurationSeconds
	fc.Append(feature)
	return fc
}
