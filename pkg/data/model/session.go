package model

type MarkerType string

const (
	MarkerPickup  MarkerType = "PICK_UP"
	MarkerDropOff MarkerType = "DROP_OFF"
)

type Marker struct {
	Position Coordinate `json:"position"`
	Title    string     `json:"title"`
	Type     MarkerType `json:"type"`
}

type EndpointSnapshot struct {
	QueryText   string                   `json:"queryText"`
	Suggestions []AutocompleteSuggestion `json:"suggestions"`
	Address     *ResolvedAddress         `json:"address,omitempty"`
	Suppressed  bool                     `json:"suppressed"`
}

// Notice is the last error surfaced to the UI. Seq grows with every new notice
// so observers can tell a repeated failure from a stale one.
type Notice struct {
	Seq  uint64 `json:"seq"`
	Role *Role  `json:"role,omitempty"`
	Err  error  `json:"-"`
}

func (n *Notice) Message() string {
	if n == nil || n.Err == nil {
		return ""
	}
	return n.Err.Error()
}

type SessionSnapshot struct {
	Pickup  EndpointSnapshot `json:"pickup"`
	DropOff EndpointSnapshot `json:"dropOff"`
	Route   *RouteInfo       `json:"route,omitempty"`
	Zoom    float64          `json:"zoom"`
	Notice  *Notice          `json:"notice,omitempty"`
}

func (s *SessionSnapshot) Endpoint(role Role) *EndpointSnapshot {
	if role == RoleDropOff {
		return &s.DropOff
	}
	return &s.Pickup
}

// Markers returns a pin for every endpoint that has a resolved address.
func (s *SessionSnapshot) Markers() []Marker {
	var markers []Marker
	if a := s.Pickup.Address; a != nil {
		markers = append(markers, Marker{Position: a.Location, Title: "Pick Up", Type: MarkerPickup})
	}
	if a := s.DropOff.Address; a != nil {
		markers = append(markers, Marker{Position: a.Location, Title: "Drop Off", Type: MarkerDropOff})
	}
	return markers
}
