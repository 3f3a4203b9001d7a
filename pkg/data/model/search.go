package model

import (
	"fmt"
	"strings"
)

type Role int

const (
	RolePickup Role = iota
	RoleDropOff
)

// Roles lists every endpoint role in display order.
var Roles = []Role{RolePickup, RoleDropOff}

func (r Role) String() string {
	switch r {
	case RolePickup:
		return "pickup"
	case RoleDropOff:
		return "dropoff"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Other returns the opposite endpoint role.
func (r Role) Other() Role {
	if r == RolePickup {
		return RoleDropOff
	}
	return RolePickup
}

func (r Role) Valid() bool {
	return r == RolePickup || r == RoleDropOff
}

// ParseRole accepts "pickup"/"pick_up" and "dropoff"/"drop_off", case-insensitive.
func ParseRole(s string) (Role, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "") {
	case "pickup":
		return RolePickup, nil
	case "dropoff":
		return RoleDropOff, nil
	}
	return 0, fmt.Errorf("invalid role: %q", s)
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

type AutocompleteSuggestion struct {
	Label   string `json:"label"`
	PlaceID string `json:"placeId"`
}

type ResolvedAddress struct {
	FormattedAddress string     `json:"formattedAddress"`
	Name             string     `json:"name"`
	Location         Coordinate `json:"location"`
}

// DisplayText is the query text shown in the field once the address is selected.
func (a ResolvedAddress) DisplayText() string {
	return fmt.Sprintf("%s, %s", a.Name, a.FormattedAddress)
}

// RouteInfo keeps the polyline encoded; decode it with polyline.Decode when rendering.
type RouteInfo struct {
	DistanceMeters  int    `json:"distanceMeters"`
	DurationSeconds int    `json:"durationSeconds"`
	EncodedPolyline string `json:"encodedPolyline"`
}
