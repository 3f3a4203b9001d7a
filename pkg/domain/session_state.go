package domain

import (
	"context"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
)

// suppression is the per-endpoint auto-search window:
// idle -> suppressed on a programmatic text change, back to idle on the next user edit.
type suppression int

const (
	suppressionIdle suppression = iota
	suppressionActive
)

func (s suppression) onProgrammaticChange() suppression {
	return suppressionActive
}

func (s suppression) onUserEdit() suppression {
	return suppressionIdle
}

func (s suppression) suppressed() bool {
	return s == suppressionActive
}

func (s suppression) String() string {
	if s.suppressed() {
		return "suppressed"
	}
	return "idle"
}

type endpointState struct {
	queryText   string
	suggestions []model.AutocompleteSuggestion
	address     *model.ResolvedAddress
	suppression suppression
}

func (e *endpointState) reset() {
	*e = endpointState{}
}

func (e *endpointState) snapshot() model.EndpointSnapshot {
	s := model.EndpointSnapshot{
		QueryText:   e.queryText,
		Suggestions: append([]model.AutocompleteSuggestion(nil), e.suggestions...),
		Suppressed:  e.suppression.suppressed(),
	}
	if e.address != nil {
		address := *e.address
		s.Address = &address
	}
	return s
}

// sessionState is owned by the coordinator's event loop and never shared.
type sessionState struct {
	endpoints [2]endpointState
	route     *model.RouteInfo
	zoom      float64
	notice    *model.Notice
}

func (s *sessionState) endpoint(role model.Role) *endpointState {
	return &s.endpoints[role]
}

func (s *sessionState) bothResolved() bool {
	return s.endpoints[model.RolePickup].address != nil && s.endpoints[model.RoleDropOff].address != nil
}

func (s *sessionState) snapshot() model.SessionSnapshot {
	snapshot := model.SessionSnapshot{
		Pickup:  s.endpoints[model.RolePickup].snapshot(),
		DropOff: s.endpoints[model.RoleDropOff].snapshot(),
		Zoom:    s.zoom,
	}
	if s.route != nil {
		route := *s.route
		snapshot.Route = &route
	}
	if s.notice != nil {
		notice := *s.notice
		snapshot.Notice = &notice
	}
	return snapshot
}

// inflight is a cancellation token plus generation counter for one kind of
// outstanding request. Results carrying an older generation are dropped.
type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

func (f *inflight) next(parent context.Context) (context.Context, uint64) {
	f.invalidate()
	ctx, cancel := context.WithCancel(parent)
	f.cancel = cancel
	return ctx, f.generation
}

func (f *inflight) invalidate() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.generation++
}

func (f *inflight) pending() bool {
	return f.cancel != nil
}

func (f *inflight) current(generation uint64) bool {
	return f.cancel != nil && f.generation == generation
}

// done releases the token once the current request's result has been applied.
func (f *inflight) done(generation uint64) {
	if f.current(generation) {
		f.cancel()
		f.cancel = nil
	}
}
