package sessions

import (
	"context"
	"net/http"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/VinothKuppanna/pigeon-maps/pkg/domain"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/log"
)

type endpoints struct {
	createSession endpoint.Endpoint
	getSession    endpoint.Endpoint
	deleteSession endpoint.Endpoint
	changeQuery   endpoint.Endpoint
	selectPlace   endpoint.Endpoint
	clearEndpoint endpoint.Endpoint
	swapEndpoints endpoint.Endpoint
	routeGeoJSON  endpoint.Endpoint
}

func makeEndpoints(store *Store, logger log.Logger) *endpoints {
	return &endpoints{
		createSession: makeCreateSessionEndpoint(store, logger),
		getSession:    makeIntentEndpoint(store, logger, nil),
		deleteSession: makeDeleteSessionEndpoint(store),
		changeQuery:   makeIntentEndpoint(store, logger, applyIntent),
		selectPlace:   makeIntentEndpoint(store, logger, applyIntent),
		clearEndpoint: makeIntentEndpoint(store, logger, applyIntent),
		swapEndpoints: makeIntentEndpoint(store, logger, applyIntent),
		routeGeoJSON:  makeRouteGeoJSONEndpoint(store, logger),
	}
}

type intentType string

const (
	intentQuery  intentType = "query"
	intentSelect intentType = "select"
	intentClear  intentType = "clear"
	intentSwap   intentType = "swap"
)

// intentRequest is one user action against a session, from HTTP or the stream.
type intentRequest struct {
	sessionID string
	intent    intentType
	role      model.Role
	text      string
	placeID   string
}

type sessionResponse struct {
	view *sessionView
}

type createSessionResponse struct {
	ID      string       `json:"id"`
	Session *sessionView `json:"session"`
}

func (createSessionResponse) StatusCode() int {
	return http.StatusCreated
}

type deleteSessionResponse struct{}

func (deleteSessionResponse) StatusCode() int {
	return http.StatusNoContent
}

func applyIntent(coordinator *domain.SearchCoordinator, req *intentRequest) {
	switch req.intent {
	case intentQuery:
		coordinator.OnQueryChanged(req.role, req.text)
	case intentSelect:
		coordinator.OnSuggestionSelected(req.role, req.placeID)
	case intentClear:
		coordinator.OnClear(req.role)
	case intentSwap:
		coordinator.OnSwap()
	}
}

func makeCreateSessionEndpoint(store *Store, logger log.Logger) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, coordinator := store.Create()
		return &createSessionResponse{ID: id, Session: newSessionView(id, coordinator.Snapshot(), logger)}, nil
	}
}

// makeIntentEndpoint applies the request's intent, if any, and answers with
// the session as it stands once the intent's synchronous part is done.
func makeIntentEndpoint(store *Store, logger log.Logger, apply func(*domain.SearchCoordinator, *intentRequest)) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*intentRequest)
		coordinator, err := store.Get(req.sessionID)
		if err != nil {
			return nil, err
		}
		if apply != nil {
			apply(coordinator, req)
		}
		return &sessionResponse{newSessionView(req.sessionID, coordinator.Snapshot(), logger)}, nil
	}
}

func makeDeleteSessionEndpoint(store *Store) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*intentRequest)
		if err := store.Delete(req.sessionID); err != nil {
			return nil, err
		}
		return deleteSessionResponse{}, nil
	}
}

func makeRouteGeoJSONEndpoint(store *Store, logger log.Logger) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(*intentRequest)
		coordinator, err := store.Get(req.sessionID)
		if err != nil {
			return nil, err
		}
		return routeFeatures(coordinator.Snapshot(), logger), nil
	}
}
