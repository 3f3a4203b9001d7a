package sessions

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/VinothKuppanna/pigeon-maps/internal/common"
	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

const (
	PathSessions     = "/sessions"
	PathSession      = PathSessions + "/{session_id}"
	PathQuery        = PathSession + "/query"
	PathSelect       = PathSession + "/select"
	PathClear        = PathSession + "/clear"
	PathSwap         = PathSession + "/swap"
	PathRouteGeoJSON = PathSession + "/route.geojson"
	PathStream       = PathSession + "/stream"
)

var ErrBadRequest = errors.New("bad request")

// intentHttpRequest is the body of the intent routes and of stream messages.
type intentHttpRequest struct {
	Type    string `json:"type,omitempty"`
	Role    string `json:"role,omitempty"`
	Text    string `json:"text"`
	PlaceID string `json:"placeId,omitempty"`
}

func (r *intentHttpRequest) toIntent(sessionID string, intent intentType) (*intentRequest, error) {
	req := &intentRequest{sessionID: sessionID, intent: intent, text: r.Text, placeID: r.PlaceID}
	switch intent {
	case intentSwap:
		return req, nil
	case intentQuery, intentSelect, intentClear:
	default:
		return nil, errors.Wrapf(ErrBadRequest, "unknown intent %q", intent)
	}
	role, err := model.ParseRole(r.Role)
	if err != nil {
		return nil, errors.Wrap(ErrBadRequest, err.Error())
	}
	req.role = role
	if intent == intentSelect && r.PlaceID == "" {
		return nil, errors.Wrap(ErrBadRequest, "placeId is required")
	}
	return req, nil
}

type Handler struct {
	endpoints *endpoints
	store     *Store
	logger    log.Logger
	upgrader  websocket.Upgrader
}

func NewHandler(store *Store, logger log.Logger) *Handler {
	logger = log.With(logger, "component", "sessions")
	return &Handler{
		endpoints: makeEndpoints(store, logger),
		store:     store,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) SetupRouts(router *mux.Router) {
	options := []kithttp.ServerOption{kithttp.ServerErrorEncoder(encodeError)}

	createSession := kithttp.NewServer(h.endpoints.createSession, decodeEmptyRequest, kithttp.EncodeJSONResponse, options...)
	getSession := kithttp.NewServer(h.endpoints.getSession, decodeSessionRequest, encodeSessionResponse, options...)
	deleteSession := kithttp.NewServer(h.endpoints.deleteSession, decodeSessionRequest, kithttp.EncodeJSONResponse, options...)
	changeQuery := kithttp.NewServer(h.endpoints.changeQuery, decodeIntentRequest(intentQuery), encodeSessionResponse, options...)
	selectPlace := kithttp.NewServer(h.endpoints.selectPlace, decodeIntentRequest(intentSelect), encodeSessionResponse, options...)
	clearEndpoint := kithttp.NewServer(h.endpoints.clearEndpoint, decodeIntentRequest(intentClear), encodeSessionResponse, options...)
	swapEndpoints := kithttp.NewServer(h.endpoints.swapEndpoints, decodeIntentRequest(intentSwap), encodeSessionResponse, options...)
	routeGeoJSON := kithttp.NewServer(h.endpoints.routeGeoJSON, decodeSessionRequest, encodeGeoJSONResponse, options...)

	router.Handle(PathSessions, createSession).Methods(http.MethodPost)
	router.Handle(PathSession, getSession).Methods(http.MethodGet)
	router.Handle(PathSession, deleteSession).Methods(http.MethodDelete)
	router.Handle(PathQuery, changeQuery).Methods(http.MethodPost)
	router.Handle(PathSelect, selectPlace).Methods(http.MethodPost)
	router.Handle(PathClear, clearEndpoint).Methods(http.MethodPost)
	router.Handle(PathSwap, swapEndpoints).Methods(http.MethodPost)
	router.Handle(PathRouteGeoJSON, routeGeoJSON).Methods(http.MethodGet)
	router.Handle(PathStream, h.stream()).Methods(http.MethodGet)
}

func decodeEmptyRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return struct{}{}, nil
}

func decodeSessionRequest(_ context.Context, req *http.Request) (interface{}, error) {
	return &intentRequest{sessionID: mux.Vars(req)["session_id"]}, nil
}

func decodeIntentRequest(intent intentType) kithttp.DecodeRequestFunc {
	return func(_ context.Context, req *http.Request) (interface{}, error) {
		var httpr intentHttpRequest
		if err := json.NewDecoder(req.Body).Decode(&httpr); err != nil && !(err == io.EOF && intent == intentSwap) {
			return nil, errors.Wrap(ErrBadRequest, err.Error())
		}
		return httpr.toIntent(mux.Vars(req)["session_id"], intent)
	}
}

func encodeSessionResponse(ctx context.Context, resp http.ResponseWriter, response interface{}) error {
	return kithttp.EncodeJSONResponse(ctx, resp, response.(*sessionResponse).view)
}

func encodeGeoJSONResponse(_ context.Context, resp http.ResponseWriter, response interface{}) error {
	bytes, err := json.Marshal(response.(*geojson.FeatureCollection))
	if err != nil {
		return err
	}
	resp.Header().Set("Content-Type", "application/geo+json")
	resp.WriteHeader(http.StatusOK)
	_, err = resp.Write(bytes)
	return err
}

func encodeError(_ context.Context, err error, resp http.ResponseWriter) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		status = http.StatusBadRequest
	}
	common.RespondWithError(err, resp, status)
}
