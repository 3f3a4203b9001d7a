package definition

import (
	"context"
	"fmt"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/pkg/errors"
)

// SearchGateway is the remote places/routing backend consumed by the search
// coordinator. Every call honours ctx cancellation.
type SearchGateway interface {
	// Autocomplete returns suggestions for a free-text query. No matches is an
	// empty result, not an error.
	Autocomplete(ctx context.Context, query string) ([]model.AutocompleteSuggestion, error)
	// ResolveDetails fails with ErrLookupFailed for unknown ids or backend errors.
	ResolveDetails(ctx context.Context, placeID string) (*model.ResolvedAddress, error)
	// ComputeRoute returns nil without error when the backend has no route.
	ComputeRoute(ctx context.Context, origin, destination model.Coordinate) (*model.RouteInfo, error)
}

var (
	ErrAutocompleteFailed = errors.New("autocomplete failed")
	ErrLookupFailed       = errors.New("place lookup failed")
	ErrRouteRequestFailed = errors.New("route request failed")
)

// GatewayError ties a backend failure to the gateway operation it broke.
// errors.Is matches the operation sentinel; errors.Unwrap yields the cause.
type GatewayError struct {
	Op  error
	Err error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return e.Op.Error()
	}
	return fmt.Sprintf("%v: %v", e.Op, e.Err)
}

func (e *GatewayError) Is(target error) bool {
	return target == e.Op
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func AutocompleteFailed(err error) error {
	return wrapGatewayError(ErrAutocompleteFailed, err)
}

func LookupFailed(err error) error {
	return wrapGatewayError(ErrLookupFailed, err)
}

func RouteRequestFailed(err error) error {
	return wrapGatewayError(ErrRouteRequestFailed, err)
}

// wrapGatewayError leaves errors already classified under op untouched.
func wrapGatewayError(op, err error) error {
	if errors.Is(err, op) {
		return err
	}
	return &GatewayError{Op: op, Err: err}
}
