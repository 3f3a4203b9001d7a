package data

import (
	"context"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/pkg/errors"
	"googlemaps.github.io/maps"
)

var detailFields = []maps.PlaceDetailsFieldMask{
	maps.PlaceDetailsFieldMaskFormattedAddress,
	maps.PlaceDetailsFieldMaskName,
	maps.PlaceDetailsFieldMaskGeometry,
}

// PlacesService covers the two Places calls the search needs.
type PlacesService interface {
	Autocomplete(ctx context.Context, query string) ([]model.AutocompleteSuggestion, error)
	Details(ctx context.Context, placeID string) (*model.ResolvedAddress, error)
}

type MapsClientOptions struct {
	APIKey    string
	BaseURL   string
	RateLimit int
}

func NewMapsClient(options MapsClientOptions) (*maps.Client, error) {
	clientOptions := []maps.ClientOption{maps.WithAPIKey(options.APIKey)}
	if options.BaseURL != "" {
		clientOptions = append(clientOptions, maps.WithBaseURL(options.BaseURL))
	}
	if options.RateLimit > 0 {
		clientOptions = append(clientOptions, maps.WithRateLimit(options.RateLimit))
	}
	client, err := maps.NewClient(clientOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "NewMapsClient")
	}
	return client, nil
}

type placesService struct {
	client *maps.Client
}

func (p *placesService) Autocomplete(ctx context.Context, query string) ([]model.AutocompleteSuggestion, error) {
	response, err := p.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{Input: query})
	if err != nil {
		return nil, errors.Wrap(err, "PlacesService.Autocomplete")
	}
	suggestions := make([]model.AutocompleteSuggestion, 0, len(response.Predictions))
	for _, prediction := range response.Predictions {
		suggestions = append(suggestions, model.AutocompleteSuggestion{
			Label:   prediction.Description,
			PlaceID: prediction.PlaceID,
		})
	}
	return suggestions, nil
}

func (p *placesService) Details(ctx context.Context, placeID string) (*model.ResolvedAddress, error) {
	result, err := p.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{PlaceID: placeID, Fields: detailFields})
	if err != nil {
		return nil, errors.Wrapf(err, "PlacesService.Details %s", placeID)
	}
	return &model.ResolvedAddress{
		FormattedAddress: result.FormattedAddress,
		Name:             result.Name,
		Location: model.Coordinate{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
		},
	}, nil
}

func NewPlacesService(client *maps.Client) PlacesService {
	return &placesService{client}
}
