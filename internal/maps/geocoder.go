package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

// ErrNoResults is returned when a place name resolves to zero results.
var ErrNoResults = errors.New("geocoder: no results")

// Coordinate is a resolved geographic location.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Geocoder resolves free-form place names to coordinates via the Google
// Geocoding API.
type Geocoder struct {
	client *maps.Client
}

// NewGeocoder creates a new Geocoder with the given API key.
func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Geocoder{client: client}, nil
}

// Resolve geocodes a place name. Returns ErrNoResults when the place name
// matches nothing.
func (g *Geocoder) Resolve(ctx context.Context, place string) (Coordinate, error) {
	r := &maps.GeocodingRequest{Address: place}

	results, err := g.client.Geocode(ctx, r)
	if err != nil {
		return Coordinate{}, fmt.Errorf("geocoding api error: %w", err)
	}

	if len(results) == 0 {
		return Coordinate{}, fmt.Errorf("%w: %s", ErrNoResults, place)
	}

	loc := results[0].Geometry.Location
	return Coordinate{Lat: loc.Lat, Lng: loc.Lng}, nil
}
