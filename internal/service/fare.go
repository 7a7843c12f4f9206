package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sanneekanupuru/SmartRide/internal/config"
	"github.com/sanneekanupuru/SmartRide/internal/maps"
	"github.com/sanneekanupuru/SmartRide/internal/redis"
)

const earthRadiusKm = 6371.0

// Geocoder resolves a free-form place name to a coordinate.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (maps.Coordinate, error)
}

// GeocodeCache caches resolved coordinates. A nil result with a nil error is
// a cache miss.
type GeocodeCache interface {
	Get(ctx context.Context, place string) (*redis.CachedCoordinate, error)
	Set(ctx context.Context, place string, coord redis.CachedCoordinate) error
}

// FareQuote is the result of a fare computation.
type FareQuote struct {
	DistanceKm float64 `json:"distance_km"`
	Amount     float64 `json:"amount"`
}

// FareService computes trip fares from place names.
//
// amount = (baseFare + ratePerKm * distanceKm) * seats, with the distance
// taken as the great-circle distance between the geocoded endpoints. For
// fixed inputs and fixed geocoding results the quote is deterministic, so
// retrying a payment can never change the amount.
type FareService struct {
	geocoder       Geocoder
	cache          GeocodeCache
	baseFare       float64
	ratePerKm      float64
	geocodeTimeout time.Duration
}

// NewFareService creates a new FareService. cache may be nil, in which case
// every quote hits the geocoder.
func NewFareService(geocoder Geocoder, cache GeocodeCache, cfg config.FareConfig) *FareService {
	return &FareService{
		geocoder:       geocoder,
		cache:          cache,
		baseFare:       cfg.BaseFare,
		ratePerKm:      cfg.RatePerKm,
		geocodeTimeout: cfg.GeocodeTimeout,
	}
}

// Quote computes the fare for seats passengers travelling from source to
// destination. Returns ErrLocationNotFound when either place name resolves
// to nothing, or ErrFareUnavailable when geocoding fails or exceeds the
// configured timeout.
func (s *FareService) Quote(ctx context.Context, source, destination string, seats int) (*FareQuote, error) {
	if seats <= 0 {
		return nil, ErrInvalidSeatCount
	}
	if source == "" || destination == "" {
		return nil, ErrInvalidLocation
	}

	ctx, cancel := context.WithTimeout(ctx, s.geocodeTimeout)
	defer cancel()

	src, err := s.resolve(ctx, source)
	if err != nil {
		return nil, err
	}
	dst, err := s.resolve(ctx, destination)
	if err != nil {
		return nil, err
	}

	distance := haversineKm(src, dst)
	amount := (s.baseFare + s.ratePerKm*distance) * float64(seats)

	return &FareQuote{DistanceKm: distance, Amount: amount}, nil
}

// resolve looks the place up in the cache first; the cache is best-effort and
// a cache failure never fails the quote.
func (s *FareService) resolve(ctx context.Context, place string) (maps.Coordinate, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, place); err == nil && cached != nil {
			return maps.Coordinate{Lat: cached.Lat, Lng: cached.Lng}, nil
		}
	}

	coord, err := s.geocoder.Resolve(ctx, place)
	if err != nil {
		if errors.Is(err, maps.ErrNoResults) {
			return maps.Coordinate{}, fmt.Errorf("%w: %q", ErrLocationNotFound, place)
		}
		return maps.Coordinate{}, fmt.Errorf("%w: %v", ErrFareUnavailable, err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, place, redis.CachedCoordinate{Lat: coord.Lat, Lng: coord.Lng})
	}
	return coord, nil
}

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(a, b maps.Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
