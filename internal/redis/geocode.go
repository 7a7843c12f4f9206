package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// GeocodeCacheTTL controls how long resolved coordinates stay cached. Place
// names move rarely; a day keeps external geocoding traffic low.
const GeocodeCacheTTL = 24 * time.Hour

const geocodeCachePrefix = "cache:geocode:"

// CachedCoordinate is a cached geocoding result.
type CachedCoordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeocodeCache caches geocoding results in Redis.
type GeocodeCache struct {
	client *redis.Client
}

// NewGeocodeCache creates a new GeocodeCache.
func NewGeocodeCache(client *redis.Client) *GeocodeCache {
	return &GeocodeCache{client: client}
}

// Get retrieves a cached coordinate for a place name. Returns nil on a miss.
func (s *GeocodeCache) Get(ctx context.Context, place string) (*CachedCoordinate, error) {
	data, err := s.client.Get(ctx, geocodeKey(place)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var coord CachedCoordinate
	if err := json.Unmarshal(data, &coord); err != nil {
		return nil, err
	}
	return &coord, nil
}

// Set stores a coordinate for a place name.
func (s *GeocodeCache) Set(ctx context.Context, place string, coord CachedCoordinate) error {
	data, err := json.Marshal(coord)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, geocodeKey(place), data, GeocodeCacheTTL).Err()
}

func geocodeKey(place string) string {
	return geocodeCachePrefix + strings.ToLower(strings.TrimSpace(place))
}
