package pinlib

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

type cachingIPLocator struct {
	IPLocator

	cache *ristretto.Cache
	ttl   time.Duration
}

func (c cachingIPLocator) LookupIP(ctx context.Context, ip string) (IPLocation, error) {
	value, ok := c.cache.Get(ip)
	if ok {
		return value.(IPLocation), nil
	}

	result, err := c.IPLocator.LookupIP(ctx, ip)
	if err != nil {
		return IPLocation{}, err
	}

	if result.Status == "success" {
		c.cache.SetWithTTL(ip, result, 1, c.ttl)
	}

	return result, nil
}

type cachingGeocoder struct {
	Geocoder

	cache *ristretto.Cache
	ttl   time.Duration
}

func (c cachingGeocoder) Search(ctx context.Context, query string) ([]Place, error) {
	cacheKey := "search:" + query

	value, ok := c.cache.Get(cacheKey)
	if ok {
		return value.([]Place), nil
	}

	result, err := c.Geocoder.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(result) > 0 {
		c.cache.SetWithTTL(cacheKey, result, 1, c.ttl)
	}

	return result, nil
}

func (c cachingGeocoder) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	cacheKey := "reverse:" + formatFloat(lat) + "," + formatFloat(lon)

	value, ok := c.cache.Get(cacheKey)
	if ok {
		return value.(Place), nil
	}

	result, err := c.Geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		return Place{}, err
	}

	if result.DisplayName != "" {
		c.cache.SetWithTTL(cacheKey, result, 1, c.ttl)
	}

	return result, nil
}

func newCache(itemsCount uint) *ristretto.Cache {
	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		panic(err)
	}

	return cache
}

// NewCachingIPLocator wraps IP locator with a cache of successful
// lookups.
func NewCachingIPLocator(locator IPLocator, itemsCount uint, ttl time.Duration) IPLocator {
	return cachingIPLocator{
		IPLocator: locator,
		cache:     newCache(itemsCount),
		ttl:       ttl,
	}
}

// NewCachingGeocoder wraps geocoder with a cache. Cache hits do not
// reach the collaborator so they are not a subject of rate limiting.
func NewCachingGeocoder(geocoder Geocoder, itemsCount uint, ttl time.Duration) Geocoder {
	return cachingGeocoder{
		Geocoder: geocoder,
		cache:    newCache(itemsCount),
		ttl:      ttl,
	}
}
