package pinlib

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// AddressUnavailable is set as a display address if reverse geocoding
// has failed.
const AddressUnavailable = "address unavailable"

// Resolver turns a Query into a LocatedPoint. It keeps no state between
// calls except usage statistics of collaborators.
type Resolver struct {
	ipLocator     IPLocator
	geocoder      Geocoder
	logger        Logger
	ipStats       *UsageStats
	geocoderStats *UsageStats
}

// Resolve dispatches the query to one of IP, place name or coordinate
// strategies. Any error it returns is *ResolutionError unless query
// kind is unknown. Name of the point is left empty, it is up to the
// caller to set it.
func (r *Resolver) Resolve(ctx context.Context, query Query) (LocatedPoint, error) {
	var (
		point LocatedPoint
		err   *ResolutionError
	)

	switch query.Kind {
	case SourceIP:
		point, err = r.resolveIP(ctx, query.Value)
	case SourceCityName:
		point, err = r.resolvePlace(ctx, query.Value)
	case SourceCoordinate:
		point, err = r.resolveCoordinate(query.Latitude, query.Longitude)
	default:
		return LocatedPoint{}, fmt.Errorf("%w: unknown source kind %d", ErrInvalidInput, query.Kind)
	}

	if err != nil {
		r.logger.LookupError(query.Kind, query.SourceValue(), err)

		return LocatedPoint{}, err
	}

	point.SourceKind = query.Kind
	point.SourceValue = query.SourceValue()

	return point, nil
}

func (r *Resolver) resolveIP(ctx context.Context, ip string) (LocatedPoint, *ResolutionError) {
	result, err := r.ipLocator.LookupIP(ctx, ip)

	if err != nil {
		return LocatedPoint{}, newResolutionError(ErrIPLookupFailed, "", err)
	}

	if result.Status != "success" {
		message := result.Message
		if message == "" {
			message = fmt.Sprintf("status is %q", result.Status)
		}

		return LocatedPoint{}, newResolutionError(ErrIPLookupFailed, message, nil)
	}

	if result.Latitude == nil || result.Longitude == nil {
		return LocatedPoint{}, newResolutionError(ErrIPLookupFailed, "",
			fmt.Errorf("%w: no coordinates", ErrMalformedResponse))
	}

	return LocatedPoint{
		Latitude:    *result.Latitude,
		Longitude:   *result.Longitude,
		City:        result.City,
		Region:      result.Region,
		Country:     result.Country,
		CountryCode: LookupCountry(result.Country),
		ISP:         result.ISP,
	}, nil
}

func (r *Resolver) resolvePlace(ctx context.Context, text string) (LocatedPoint, *ResolutionError) {
	candidates, err := r.geocoder.Search(ctx, text)

	switch {
	case err != nil:
		return LocatedPoint{}, newResolutionError(ErrPlaceNotFound, text, err)
	case len(candidates) == 0:
		return LocatedPoint{}, newResolutionError(ErrPlaceNotFound, text, nil)
	}

	first := candidates[0]

	lat, err := strconv.ParseFloat(strings.TrimSpace(first.Latitude), 64)
	if err != nil {
		return LocatedPoint{}, newResolutionError(ErrPlaceNotFound, text,
			fmt.Errorf("%w: incorrect latitude: %v", ErrMalformedResponse, err))
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(first.Longitude), 64)
	if err != nil {
		return LocatedPoint{}, newResolutionError(ErrPlaceNotFound, text,
			fmt.Errorf("%w: incorrect longitude: %v", ErrMalformedResponse, err))
	}

	rv := LocatedPoint{
		Latitude:       lat,
		Longitude:      lon,
		DisplayAddress: first.DisplayName,
	}

	if !rv.Coordinate().Valid() {
		return LocatedPoint{}, newResolutionError(ErrPlaceNotFound, text,
			fmt.Errorf("%w: coordinates are out of range", ErrMalformedResponse))
	}

	if rv.DisplayAddress == "" {
		rv.DisplayAddress = text
	}

	return rv, nil
}

func (r *Resolver) resolveCoordinate(lat, lon float64) (LocatedPoint, *ResolutionError) {
	coord := Coordinate{Latitude: lat, Longitude: lon}

	// NaN fails every comparison so it is out of range as well
	if !coord.Valid() || math.IsNaN(lat) || math.IsNaN(lon) {
		return LocatedPoint{}, newResolutionError(ErrOutOfRange,
			fmt.Sprintf("lat=%v, lon=%v", lat, lon), nil)
	}

	return LocatedPoint{
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

// Enrich returns a display address of given coordinates. It never
// fails: if reverse geocoding is not possible, AddressUnavailable is
// returned.
func (r *Resolver) Enrich(ctx context.Context, lat, lon float64) string {
	place, err := r.geocoder.Reverse(ctx, lat, lon)

	if err == nil && place.DisplayName == "" {
		err = fmt.Errorf("%w: no display name", ErrMalformedResponse)
	}

	if err != nil {
		r.logger.EnrichError(lat, lon, err)

		return AddressUnavailable
	}

	return place.DisplayName
}

// ResolverOption tunes a Resolver on construction.
type ResolverOption func(*Resolver)

// WithIPLocatorCache puts a cache in front of the IP locator. Cache
// hits are not counted in usage stats.
func WithIPLocatorCache(itemsCount uint, ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.ipLocator = NewCachingIPLocator(r.ipLocator, itemsCount, ttl)
	}
}

// WithGeocoderCache puts a cache in front of the geocoder. Cache hits
// neither reach the collaborator nor wait for its rate limiter.
func WithGeocoderCache(itemsCount uint, ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.geocoder = NewCachingGeocoder(r.geocoder, itemsCount, ttl)
	}
}

func NewResolver(ipLocator IPLocator, geocoder Geocoder, logger Logger, opts ...ResolverOption) *Resolver {
	rv := &Resolver{
		logger:        logger,
		ipStats:       &UsageStats{Name: ipLocator.Name()},
		geocoderStats: &UsageStats{Name: geocoder.Name()},
	}

	rv.ipLocator = usageCountingIPLocator{IPLocator: ipLocator, stats: rv.ipStats}
	rv.geocoder = usageCountingGeocoder{Geocoder: geocoder, stats: rv.geocoderStats}

	for _, opt := range opts {
		opt(rv)
	}

	return rv
}
