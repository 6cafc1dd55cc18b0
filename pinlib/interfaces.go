package pinlib

import (
	"context"
	"net/http"
)

// HTTPClient is an interface for the wrapped http client which is
// shared by collaborators. Please see NewHTTPClient.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// IPLocator is a collaborator which geolocates IP literals.
type IPLocator interface {
	Name() string
	LookupIP(ctx context.Context, ip string) (IPLocation, error)
}

// Geocoder is a collaborator which does forward (place name to
// coordinates) and reverse (coordinates to address) geocoding.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) ([]Place, error)
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

type Logger interface {
	LookupError(kind SourceKind, value string, err error)
	EnrichError(lat, lon float64, err error)
	SessionInfo(sessionID string, msg string)
}
