package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/damgoweb/pinmap/pinlib"
)

const nominatimDefaultEndpoint = "https://nominatim.openstreetmap.org"

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

type nominatimProvider struct {
	endpoint string
	client   pinlib.HTTPClient
}

func (n nominatimProvider) Name() string {
	return NameNominatim
}

func (n nominatimProvider) Search(ctx context.Context, query string) ([]pinlib.Place, error) {
	params := url.Values{}

	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	jsonResponse := []nominatimPlace{}

	if err := n.get(ctx, "/search", params, &jsonResponse); err != nil {
		return nil, err
	}

	rv := make([]pinlib.Place, 0, len(jsonResponse))

	for _, v := range jsonResponse {
		rv = append(rv, pinlib.Place{
			Latitude:    v.Lat,
			Longitude:   v.Lon,
			DisplayName: v.DisplayName,
		})
	}

	return rv, nil
}

func (n nominatimProvider) Reverse(ctx context.Context, lat, lon float64) (pinlib.Place, error) {
	params := url.Values{}

	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	jsonResponse := nominatimPlace{}

	if err := n.get(ctx, "/reverse", params, &jsonResponse); err != nil {
		return pinlib.Place{}, err
	}

	return pinlib.Place{
		Latitude:    jsonResponse.Lat,
		Longitude:   jsonResponse.Lon,
		DisplayName: jsonResponse.DisplayName,
	}, nil
}

func (n nominatimProvider) get(ctx context.Context, path string, params url.Values, value interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		n.endpoint+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return decodeResponse(resp.Body, value)
}

// NewNominatim returns a geocoder which uses OpenStreetMap Nominatim.
// Its usage policy requires an identifying user agent (which is set by
// HTTPClient) and no more than 1 request per second, so please pass a
// client which is rate limited accordingly.
func NewNominatim(client pinlib.HTTPClient, parameters map[string]string) pinlib.Geocoder {
	return nominatimProvider{
		endpoint: endpointParameter(parameters, nominatimDefaultEndpoint),
		client:   client,
	}
}
