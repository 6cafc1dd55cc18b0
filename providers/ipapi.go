package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/damgoweb/pinmap/pinlib"
)

const ipapiDefaultEndpoint = "http://ip-api.com/json"

type ipapiResponse struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	RegionName string   `json:"regionName"`
	ISP        string   `json:"isp"`
}

type ipapiProvider struct {
	endpoint string
	client   pinlib.HTTPClient
}

func (i ipapiProvider) Name() string {
	return NameIPAPI
}

func (i ipapiProvider) LookupIP(ctx context.Context, ip string) (pinlib.IPLocation, error) {
	result := pinlib.IPLocation{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		i.endpoint+"/"+url.PathEscape(ip), nil)
	if err != nil {
		return result, fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return result, fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return result, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	jsonResponse := ipapiResponse{}

	if err := decodeResponse(resp.Body, &jsonResponse); err != nil {
		return result, err
	}

	result.Status = jsonResponse.Status
	result.Message = jsonResponse.Message
	result.Latitude = jsonResponse.Lat
	result.Longitude = jsonResponse.Lon
	result.City = jsonResponse.City
	result.Country = jsonResponse.Country
	result.Region = jsonResponse.RegionName
	result.ISP = jsonResponse.ISP

	return result, nil
}

// NewIPAPI returns a locator which uses ip-api.com. A free endpoint is
// used unless "endpoint" parameter is set.
func NewIPAPI(client pinlib.HTTPClient, parameters map[string]string) pinlib.IPLocator {
	return ipapiProvider{
		endpoint: endpointParameter(parameters, ipapiDefaultEndpoint),
		client:   client,
	}
}
