package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/damgoweb/pinmap/pinlib"
	"github.com/damgoweb/pinmap/providers"
	"github.com/hjson/hjson-go/v4"
)

const (
	DefaultListen            = "127.0.0.1:8080"
	DefaultHTTPTimeout       = 10 * time.Second
	DefaultRateLimitInterval = 100 * time.Millisecond
	DefaultRateLimitBurst    = 10
	DefaultCacheTTL          = time.Hour

	// geocoding services allow at most 1 request per second
	GeocoderMinRateLimitInterval = time.Second
	GeocoderMaxRateLimitBurst    = 1
)

type providerRole uint8

const (
	providerRoleIPLocator providerRole = iota
	providerRoleGeocoder
)

type providerDefaults struct {
	role              providerRole
	rateLimitInterval time.Duration
	rateLimitBurst    int
}

var knownProviders = map[string]providerDefaults{
	providers.NameIPAPI: {
		role:              providerRoleIPLocator,
		rateLimitInterval: DefaultRateLimitInterval,
		rateLimitBurst:    DefaultRateLimitBurst,
	},
	providers.NameNominatim: {
		role:              providerRoleGeocoder,
		rateLimitInterval: GeocoderMinRateLimitInterval,
		rateLimitBurst:    GeocoderMaxRateLimitBurst,
	},
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Listen     string           `json:"listen"`
	SessionTTL duration         `json:"session_ttl"`
	BasicAuth  configBasicAuth  `json:"basic_auth"`
	Providers  []configProvider `json:"providers"`
}

func (c config) GetListen() string {
	if c.Listen != "" {
		return c.Listen
	}

	return DefaultListen
}

func (c config) GetSessionTTL() time.Duration {
	if c.SessionTTL.Duration == 0 {
		return pinlib.DefaultSessionTTL
	}

	return c.SessionTTL.Duration
}

func (c config) GetBasicAuth() configBasicAuth {
	return c.BasicAuth
}

func (c config) GetProviders() []configProvider {
	return c.Providers
}

type configBasicAuth struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (c configBasicAuth) Enabled() bool {
	return c.User != ""
}

type configProvider struct {
	Name               string            `json:"name"`
	RateLimitInterval  duration          `json:"rate_limit_interval"`
	RateLimitBurst     uint              `json:"rate_limit_burst"`
	HTTPTimeout        duration          `json:"http_timeout"`
	CacheItems         uint              `json:"cache_items"`
	CacheTTL           duration          `json:"cache_ttl"`
	SpecificParameters map[string]string `json:"specific_parameters"`
}

func (c configProvider) GetName() string {
	return c.Name
}

func (c configProvider) GetRateLimitInterval() time.Duration {
	if c.RateLimitInterval.Duration == 0 {
		return knownProviders[c.Name].rateLimitInterval
	}

	return c.RateLimitInterval.Duration
}

func (c configProvider) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return knownProviders[c.Name].rateLimitBurst
	}

	return int(c.RateLimitBurst)
}

func (c configProvider) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return DefaultHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

// GetCacheItems returns a capacity of the cache. 0 means that cache is
// disabled.
func (c configProvider) GetCacheItems() uint {
	return c.CacheItems
}

func (c configProvider) GetCacheTTL() time.Duration {
	if c.CacheTTL.Duration == 0 {
		return DefaultCacheTTL
	}

	return c.CacheTTL.Duration
}

func (c configProvider) GetSpecificParameters() map[string]string {
	if c.SpecificParameters == nil {
		return map[string]string{}
	}

	return c.SpecificParameters
}

func parseConfig(path string) (*config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	return parseConfigBytes(content)
}

func parseConfigBytes(content []byte) (*config, error) {
	conf := config{}
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return nil, fmt.Errorf("cannot parse json: %w", err)
	}

	rawBytes, _ := json.Marshal(rawMap)

	if err := json.Unmarshal(rawBytes, &conf); err != nil {
		return nil, fmt.Errorf("incorrect config structure: %w", err)
	}

	if _, _, err := net.SplitHostPort(conf.GetListen()); err != nil {
		return nil, fmt.Errorf("incorrect host:port for listen: %w", err)
	}

	if conf.BasicAuth.Password != "" && conf.BasicAuth.User == "" {
		return nil, fmt.Errorf("basic auth password is set but user is empty")
	}

	seenProviderNames := map[string]struct{}{}
	seenRoles := map[providerRole]struct{}{}

	for _, v := range conf.Providers {
		defaults, ok := knownProviders[v.GetName()]
		if !ok {
			return nil, fmt.Errorf("unsupported provider name: %s", v.GetName())
		}

		if _, ok := seenProviderNames[v.GetName()]; ok {
			return nil, fmt.Errorf("name %s is duplicated", v.GetName())
		}

		seenProviderNames[v.GetName()] = struct{}{}

		if _, ok := seenRoles[defaults.role]; ok {
			return nil, fmt.Errorf("provider %s duplicates a role of another provider", v.GetName())
		}

		seenRoles[defaults.role] = struct{}{}

		if defaults.role == providerRoleGeocoder {
			if v.GetRateLimitInterval() < GeocoderMinRateLimitInterval {
				return nil, fmt.Errorf("rate limit interval of %s has to be at least %v",
					v.GetName(), GeocoderMinRateLimitInterval)
			}

			if v.GetRateLimitBurst() > GeocoderMaxRateLimitBurst {
				return nil, fmt.Errorf("rate limit burst of %s has to be at most %d",
					v.GetName(), GeocoderMaxRateLimitBurst)
			}
		}
	}

	if _, ok := seenRoles[providerRoleIPLocator]; !ok {
		return nil, fmt.Errorf("IP geolocation provider is not configured")
	}

	if _, ok := seenRoles[providerRoleGeocoder]; !ok {
		return nil, fmt.Errorf("geocoding provider is not configured")
	}

	return &conf, nil
}
