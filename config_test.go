package main

import (
	"testing"
	"time"

	"github.com/damgoweb/pinmap/pinlib"
	"github.com/stretchr/testify/assert"
)

func TestConfigOk(t *testing.T) {
	text := `{
      listen: 0.0.0.0:9000
      session_ttl: 30m
      basic_auth: {
        user: user
        password: password
      }
      providers: [
        {
          name: ip_api
          http_timeout: 3s
          cache_items: 100
          specific_parameters: {
            endpoint: "https://pro.ip-api.com/json"
          }
        }
        {
          name: nominatim
          rate_limit_interval: 2s
          cache_ttl: 24h
        }
      ]
    }`

	conf, err := parseConfigBytes([]byte(text))

	assert.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", conf.GetListen())
	assert.Equal(t, 30*time.Minute, conf.GetSessionTTL())
	assert.True(t, conf.GetBasicAuth().Enabled())
	assert.Len(t, conf.GetProviders(), 2)

	ipAPI := conf.GetProviders()[0]

	assert.Equal(t, "ip_api", ipAPI.GetName())
	assert.Equal(t, 3*time.Second, ipAPI.GetHTTPTimeout())
	assert.Equal(t, DefaultRateLimitInterval, ipAPI.GetRateLimitInterval())
	assert.Equal(t, DefaultRateLimitBurst, ipAPI.GetRateLimitBurst())
	assert.EqualValues(t, 100, ipAPI.GetCacheItems())
	assert.Equal(t, DefaultCacheTTL, ipAPI.GetCacheTTL())
	assert.Equal(t, "https://pro.ip-api.com/json", ipAPI.GetSpecificParameters()["endpoint"])

	nominatim := conf.GetProviders()[1]

	assert.Equal(t, 2*time.Second, nominatim.GetRateLimitInterval())
	assert.Equal(t, 1, nominatim.GetRateLimitBurst())
	assert.Equal(t, DefaultHTTPTimeout, nominatim.GetHTTPTimeout())
	assert.EqualValues(t, 0, nominatim.GetCacheItems())
	assert.Equal(t, 24*time.Hour, nominatim.GetCacheTTL())
	assert.Empty(t, nominatim.GetSpecificParameters())
}

func TestConfigDefaults(t *testing.T) {
	text := `{
      providers: [
        {name: "ip_api"}
        {name: "nominatim"}
      ]
    }`

	conf, err := parseConfigBytes([]byte(text))

	assert.NoError(t, err)
	assert.Equal(t, DefaultListen, conf.GetListen())
	assert.Equal(t, pinlib.DefaultSessionTTL, conf.GetSessionTTL())
	assert.False(t, conf.GetBasicAuth().Enabled())

	nominatim := conf.GetProviders()[1]

	assert.Equal(t, time.Second, nominatim.GetRateLimitInterval())
	assert.Equal(t, 1, nominatim.GetRateLimitBurst())
}

func TestConfigIncorrect(t *testing.T) {
	testData := map[string]string{
		"bad hjson":         `{providers: [`,
		"bad listen":        `{listen: "localhost", providers: [{name: "ip_api"}, {name: "nominatim"}]}`,
		"bad duration":      `{session_ttl: "1 hour", providers: [{name: "ip_api"}, {name: "nominatim"}]}`,
		"numeric duration":  `{session_ttl: 10, providers: [{name: "ip_api"}, {name: "nominatim"}]}`,
		"unknown provider":  `{providers: [{name: "ip_api"}, {name: "nominatim"}, {name: "ipinfo"}]}`,
		"duplicated":        `{providers: [{name: "ip_api"}, {name: "ip_api"}, {name: "nominatim"}]}`,
		"no geocoder":       `{providers: [{name: "ip_api"}]}`,
		"no ip locator":     `{providers: [{name: "nominatim"}]}`,
		"password, no user": `{basic_auth: {password: "x"}, providers: [{name: "ip_api"}, {name: "nominatim"}]}`,
		"fast geocoder":     `{providers: [{name: "ip_api"}, {name: "nominatim", rate_limit_interval: "100ms"}]}`,
		"bursty geocoder":   `{providers: [{name: "ip_api"}, {name: "nominatim", rate_limit_burst: 5}]}`,
		"paced too loosely": `{providers: [{name: "ip_api"}, {name: "nominatim", rate_limit_interval: "100ms", rate_limit_burst: 5}]}`,
	}

	for name, text := range testData {
		_, err := parseConfigBytes([]byte(text))

		assert.Error(t, err, name)
	}
}

func TestConfigMissingFile(t *testing.T) {
	_, err := parseConfig("/nonexistent/pinmap.hjson")

	assert.Error(t, err)
}
