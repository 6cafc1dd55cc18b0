package main

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"

	"github.com/damgoweb/pinmap/pinlib"
	"github.com/damgoweb/pinmap/providers"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

// makeProviders builds collaborators from the config. parseConfig has
// already checked that there is exactly one of each kind. Caches are
// returned as options so pinlib can count only requests which have
// reached collaborators.
func makeProviders(conf *config) (pinlib.IPLocator, pinlib.Geocoder, []pinlib.ResolverOption) {
	var (
		ipLocator pinlib.IPLocator
		geocoder  pinlib.Geocoder
		opts      []pinlib.ResolverOption
	)

	for _, v := range conf.GetProviders() {
		httpClient := makeNewHTTPClient(v)
		params := v.GetSpecificParameters()

		switch v.GetName() {
		case providers.NameIPAPI:
			ipLocator = providers.NewIPAPI(httpClient, params)

			if v.GetCacheItems() > 0 {
				opts = append(opts, pinlib.WithIPLocatorCache(v.GetCacheItems(), v.GetCacheTTL()))
			}
		case providers.NameNominatim:
			geocoder = providers.NewNominatim(httpClient, params)

			if v.GetCacheItems() > 0 {
				opts = append(opts, pinlib.WithGeocoderCache(v.GetCacheItems(), v.GetCacheTTL()))
			}
		}
	}

	return ipLocator, geocoder, opts
}

func makeNewHTTPClient(conf configProvider) pinlib.HTTPClient {
	jar, err := cookiejar.New(nil)
	if err != nil {
		panic(err)
	}

	httpClient := &http.Client{
		Timeout: conf.GetHTTPTimeout(),
		Jar:     jar,
	}

	userAgent := conf.GetSpecificParameters()["user_agent"]
	if userAgent == "" {
		userAgent = "pinmap/" + version
	}

	return pinlib.NewHTTPClient(httpClient,
		userAgent,
		conf.GetRateLimitInterval(),
		conf.GetRateLimitBurst())
}
