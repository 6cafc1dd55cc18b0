package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/damgoweb/pinmap/pinlib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

const (
	version = "0.1.0"

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

var (
	app = kingpin.New(
		"pinmap",
		"Locate IP addresses, places and coordinates on a map")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("PINMAP_DEBUG").
		Bool()

	serveCommand = app.Command("serve", "Run HTTP API.")
	serveConfig  = serveCommand.Arg("config-path", "Path to the config.").
			Required().
			ExistingFile()

	batchCommand = app.Command("batch", "Resolve a queue of points into CSV export.")
	batchConfig  = batchCommand.Arg("config-path", "Path to the config.").
			Required().
			ExistingFile()
	batchQueue = batchCommand.Arg("queue-path", "Path to the queue CSV (name,kind,value).").
			Required().
			String()
	batchOutput = batchCommand.Arg("output-path", "Path to the resulting CSV.").
			Required().
			String()
)

func init() {
	app.Version(version)
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	logger := newLogger(os.Stderr)

	var err error

	switch command {
	case serveCommand.FullCommand():
		err = mainServe(*serveConfig, logger)
	case batchCommand.FullCommand():
		err = mainBatch(*batchConfig, *batchQueue, *batchOutput, logger)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Cannot run pinmap")
	}
}

func makePinmap(configPath string, logger *logger) (*config, *pinlib.Pinmap, error) {
	conf, err := parseConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot parse config: %w", err)
	}

	ipLocator, geocoder, opts := makeProviders(conf)

	return conf, pinlib.NewPinmap(ipLocator, geocoder, logger, conf.GetSessionTTL(), opts...), nil
}

func mainServe(configPath string, logger *logger) error {
	conf, pinmap, err := makePinmap(configPath, logger)
	if err != nil {
		return err
	}

	ctx, cancel := makeRootContext()
	defer cancel()

	var handler http.Handler = pinmap

	if conf.GetBasicAuth().Enabled() {
		handler = newBasicAuthMiddleware(handler, conf.GetBasicAuth())
	}

	srv := &http.Server{
		Addr:              conf.GetListen(),
		Handler:           requestLogger{handler: handler, log: logger.httpLog},
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	shutdownDone := make(chan struct{})

	go func() {
		defer close(shutdownDone)

		<-ctx.Done()

		pinmap.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	log.Info().
		Str("addr", conf.GetListen()).
		Str("version", version).
		Msg("Web server started")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server has failed: %w", err)
	}

	<-shutdownDone

	return nil
}

func mainBatch(configPath, queuePath, outputPath string, logger *logger) error {
	_, pinmap, err := makePinmap(configPath, logger)
	if err != nil {
		return err
	}

	defer pinmap.Shutdown()

	ctx, cancel := makeRootContext()
	defer cancel()

	result, err := runBatch(ctx, afero.NewOsFs(), pinmap, logger.batchLog, queuePath, outputPath)
	if err != nil {
		return fmt.Errorf("cannot process a queue: %w", err)
	}

	log.Info().
		Int("resolved", result.Resolved).
		Int("failed", result.Failed).
		Str("output", outputPath).
		Msg("Queue was processed")

	return nil
}
