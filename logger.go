package main

import (
	"io"
	"net/http"
	"time"

	"github.com/damgoweb/pinmap/pinlib"
	"github.com/rs/zerolog"
)

type logger struct {
	lookupLog  zerolog.Logger
	enrichLog  zerolog.Logger
	sessionLog zerolog.Logger
	httpLog    zerolog.Logger
	batchLog   zerolog.Logger
}

func (l *logger) LookupError(kind pinlib.SourceKind, value string, err error) {
	l.lookupLog.Error().Stringer("kind", kind).Str("value", value).Err(err).Msg("")
}

func (l *logger) EnrichError(lat, lon float64, err error) {
	l.enrichLog.Warn().Float64("lat", lat).Float64("lon", lon).Err(err).Msg("")
}

func (l *logger) SessionInfo(sessionID, msg string) {
	l.sessionLog.Debug().Str("session_id", sessionID).Msg(msg)
}

func newLogger(w io.Writer) *logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return &logger{
		lookupLog:  zerolog.New(w).With().Timestamp().Str("event_name", "lookup").Logger(),
		enrichLog:  zerolog.New(w).With().Timestamp().Str("event_name", "enrich").Logger(),
		sessionLog: zerolog.New(w).With().Timestamp().Str("event_name", "session").Logger(),
		httpLog:    zerolog.New(w).With().Timestamp().Str("event_name", "http").Logger(),
		batchLog:   zerolog.New(w).With().Timestamp().Str("event_name", "batch").Logger(),
	}
}

type requestLogger struct {
	handler http.Handler
	log     zerolog.Logger
}

func (r requestLogger) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	ww := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

	r.handler.ServeHTTP(ww, req)

	r.log.Info().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", ww.statusCode).
		Str("ip", req.RemoteAddr).
		Dur("duration", time.Since(start)).
		Msg("Request processed")
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
