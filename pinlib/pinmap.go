package pinlib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/damgoweb/pinmap/csvdb"
)

// Pinmap is a main entity of pinlib. It resolves queries for user
// sessions and keeps their points.
type Pinmap struct {
	resolver *Resolver
	sessions *SessionRegistry
	handler  http.Handler
	rwmutex  sync.RWMutex
	closed   bool
}

func (p *Pinmap) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	p.handler.ServeHTTP(w, req)
}

func (p *Pinmap) Sessions() *SessionRegistry {
	return p.sessions
}

// Locate resolves a query in a single-point mode. A result replaces the
// previous one of the session. For coordinates it also tries to fetch
// an address, failure of that is never a failure of Locate.
func (p *Pinmap) Locate(ctx context.Context, sess *Session, query Query) (LocatedPoint, error) {
	p.rwmutex.RLock()
	defer p.rwmutex.RUnlock()

	if p.closed {
		return LocatedPoint{}, ErrPinmapShutdown
	}

	var (
		point LocatedPoint
		err   error
	)

	sess.do(func() {
		point, err = p.resolver.Resolve(ctx, query)
		if err != nil {
			return
		}

		point.Name = point.SourceValue

		if point.SourceKind == SourceCoordinate {
			point.DisplayAddress = p.resolver.Enrich(ctx, point.Latitude, point.Longitude)
		}

		sess.last = &point
	})

	return point, err
}

// Last returns a result of the last successful Locate.
func (p *Pinmap) Last(sess *Session) (LocatedPoint, bool) {
	var (
		rv LocatedPoint
		ok bool
	)

	sess.do(func() {
		if sess.last != nil {
			rv = *sess.last
			ok = true
		}
	})

	return rv, ok
}

// AddPoint resolves a query and appends a result to the session store.
// If resolving has failed, store is not changed.
func (p *Pinmap) AddPoint(ctx context.Context, sess *Session, name string, query Query) (LocatedPoint, error) {
	p.rwmutex.RLock()
	defer p.rwmutex.RUnlock()

	if p.closed {
		return LocatedPoint{}, ErrPinmapShutdown
	}

	if name == "" {
		return LocatedPoint{}, fmt.Errorf("%w: name is empty", ErrInvalidInput)
	}

	var (
		point LocatedPoint
		err   error
	)

	sess.do(func() {
		point, err = p.resolver.Resolve(ctx, query)
		if err != nil {
			return
		}

		point.Name = name
		sess.store.Append(point)
	})

	return point, err
}

func (p *Pinmap) Points(sess *Session) []LocatedPoint {
	var rv []LocatedPoint

	sess.do(func() {
		rv = sess.store.All()
	})

	return rv
}

func (p *Pinmap) ClearPoints(sess *Session) {
	sess.do(sess.store.Clear)
}

func (p *Pinmap) Render(sess *Session) RenderRequest {
	return BuildRenderRequest(p.Points(sess))
}

// Export writes session points as CSV.
func (p *Pinmap) Export(sess *Session, w io.Writer) error {
	points := p.Points(sess)
	records := make([]*csvdb.Record, 0, len(points))

	for _, v := range points {
		records = append(records, &csvdb.Record{
			Name:        v.Name,
			SourceKind:  v.SourceKind.String(),
			SourceValue: v.SourceValue,
			Latitude:    v.Latitude,
			Longitude:   v.Longitude,
		})
	}

	return csvdb.WriteRecords(w, records)
}

// Import replaces session points with points from CSV export. Either
// all rows are imported or nothing is changed.
func (p *Pinmap) Import(sess *Session, r io.Reader) (int, error) {
	records, err := csvdb.ReadRecords(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	points := make([]LocatedPoint, 0, len(records))

	for i, v := range records {
		kind, err := ParseSourceKind(v.SourceKind)
		if err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}

		point := LocatedPoint{
			Name:        v.Name,
			SourceKind:  kind,
			SourceValue: v.SourceValue,
			Latitude:    v.Latitude,
			Longitude:   v.Longitude,
		}

		if !point.Coordinate().Valid() {
			return 0, fmt.Errorf("%w: record %d: %v", ErrInvalidInput, i+1, ErrOutOfRange)
		}

		points = append(points, point)
	}

	sess.do(func() {
		sess.store.Replace(points)
	})

	return len(points), nil
}

// UsageStats returns statistics of IP lookup and geocoding
// collaborators.
func (p *Pinmap) UsageStats() []*UsageStats {
	return []*UsageStats{p.resolver.ipStats, p.resolver.geocoderStats}
}

func (p *Pinmap) Shutdown() {
	p.rwmutex.Lock()
	defer p.rwmutex.Unlock()

	p.closed = true
}

// NewPinmap creates a new instance. Please pass a geocoder which is
// paced (see NewHTTPClient): consecutive requests to public geocoding
// services are expected to be spaced by at least a second. Caches are
// set with options, see WithIPLocatorCache and WithGeocoderCache.
func NewPinmap(ipLocator IPLocator, geocoder Geocoder, logger Logger,
	sessionTTL time.Duration, opts ...ResolverOption) *Pinmap {
	rv := &Pinmap{
		resolver: NewResolver(ipLocator, geocoder, logger, opts...),
		sessions: NewSessionRegistry(sessionTTL, logger),
	}

	rv.handler = newHTTPHandler(rv)

	return rv
}
