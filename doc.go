// Pinmap is a service to locate points on a map by an IP address, a
// place name or raw coordinates.
//
// A user either searches a single point (each search replaces the
// previous one) or collects many named points into a session store.
// The service answers with resolved points and with parameters of a
// map to draw: center, zoom, bounds and markers. Drawing itself is up
// to the client.
//
// Tool itself is organized into 3 logical parts:
//
// Pinlib
//
// pinlib is a main package of the application which contains Pinmap
// struct, resolver, point store and render request builder. Pinmap
// keeps user sessions and can act as http.Handler.
//
// Providers
//
// This package has implementations of remote collaborators: ip-api.com
// for IP geolocation and OpenStreetMap Nominatim for geocoding.
//
// Csvdb
//
// csvdb reads and writes CSV exports of point stores and reads queues
// of points for the batch mode.
//
// A main package itself is an example of how to wire pinlib and
// providers. It has 2 commands: serve starts HTTP API and batch
// resolves a CSV queue of points into CSV export.
package main
