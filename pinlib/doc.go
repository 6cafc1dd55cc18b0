// This package provides a set of structs and functions which are used
// to locate points on a map by IP address, by place name or by explicit
// coordinates.
//
// pinlib is core of the pinmap project. You can treat the rest of the
// application as an _example_ on how to use this library: how to wire
// collaborators, how to pass configuration, how to run a batch of
// lookups.
//
// Pinmap is a main entity of the pinlib. It owns a Resolver (which
// turns a Query into a LocatedPoint), a registry of user sessions (each
// with its own PointStore) and usage statistics of the remote
// collaborators. It can act as http.Handler.
//
// Rendering is not done here: BuildRenderRequest only describes what a
// map widget should draw.
package pinlib
