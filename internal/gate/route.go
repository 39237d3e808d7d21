// Copyright (c) 2026 Editaliza. All rights reserved.

package gate

import (
	"strings"

	"github.com/editaliza/editaliza/internal/platform/constants"
)

// # Route Classification

// RouteClass is the static partition a request path belongs to.
type RouteClass int

const (
	// ClassProtected paths require a valid token.
	ClassProtected RouteClass = iota

	// ClassPublic paths are reachable without a token.
	ClassPublic

	// ClassAsset paths bypass authentication entirely.
	ClassAsset
)

// String returns the class name used in logs.
func (c RouteClass) String() string {
	switch c {
	case ClassPublic:
		return "public"
	case ClassAsset:
		return "asset"
	default:
		return "protected"
	}
}

// RouteTable is the static route configuration of the gate.
//
// Excluded paths are not intercepted at all; asset and public paths are
// intercepted but do not require a token.
type RouteTable struct {
	// Excluded lists path prefixes the gate never sees (API, framework assets).
	Excluded []string

	// AssetPrefixes lists path prefixes served as static assets.
	AssetPrefixes []string

	// Public lists routes reachable anonymously; each also covers route + "/...".
	Public []string
}

// DefaultRoutes returns the route table of the Editaliza page UI.
func DefaultRoutes() RouteTable {
	return RouteTable{
		Excluded:      []string{"/api", "/_next/static", "/_next/image", "/favicon.ico", "/health", "/ready"},
		AssetPrefixes: []string{"/_next/", "/favicon.ico"},
		Public:        []string{constants.PathLogin, constants.PathSignup},
	}
}

// Excludes reports whether the gate must not intercept path.
func (table RouteTable) Excludes(path string) bool {
	for _, prefix := range table.Excluded {
		if matchRoute(path, prefix) {
			return true
		}
	}
	return false
}

// Classify maps path to exactly one [RouteClass].
//
// Asset detection takes priority over both route sets; any path containing a
// dot is treated as a file request.
func (table RouteTable) Classify(path string) RouteClass {
	for _, prefix := range table.AssetPrefixes {
		if strings.HasPrefix(path, prefix) {
			return ClassAsset
		}
	}
	if strings.Contains(path, ".") {
		return ClassAsset
	}

	for _, route := range table.Public {
		if matchRoute(path, route) {
			return ClassPublic
		}
	}
	return ClassProtected
}

// matchRoute matches route itself or anything below route + "/".
// "/login" matches "/login" and "/login/x", never "/loginx".
func matchRoute(path, route string) bool {
	if route != "/" {
		route = strings.TrimSuffix(route, "/")
	}
	return path == route || strings.HasPrefix(path, route+"/")
}
