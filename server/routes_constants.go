package server

import "github.com/jrsteele09/go-warehouse-client/api"

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// RouteAPIPrefix is the mount point the client's base URL points at
	RouteAPIPrefix = "/api"

	// Auth Routes
	RouteAuthLogin       = RouteAPIPrefix + api.PathLogin
	RouteAuthLogout      = RouteAPIPrefix + api.PathLogout
	RouteAuthCurrentUser = RouteAPIPrefix + api.PathCurrentUser

	// Operational Routes
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
