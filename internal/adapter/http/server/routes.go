package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gocab/gocab/internal/domain/types"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	// System health and metrics
	a.mux.HandleFunc("GET /health", a.routes.health.HealthCheck)
	a.mux.Handle("GET /metrics", promhttp.Handler())

	// Ride lifecycle
	a.mux.Handle("GET /rides/fare", a.m.RequireRoles(a.routes.ride.GetFare, types.RoleRider))                  // Quote fares per vehicle class
	a.mux.Handle("POST /rides", a.m.RequireRoles(a.routes.ride.CreateRide, types.RoleRider))                   // Request a new ride
	a.mux.Handle("POST /rides/{ride_id}/accept", a.m.RequireRoles(a.routes.ride.AcceptRide, types.RoleDriver)) // Driver claims a pending ride
	a.mux.Handle("POST /rides/{ride_id}/start", a.m.RequireRoles(a.routes.ride.StartRide, types.RoleDriver))   // Driver starts with the pickup code
	a.mux.Handle("POST /rides/{ride_id}/end", a.m.RequireRoles(a.routes.ride.EndRide, types.RoleDriver))       // Driver completes the trip
	a.mux.Handle("POST /rides/{ride_id}/cancel", a.m.RequireRoles(a.routes.ride.CancelRide, types.RoleRider))  // Rider abandons before pickup

	// Geo passthrough
	a.mux.Handle("GET /maps/coordinates", a.m.RequireRoles(a.routes.maps.GetCoordinates, types.RoleRider, types.RoleDriver))
	a.mux.Handle("GET /maps/distance-time", a.m.RequireRoles(a.routes.maps.GetDistanceTime, types.RoleRider, types.RoleDriver))
	a.mux.Handle("GET /maps/suggestions", a.m.RequireRoles(a.routes.maps.GetSuggestions, types.RoleRider, types.RoleDriver))

	// Live connections
	a.mux.Handle("GET /ws", a.routes.ws)
}
