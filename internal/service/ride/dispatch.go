package ride

import (
	"context"

	"github.com/gocab/gocab/internal/domain/models"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
	"github.com/gocab/gocab/pkg/metrics"
)

// newRidePayload is what nearby drivers see when a ride is broadcast. The
// pickup code stays with the rider.
type newRidePayload struct {
	Ride  models.Ride  `json:"ride"`
	Rider models.Rider `json:"rider"`
}

// dispatch broadcasts a fresh ride to every driver near the pickup point
// with a live connection. Runs after commit, detached from the request;
// failures are logged and the ride simply stays pending.
func (s *Service) dispatch(ctx context.Context, ride models.Ride, rider models.Rider) {
	ctx = wrap.WithAction(ctx, "ride.dispatch")
	ctx = wrap.WithRideID(ctx, ride.ID.String())

	coords, err := s.geo.GetCoordinates(ctx, ride.Pickup)
	if err != nil {
		s.logger.Warn(ctx, "dispatch skipped, pickup not geocoded", "err", err.Error())
		return
	}

	candidates, err := s.proximity.FindNearby(ctx, coords.Latitude, coords.Longitude, s.cfg.DispatchRadiusKm)
	if err != nil {
		s.logger.Warn(ctx, "dispatch skipped, radius query failed", "err", err.Error())
		return
	}
	metrics.RideDispatchCandidates.Observe(float64(len(candidates)))

	payload := newRidePayload{Ride: ride, Rider: rider}

	notified := 0
	for _, driver := range candidates {
		if driver.SocketID == nil {
			continue
		}
		s.notifier.Push(*driver.SocketID, models.EventNewRide, payload)
		notified++
	}

	s.logger.Info(ctx, "ride dispatched",
		"candidates", len(candidates),
		"notified", notified,
		"radius_km", s.cfg.DispatchRadiusKm,
	)
}
