package ride

import (
	"context"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
)

type RideRepo interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id uuid.UUID) (models.Ride, error)
	GetWithOTP(ctx context.Context, id uuid.UUID) (models.Ride, error)
	GetWithParties(ctx context.Context, id uuid.UUID) (models.Ride, error)

	// Conditional transitions. Each reports whether exactly one row moved.
	AcceptPending(ctx context.Context, rideID, driverID uuid.UUID) (bool, error)
	StartAccepted(ctx context.Context, rideID, driverID uuid.UUID) (bool, error)
	CompleteOngoing(ctx context.Context, rideID, driverID uuid.UUID) (bool, error)
	CancelByRider(ctx context.Context, rideID, riderID uuid.UUID) (bool, error)
}

type RiderRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.Rider, error)
}

type GeoProvider interface {
	GetCoordinates(ctx context.Context, address string) (models.Coordinates, error)
	GetDistanceDuration(ctx context.Context, pickup, destination string) (models.DistanceDuration, error)
}

type FareCalculator interface {
	Fare(class types.VehicleClass, distanceMeters, durationSeconds int64) (int64, error)
	Quote(distanceMeters, durationSeconds int64) (map[types.VehicleClass]int64, error)
}

type ProximityFinder interface {
	FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.Driver, error)
}

// Notifier pushes an event to one live connection, best effort.
type Notifier interface {
	Push(handle, event string, payload any)
}

type Broker interface {
	PublishRideStatus(ctx context.Context, ride models.Ride) error
}
