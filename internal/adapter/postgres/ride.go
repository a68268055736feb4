package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/pkg/postgres"
)

type RideRepository struct {
	db *pgxpool.Pool
}

func NewRideRepository(db *postgres.DB) *RideRepository {
	return &RideRepository{db: db.Pool}
}

const rideColumns = `id, rider_id, driver_id, pickup, destination, vehicle_class,
	payment_mode, fare, distance_meters, duration_seconds, status,
	payment_id, order_id, signature, created_at, updated_at`

func (r *RideRepository) Create(ctx context.Context, ride *models.Ride) error {
	query := `
		INSERT INTO rides (
			id, rider_id, pickup, destination, vehicle_class, payment_mode,
			fare, distance_meters, duration_seconds, otp, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := txOrDB(ctx, r.db).QueryRow(ctx, query,
		ride.ID,
		ride.RiderID,
		ride.Pickup,
		ride.Destination,
		ride.VehicleClass,
		ride.PaymentMode,
		ride.Fare,
		ride.DistanceMeters,
		ride.DurationSeconds,
		ride.OTP,
		ride.Status,
	).Scan(&ride.CreatedAt, &ride.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert ride: %w", err)
	}
	return nil
}

// GetByID loads a ride without its OTP.
func (r *RideRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(txOrDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ride{}, types.ErrRideNotFound
		}
		return models.Ride{}, fmt.Errorf("get ride: %w", err)
	}
	return ride, nil
}

// GetWithOTP loads a ride including its OTP. Only the ride start path may
// use this.
func (r *RideRepository) GetWithOTP(ctx context.Context, id uuid.UUID) (models.Ride, error) {
	query := `SELECT ` + rideColumns + `, otp FROM rides WHERE id = $1`

	var ride models.Ride
	err := txOrDB(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&ride.ID, &ride.RiderID, &ride.DriverID, &ride.Pickup, &ride.Destination,
		&ride.VehicleClass, &ride.PaymentMode, &ride.Fare, &ride.DistanceMeters,
		&ride.DurationSeconds, &ride.Status, &ride.PaymentID, &ride.OrderID,
		&ride.Signature, &ride.CreatedAt, &ride.UpdatedAt, &ride.OTP,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ride{}, types.ErrRideNotFound
		}
		return models.Ride{}, fmt.Errorf("get ride with otp: %w", err)
	}
	return ride, nil
}

// GetWithParties loads a ride joined with its rider and, when assigned, its
// driver. The OTP stays behind.
func (r *RideRepository) GetWithParties(ctx context.Context, id uuid.UUID) (models.Ride, error) {
	query := `
		SELECT
			r.id, r.rider_id, r.driver_id, r.pickup, r.destination,
			r.vehicle_class, r.payment_mode, r.fare, r.distance_meters,
			r.duration_seconds, r.status, r.payment_id, r.order_id,
			r.signature, r.created_at, r.updated_at,
			u.name, u.phone, u.socket_id,
			d.name, d.phone, d.vehicle_class, d.vehicle_plate, d.status, d.socket_id
		FROM rides r
		JOIN riders u ON u.id = r.rider_id
		LEFT JOIN drivers d ON d.id = r.driver_id
		WHERE r.id = $1`

	var (
		ride  models.Ride
		rider models.Rider

		driverName, driverPhone, driverPlate *string
		driverClass                          *types.VehicleClass
		driverStatus                         *types.DriverStatus
		driverSocket                         *string
	)
	err := txOrDB(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&ride.ID, &ride.RiderID, &ride.DriverID, &ride.Pickup, &ride.Destination,
		&ride.VehicleClass, &ride.PaymentMode, &ride.Fare, &ride.DistanceMeters,
		&ride.DurationSeconds, &ride.Status, &ride.PaymentID, &ride.OrderID,
		&ride.Signature, &ride.CreatedAt, &ride.UpdatedAt,
		&rider.Name, &rider.Phone, &rider.SocketID,
		&driverName, &driverPhone, &driverClass, &driverPlate, &driverStatus, &driverSocket,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Ride{}, types.ErrRideNotFound
		}
		return models.Ride{}, fmt.Errorf("get ride with parties: %w", err)
	}

	rider.ID = ride.RiderID
	ride.Rider = &rider

	if ride.DriverID != nil && driverName != nil {
		ride.Driver = &models.Driver{
			ID:           *ride.DriverID,
			Name:         *driverName,
			Phone:        *driverPhone,
			VehicleClass: *driverClass,
			VehiclePlate: *driverPlate,
			Status:       *driverStatus,
			SocketID:     driverSocket,
		}
	}
	return ride, nil
}

// AcceptPending assigns the driver and flips pending to accepted in one
// conditional update. It reports whether the row was won.
func (r *RideRepository) AcceptPending(ctx context.Context, rideID, driverID uuid.UUID) (bool, error) {
	query := `
		UPDATE rides
		SET status = $3, driver_id = $2, updated_at = now()
		WHERE id = $1 AND status = $4`

	tag, err := txOrDB(ctx, r.db).Exec(ctx, query, rideID, driverID, types.RideAccepted, types.RidePending)
	if err != nil {
		return false, fmt.Errorf("accept ride: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// StartAccepted flips accepted to ongoing for the assigned driver.
func (r *RideRepository) StartAccepted(ctx context.Context, rideID, driverID uuid.UUID) (bool, error) {
	query := `
		UPDATE rides
		SET status = $3, updated_at = now()
		WHERE id = $1 AND driver_id = $2 AND status = $4`

	tag, err := txOrDB(ctx, r.db).Exec(ctx, query, rideID, driverID, types.RideOngoing, types.RideAccepted)
	if err != nil {
		return false, fmt.Errorf("start ride: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CompleteOngoing flips ongoing to completed for the assigned driver.
func (r *RideRepository) CompleteOngoing(ctx context.Context, rideID, driverID uuid.UUID) (bool, error) {
	query := `
		UPDATE rides
		SET status = $3, updated_at = now()
		WHERE id = $1 AND driver_id = $2 AND status = $4`

	tag, err := txOrDB(ctx, r.db).Exec(ctx, query, rideID, driverID, types.RideCompleted, types.RideOngoing)
	if err != nil {
		return false, fmt.Errorf("complete ride: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CancelByRider cancels the rider's own ride while it is still pending or
// accepted.
func (r *RideRepository) CancelByRider(ctx context.Context, rideID, riderID uuid.UUID) (bool, error) {
	query := `
		UPDATE rides
		SET status = $3, updated_at = now()
		WHERE id = $1 AND rider_id = $2 AND status = ANY($4)`

	tag, err := txOrDB(ctx, r.db).Exec(ctx, query, rideID, riderID, types.RideCancelled,
		[]string{types.RidePending.String(), types.RideAccepted.String()})
	if err != nil {
		return false, fmt.Errorf("cancel ride: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanRide(row pgx.Row) (models.Ride, error) {
	var ride models.Ride
	err := row.Scan(
		&ride.ID, &ride.RiderID, &ride.DriverID, &ride.Pickup, &ride.Destination,
		&ride.VehicleClass, &ride.PaymentMode, &ride.Fare, &ride.DistanceMeters,
		&ride.DurationSeconds, &ride.Status, &ride.PaymentID, &ride.OrderID,
		&ride.Signature, &ride.CreatedAt, &ride.UpdatedAt,
	)
	return ride, err
}
