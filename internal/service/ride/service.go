package ride

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
	"github.com/gocab/gocab/pkg/metrics"
	"github.com/gocab/gocab/pkg/trm"
)

// Config tunes ride creation and dispatch.
type Config struct {
	DispatchRadiusKm float64
	OTPLength        int
}

// Service drives the ride lifecycle: pending -> accepted -> ongoing ->
// completed, with a rider-initiated exit to cancelled while the trip has
// not started. All transitions are conditional updates, so concurrent
// callers race on the database row and exactly one wins.
type Service struct {
	rides     RideRepo
	riders    RiderRepo
	geo       GeoProvider
	fares     FareCalculator
	proximity ProximityFinder
	notifier  Notifier
	broker    Broker
	trm       trm.TxManager
	logger    logger.Logger
	cfg       Config
}

func NewService(
	rides RideRepo,
	riders RiderRepo,
	geo GeoProvider,
	fares FareCalculator,
	proximity ProximityFinder,
	notifier Notifier,
	broker Broker,
	trm trm.TxManager,
	logger logger.Logger,
	cfg Config,
) *Service {
	return &Service{
		rides:     rides,
		riders:    riders,
		geo:       geo,
		fares:     fares,
		proximity: proximity,
		notifier:  notifier,
		broker:    broker,
		trm:       trm,
		logger:    logger,
		cfg:       cfg,
	}
}

// Create quotes, persists and dispatches a new ride. The ride is returned
// as soon as it is committed; nearby drivers are notified asynchronously.
func (s *Service) Create(ctx context.Context, req models.RideRequest) (models.Ride, error) {
	ctx = wrap.WithAction(ctx, "ride.Create")
	ctx = wrap.WithUserID(ctx, req.RiderID.String())

	if req.Pickup == "" || req.Destination == "" {
		return models.Ride{}, wrap.Error(ctx, fmt.Errorf("%w: pickup and destination are required", types.ErrInvalidInput))
	}
	if !slices.Contains(types.VehicleClasses, req.VehicleClass) {
		return models.Ride{}, wrap.Error(ctx, fmt.Errorf("%w: unknown vehicle class %q", types.ErrInvalidInput, req.VehicleClass))
	}

	rider, err := s.riders.GetByID(ctx, req.RiderID)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	dd, err := s.geo.GetDistanceDuration(ctx, req.Pickup, req.Destination)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	fare, err := s.fares.Fare(req.VehicleClass, dd.DistanceMeters, dd.DurationSeconds)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	otp, err := generateOTP(s.cfg.OTPLength)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, fmt.Errorf("could not generate otp: %w", err))
	}

	ride := models.Ride{
		ID:              uuid.New(),
		RiderID:         req.RiderID,
		Pickup:          req.Pickup,
		Destination:     req.Destination,
		VehicleClass:    req.VehicleClass,
		PaymentMode:     req.PaymentMode,
		Fare:            fare,
		DistanceMeters:  dd.DistanceMeters,
		DurationSeconds: dd.DurationSeconds,
		OTP:             otp,
		Status:          types.RidePending,
	}
	ctx = wrap.WithRideID(ctx, ride.ID.String())

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.rides.Create(ctx, &ride); err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not create ride in repo: %w", err))
		}
		return nil
	})
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	s.afterTransition(ctx, ride)
	s.logger.Info(ctx, "ride created", "fare", fare, "vehicle_class", req.VehicleClass.String())

	// The rider must not wait for the driver broadcast.
	go s.dispatch(context.WithoutCancel(ctx), ride, rider)

	return ride, nil
}

// Accept assigns the calling driver to a pending ride. Of any number of
// concurrent acceptors exactly one wins; the rest get ErrRideNotFound.
func (s *Service) Accept(ctx context.Context, rideID, driverID uuid.UUID) (models.Ride, error) {
	ctx = wrap.WithAction(ctx, "ride.Accept")
	ctx = wrap.WithUserID(ctx, driverID.String())
	ctx = wrap.WithRideID(ctx, rideID.String())

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		won, err := s.rides.AcceptPending(ctx, rideID, driverID)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not accept ride: %w", err))
		}
		if !won {
			return wrap.Error(ctx, types.ErrRideNotFound)
		}
		return nil
	})
	if err != nil {
		return models.Ride{}, err
	}

	ride, err := s.rides.GetWithParties(ctx, rideID)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	s.afterTransition(ctx, ride)
	s.pushToRider(ride, models.EventRideAccepted)
	s.logger.Info(ctx, "ride accepted")

	return ride, nil
}

// Start moves an accepted ride to ongoing once the driver presents the
// rider's pickup code. A wrong code changes nothing.
func (s *Service) Start(ctx context.Context, rideID, driverID uuid.UUID, otp string) (models.Ride, error) {
	ctx = wrap.WithAction(ctx, "ride.Start")
	ctx = wrap.WithUserID(ctx, driverID.String())
	ctx = wrap.WithRideID(ctx, rideID.String())

	if otp == "" {
		return models.Ride{}, wrap.Error(ctx, fmt.Errorf("%w: otp is required", types.ErrInvalidInput))
	}

	current, err := s.rides.GetWithOTP(ctx, rideID)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}
	if current.Status != types.RideAccepted || current.DriverID == nil || *current.DriverID != driverID {
		return models.Ride{}, wrap.Error(ctx, types.ErrRideNotFound)
	}
	if current.OTP != otp {
		return models.Ride{}, wrap.Error(ctx, types.ErrInvalidOTP)
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		won, err := s.rides.StartAccepted(ctx, rideID, driverID)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not start ride: %w", err))
		}
		if !won {
			return wrap.Error(ctx, types.ErrRideNotFound)
		}
		return nil
	})
	if err != nil {
		return models.Ride{}, err
	}

	ride, err := s.rides.GetWithParties(ctx, rideID)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	s.afterTransition(ctx, ride)
	s.pushToRider(ride, models.EventRideStarted)
	s.logger.Info(ctx, "ride started")

	return ride, nil
}

// End completes an ongoing ride. Only the assigned driver can finish it.
func (s *Service) End(ctx context.Context, rideID, driverID uuid.UUID) (models.Ride, error) {
	ctx = wrap.WithAction(ctx, "ride.End")
	ctx = wrap.WithUserID(ctx, driverID.String())
	ctx = wrap.WithRideID(ctx, rideID.String())

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		won, err := s.rides.CompleteOngoing(ctx, rideID, driverID)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not complete ride: %w", err))
		}
		if !won {
			return wrap.Error(ctx, types.ErrRideNotFound)
		}
		return nil
	})
	if err != nil {
		return models.Ride{}, err
	}

	ride, err := s.rides.GetWithParties(ctx, rideID)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	s.afterTransition(ctx, ride)
	s.pushToRider(ride, models.EventRideEnded)
	s.logger.Info(ctx, "ride completed", "fare", ride.Fare)

	return ride, nil
}

// Cancel lets the rider abandon their own ride before it starts. A driver
// already assigned is told about it.
func (s *Service) Cancel(ctx context.Context, rideID, riderID uuid.UUID) (models.Ride, error) {
	ctx = wrap.WithAction(ctx, "ride.Cancel")
	ctx = wrap.WithUserID(ctx, riderID.String())
	ctx = wrap.WithRideID(ctx, rideID.String())

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		won, err := s.rides.CancelByRider(ctx, rideID, riderID)
		if err != nil {
			return wrap.Error(ctx, fmt.Errorf("could not cancel ride: %w", err))
		}
		if !won {
			return wrap.Error(ctx, types.ErrRideNotFound)
		}
		return nil
	})
	if err != nil {
		return models.Ride{}, err
	}

	ride, err := s.rides.GetWithParties(ctx, rideID)
	if err != nil {
		return models.Ride{}, wrap.Error(ctx, err)
	}

	s.afterTransition(ctx, ride)
	if ride.Driver != nil && ride.Driver.SocketID != nil {
		s.notifier.Push(*ride.Driver.SocketID, models.EventRideCancelled, ride)
	}
	s.logger.Info(ctx, "ride cancelled")

	return ride, nil
}

// GetFare quotes every vehicle class for a pickup/destination pair without
// touching any state.
func (s *Service) GetFare(ctx context.Context, pickup, destination string) (models.FareQuote, error) {
	ctx = wrap.WithAction(ctx, "ride.GetFare")

	if pickup == "" || destination == "" {
		return models.FareQuote{}, wrap.Error(ctx, fmt.Errorf("%w: pickup and destination are required", types.ErrInvalidInput))
	}

	dd, err := s.geo.GetDistanceDuration(ctx, pickup, destination)
	if err != nil {
		return models.FareQuote{}, wrap.Error(ctx, err)
	}

	fares, err := s.fares.Quote(dd.DistanceMeters, dd.DurationSeconds)
	if err != nil {
		return models.FareQuote{}, wrap.Error(ctx, err)
	}

	return models.FareQuote{
		Fares:        fares,
		DistanceText: dd.DistanceText,
		DurationText: dd.DurationText,
	}, nil
}

func (s *Service) pushToRider(ride models.Ride, event string) {
	if ride.Rider == nil || ride.Rider.SocketID == nil {
		return
	}
	s.notifier.Push(*ride.Rider.SocketID, event, ride)
}

// afterTransition handles the side effects of a committed status change.
// Both are best effort and never fail the caller.
func (s *Service) afterTransition(ctx context.Context, ride models.Ride) {
	metrics.RidesTotal.WithLabelValues(ride.Status.String()).Inc()

	if err := s.broker.PublishRideStatus(ctx, ride); err != nil {
		s.logger.Warn(ctx, "ride status publish failed", "status", ride.Status.String(), "err", err.Error())
	}
}
