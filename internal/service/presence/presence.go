package presence

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
)

type RiderRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.Rider, error)
	SetSocketID(ctx context.Context, id uuid.UUID, handle string) error
	ClearSocketID(ctx context.Context, handle string) error
}

type DriverRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.Driver, error)
	SetSocketID(ctx context.Context, id uuid.UUID, handle string) error
	ClearSocketID(ctx context.Context, handle string) error
	UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) error
}

// Service maintains who is reachable over a live connection and where
// drivers are. Records persist across disconnects; only the connection
// handle is cleared.
type Service struct {
	riders  RiderRepo
	drivers DriverRepo
	logger  logger.Logger
}

func NewService(riders RiderRepo, drivers DriverRepo, logger logger.Logger) *Service {
	return &Service{
		riders:  riders,
		drivers: drivers,
		logger:  logger,
	}
}

// Join binds a connection handle to a rider or driver record. A second
// join for the same party simply overwrites the handle.
func (s *Service) Join(ctx context.Context, role types.Role, id uuid.UUID, handle string) error {
	ctx = wrap.WithAction(ctx, "presence.Join")
	ctx = wrap.WithUserID(ctx, id.String())

	if handle == "" {
		return wrap.Error(ctx, fmt.Errorf("%w: empty connection handle", types.ErrInvalidInput))
	}

	var err error
	switch role {
	case types.RoleRider:
		err = s.riders.SetSocketID(ctx, id, handle)
	case types.RoleDriver:
		err = s.drivers.SetSocketID(ctx, id, handle)
	default:
		return wrap.Error(ctx, fmt.Errorf("%w: unknown role %q", types.ErrInvalidInput, role))
	}
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("bind connection handle: %w", err))
	}

	s.logger.Debug(ctx, "joined", "role", role.String())
	return nil
}

// Disconnect clears the handle wherever it is bound. The role behind a
// closed connection is unknown, so both tables are checked.
func (s *Service) Disconnect(ctx context.Context, handle string) error {
	ctx = wrap.WithAction(ctx, "presence.Disconnect")

	if handle == "" {
		return wrap.Error(ctx, fmt.Errorf("%w: empty connection handle", types.ErrInvalidInput))
	}

	if err := s.riders.ClearSocketID(ctx, handle); err != nil {
		return wrap.Error(ctx, fmt.Errorf("clear rider handle: %w", err))
	}
	if err := s.drivers.ClearSocketID(ctx, handle); err != nil {
		return wrap.Error(ctx, fmt.Errorf("clear driver handle: %w", err))
	}
	return nil
}

// UpdateDriverLocation overwrites the driver's last reported location.
func (s *Service) UpdateDriverLocation(ctx context.Context, driverID uuid.UUID, lat, lng float64) error {
	ctx = wrap.WithAction(ctx, "presence.UpdateDriverLocation")
	ctx = wrap.WithUserID(ctx, driverID.String())

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return wrap.Error(ctx, fmt.Errorf("%w: coordinates out of range", types.ErrInvalidInput))
	}

	if err := s.drivers.UpdateLocation(ctx, driverID, lat, lng); err != nil {
		return wrap.Error(ctx, fmt.Errorf("update driver location: %w", err))
	}
	return nil
}

// RiderHandle returns the rider's live connection handle, empty when
// offline.
func (s *Service) RiderHandle(ctx context.Context, id uuid.UUID) (string, error) {
	rider, err := s.riders.GetByID(ctx, id)
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("get rider: %w", err))
	}
	if rider.SocketID == nil {
		return "", nil
	}
	return *rider.SocketID, nil
}

// DriverHandle returns the driver's live connection handle, empty when
// offline.
func (s *Service) DriverHandle(ctx context.Context, id uuid.UUID) (string, error) {
	driver, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return "", wrap.Error(ctx, fmt.Errorf("get driver: %w", err))
	}
	if driver.SocketID == nil {
		return "", nil
	}
	return *driver.SocketID, nil
}
