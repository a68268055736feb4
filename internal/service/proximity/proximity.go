package proximity

import (
	"context"
	"fmt"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
)

// DriverFinder is the radius query over persisted driver locations.
type DriverFinder interface {
	FindWithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]models.Driver, error)
}

// Service answers "which drivers are near this point". It does not care
// whether a driver is connected or free; callers filter for that.
type Service struct {
	drivers DriverFinder
	logger  logger.Logger
}

func NewService(drivers DriverFinder, logger logger.Logger) *Service {
	return &Service{
		drivers: drivers,
		logger:  logger,
	}
}

// FindNearby returns every driver whose last reported location lies within
// radiusKm of the point, boundary inclusive. Order is not guaranteed.
// A zero radius is a valid exact-point query.
func (s *Service) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.Driver, error) {
	ctx = wrap.WithAction(ctx, "proximity.FindNearby")

	// Callers that never resolved a real point pass the zero value, so the
	// origin is treated as a missing location.
	if lat == 0 && lng == 0 {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing coordinates", types.ErrInvalidInput))
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: coordinates out of range", types.ErrInvalidInput))
	}
	if radiusKm < 0 {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: negative radius", types.ErrInvalidInput))
	}

	found, err := s.drivers.FindWithinRadius(ctx, lat, lng, radiusKm)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("find drivers within radius: %w", err))
	}

	s.logger.Debug(ctx, "radius query done", "candidates", len(found), "radius_km", radiusKm)
	return found, nil
}
