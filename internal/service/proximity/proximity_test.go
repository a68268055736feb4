package proximity

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/pkg/logger"
)

type mockFinder struct {
	mu      sync.Mutex
	calls   int
	drivers []models.Driver
	err     error

	gotLat, gotLng, gotRadius float64
}

func (m *mockFinder) FindWithinRadius(ctx context.Context, lat, lng, radiusKm float64) ([]models.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.gotLat, m.gotLng, m.gotRadius = lat, lng, radiusKm
	return m.drivers, m.err
}

func newTestService(finder *mockFinder) *Service {
	return NewService(finder, logger.New("proximity-test", logger.LevelError))
}

func TestFindNearbyPassesThrough(t *testing.T) {
	want := []models.Driver{{ID: uuid.New(), Name: "Askar"}}
	finder := &mockFinder{drivers: want}
	svc := newTestService(finder)

	got, err := svc.FindNearby(context.Background(), 43.238949, 76.889709, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != want[0].ID {
		t.Errorf("unexpected result: %+v", got)
	}
	if finder.calls != 1 {
		t.Errorf("expected 1 repository call, got %d", finder.calls)
	}
	if finder.gotRadius != 5 {
		t.Errorf("radius not forwarded: got %v", finder.gotRadius)
	}
}

func TestFindNearbyMissingCoordinates(t *testing.T) {
	finder := &mockFinder{}
	svc := newTestService(finder)

	if _, err := svc.FindNearby(context.Background(), 0, 0, 5); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for (0,0), got %v", err)
	}
	if finder.calls != 0 {
		t.Errorf("repository should not be queried on invalid input")
	}
}

func TestFindNearbyNegativeRadius(t *testing.T) {
	svc := newTestService(&mockFinder{})

	if _, err := svc.FindNearby(context.Background(), 43.2, 76.8, -1); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative radius, got %v", err)
	}
}

func TestFindNearbyZeroRadiusIsValid(t *testing.T) {
	finder := &mockFinder{drivers: []models.Driver{}}
	svc := newTestService(finder)

	if _, err := svc.FindNearby(context.Background(), 43.2, 76.8, 0); err != nil {
		t.Errorf("zero radius should be a valid exact-point query, got %v", err)
	}
	if finder.calls != 1 {
		t.Errorf("expected repository call for zero radius")
	}
}

func TestFindNearbyCoordinatesOutOfRange(t *testing.T) {
	svc := newTestService(&mockFinder{})

	cases := []struct{ lat, lng float64 }{
		{91, 0.1},
		{-91, 0.1},
		{0.1, 181},
		{0.1, -181},
	}
	for _, tc := range cases {
		if _, err := svc.FindNearby(context.Background(), tc.lat, tc.lng, 5); !errors.Is(err, types.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for (%v,%v), got %v", tc.lat, tc.lng, err)
		}
	}
}

func TestFindNearbyRepositoryError(t *testing.T) {
	finder := &mockFinder{err: errors.New("connection refused")}
	svc := newTestService(finder)

	if _, err := svc.FindNearby(context.Background(), 43.2, 76.8, 5); err == nil {
		t.Error("expected error from repository to surface")
	}
}

func TestDistanceKnownPoints(t *testing.T) {
	// One degree of latitude is about 111.19 km on a 6371 km sphere.
	d := Distance(0, 0, 1, 0)
	if math.Abs(d-111.19) > 0.1 {
		t.Errorf("expected ~111.19 km, got %v", d)
	}

	if d := Distance(43.24, 76.89, 43.24, 76.89); d != 0 {
		t.Errorf("distance to itself should be 0, got %v", d)
	}
}

func TestWithinRadiusBoundaryInclusive(t *testing.T) {
	d := Distance(0, 0, 1, 0)

	if !WithinRadius(0, 0, 1, 0, d) {
		t.Error("point exactly on the boundary should be included")
	}
	if WithinRadius(0, 0, 1, 0, d-0.01) {
		t.Error("point just outside the boundary should be excluded")
	}
}
