package ride

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
)

type mockRideRepo struct {
	mu      sync.Mutex
	rides   map[uuid.UUID]*models.Ride
	riders  map[uuid.UUID]models.Rider
	drivers map[uuid.UUID]models.Driver

	createCalls int
	createErr   error
}

func newMockRideRepo() *mockRideRepo {
	return &mockRideRepo{
		rides:   make(map[uuid.UUID]*models.Ride),
		riders:  make(map[uuid.UUID]models.Rider),
		drivers: make(map[uuid.UUID]models.Driver),
	}
}

func (m *mockRideRepo) put(ride models.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := ride
	m.rides[ride.ID] = &r
}

func (m *mockRideRepo) Create(ctx context.Context, ride *models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	r := *ride
	m.rides[ride.ID] = &r
	return nil
}

func (m *mockRideRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return models.Ride{}, types.ErrRideNotFound
	}
	out := *r
	out.OTP = ""
	return out, nil
}

func (m *mockRideRepo) GetWithOTP(ctx context.Context, id uuid.UUID) (models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return models.Ride{}, types.ErrRideNotFound
	}
	return *r, nil
}

func (m *mockRideRepo) GetWithParties(ctx context.Context, id uuid.UUID) (models.Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[id]
	if !ok {
		return models.Ride{}, types.ErrRideNotFound
	}
	out := *r
	out.OTP = ""
	if rider, ok := m.riders[out.RiderID]; ok {
		rc := rider
		out.Rider = &rc
	}
	if out.DriverID != nil {
		if driver, ok := m.drivers[*out.DriverID]; ok {
			dc := driver
			out.Driver = &dc
		}
	}
	return out, nil
}

func (m *mockRideRepo) AcceptPending(ctx context.Context, rideID, driverID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok || r.Status != types.RidePending {
		return false, nil
	}
	d := driverID
	r.Status = types.RideAccepted
	r.DriverID = &d
	return true, nil
}

func (m *mockRideRepo) StartAccepted(ctx context.Context, rideID, driverID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok || r.Status != types.RideAccepted || r.DriverID == nil || *r.DriverID != driverID {
		return false, nil
	}
	r.Status = types.RideOngoing
	return true, nil
}

func (m *mockRideRepo) CompleteOngoing(ctx context.Context, rideID, driverID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok || r.Status != types.RideOngoing || r.DriverID == nil || *r.DriverID != driverID {
		return false, nil
	}
	r.Status = types.RideCompleted
	return true, nil
}

func (m *mockRideRepo) CancelByRider(ctx context.Context, rideID, riderID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rides[rideID]
	if !ok || r.RiderID != riderID {
		return false, nil
	}
	if r.Status != types.RidePending && r.Status != types.RideAccepted {
		return false, nil
	}
	r.Status = types.RideCancelled
	return true, nil
}

func (m *mockRideRepo) status(id uuid.UUID) types.RideStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rides[id]; ok {
		return r.Status
	}
	return ""
}

type mockRiderRepo struct {
	mu     sync.Mutex
	riders map[uuid.UUID]models.Rider
}

func newMockRiderRepo() *mockRiderRepo {
	return &mockRiderRepo{riders: make(map[uuid.UUID]models.Rider)}
}

func (m *mockRiderRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Rider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.riders[id]
	if !ok {
		return models.Rider{}, types.ErrRiderNotFound
	}
	return r, nil
}

type mockGeo struct {
	mu sync.Mutex

	coords    models.Coordinates
	coordsErr error

	dd    models.DistanceDuration
	ddErr error

	ddCalls int
}

func (m *mockGeo) GetCoordinates(ctx context.Context, address string) (models.Coordinates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coords, m.coordsErr
}

func (m *mockGeo) GetDistanceDuration(ctx context.Context, pickup, destination string) (models.DistanceDuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ddCalls++
	return m.dd, m.ddErr
}

type mockProximity struct {
	mu      sync.Mutex
	drivers []models.Driver
	err     error
}

func (m *mockProximity) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.Driver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drivers, m.err
}

type push struct {
	handle  string
	event   string
	payload any
}

type mockNotifier struct {
	mu     sync.Mutex
	pushes []push
}

func (m *mockNotifier) Push(handle, event string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushes = append(m.pushes, push{handle: handle, event: event, payload: payload})
}

func (m *mockNotifier) all() []push {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]push, len(m.pushes))
	copy(out, m.pushes)
	return out
}

type mockBroker struct {
	mu        sync.Mutex
	published []models.Ride
	err       error
}

func (m *mockBroker) PublishRideStatus(ctx context.Context, ride models.Ride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, ride)
	return nil
}

func (m *mockBroker) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.published)
}

// mockTxManager runs the function directly; transactional behavior is the
// repository's concern in these tests.
type mockTxManager struct{}

func (mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
