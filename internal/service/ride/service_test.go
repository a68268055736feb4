package ride

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/internal/service/fare"
	"github.com/gocab/gocab/pkg/logger"
)

type fixture struct {
	repo     *mockRideRepo
	riders   *mockRiderRepo
	geo      *mockGeo
	prox     *mockProximity
	notifier *mockNotifier
	broker   *mockBroker
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMockRideRepo(),
		riders:   newMockRiderRepo(),
		notifier: &mockNotifier{},
		broker:   &mockBroker{},
		prox:     &mockProximity{},
		geo: &mockGeo{
			coords: models.Coordinates{Latitude: 43.238949, Longitude: 76.889709},
			dd: models.DistanceDuration{
				DistanceMeters:  5000,
				DistanceText:    "5.0 km",
				DurationSeconds: 600,
				DurationText:    "10 mins",
			},
		},
	}

	f.svc = NewService(
		f.repo,
		f.riders,
		f.geo,
		fare.NewCalculator(),
		f.prox,
		f.notifier,
		f.broker,
		mockTxManager{},
		logger.New("ride-test", logger.LevelError),
		Config{DispatchRadiusKm: 5, OTPLength: 4},
	)
	return f
}

func (f *fixture) addRider(t *testing.T, handle string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	rider := models.Rider{ID: id, Name: "Aliya", Phone: "+77001234567"}
	if handle != "" {
		rider.SocketID = &handle
	}
	f.riders.mu.Lock()
	f.riders.riders[id] = rider
	f.riders.mu.Unlock()
	f.repo.mu.Lock()
	f.repo.riders[id] = rider
	f.repo.mu.Unlock()
	return id
}

func (f *fixture) addDriver(handle string) uuid.UUID {
	id := uuid.New()
	driver := models.Driver{
		ID:           id,
		Name:         "Marat",
		VehicleClass: types.VehicleCar,
		Status:       types.DriverActive,
	}
	if handle != "" {
		driver.SocketID = &handle
	}
	f.repo.mu.Lock()
	f.repo.drivers[id] = driver
	f.repo.mu.Unlock()
	return id
}

func (f *fixture) seedRide(riderID uuid.UUID, status types.RideStatus, driverID *uuid.UUID) models.Ride {
	ride := models.Ride{
		ID:           uuid.New(),
		RiderID:      riderID,
		DriverID:     driverID,
		Pickup:       "Abay 10",
		Destination:  "Dostyk 100",
		VehicleClass: types.VehicleCar,
		PaymentMode:  types.PaymentCash,
		Fare:         143,
		OTP:          "4821",
		Status:       status,
	}
	f.repo.put(ride)
	return ride
}

func waitForEvent(t *testing.T, n *mockNotifier, event string) push {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, p := range n.all() {
			if p.event == event {
				return p
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("no %s event pushed", event)
	return push{}
}

func TestCreateRide(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "rider-conn")

	ride, err := f.svc.Create(context.Background(), models.RideRequest{
		RiderID:      riderID,
		Pickup:       "Abay 10",
		Destination:  "Dostyk 100",
		VehicleClass: types.VehicleCar,
		PaymentMode:  types.PaymentCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != types.RidePending {
		t.Errorf("new ride should be pending, got %s", ride.Status)
	}
	if ride.DriverID != nil {
		t.Error("new ride should have no driver")
	}
	if ride.Fare != 143 {
		t.Errorf("expected fare 143, got %d", ride.Fare)
	}
	if len(ride.OTP) != 4 {
		t.Errorf("expected 4-digit otp, got %q", ride.OTP)
	}
	for _, c := range ride.OTP {
		if c < '0' || c > '9' {
			t.Errorf("otp should be digits only, got %q", ride.OTP)
		}
	}
	if f.broker.count() != 1 {
		t.Errorf("expected 1 broker publish, got %d", f.broker.count())
	}
}

func TestCreateRideDispatchesToNearbyDrivers(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "rider-conn")

	online := "driver-conn"
	f.prox.drivers = []models.Driver{
		{ID: uuid.New(), SocketID: &online},
		{ID: uuid.New()}, // offline, must be skipped
	}

	_, err := f.svc.Create(context.Background(), models.RideRequest{
		RiderID:      riderID,
		Pickup:       "Abay 10",
		Destination:  "Dostyk 100",
		VehicleClass: types.VehicleCar,
		PaymentMode:  types.PaymentCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := waitForEvent(t, f.notifier, models.EventNewRide)
	if p.handle != online {
		t.Errorf("new-ride pushed to %q, want %q", p.handle, online)
	}

	for _, got := range f.notifier.all() {
		if got.event == models.EventNewRide && got.handle == "" {
			t.Error("offline driver should not receive a push")
		}
	}
}

func TestCreateRideValidation(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")

	cases := []models.RideRequest{
		{RiderID: riderID, Destination: "B", VehicleClass: types.VehicleCar},
		{RiderID: riderID, Pickup: "A", VehicleClass: types.VehicleCar},
		{RiderID: riderID, Pickup: "A", Destination: "B", VehicleClass: "spaceship"},
	}
	for _, req := range cases {
		if _, err := f.svc.Create(context.Background(), req); !errors.Is(err, types.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for %+v, got %v", req, err)
		}
	}
	if f.repo.createCalls != 0 {
		t.Error("nothing should be persisted for invalid input")
	}
}

func TestCreateRideGeoFailure(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	f.geo.ddErr = types.ErrNoRoute

	_, err := f.svc.Create(context.Background(), models.RideRequest{
		RiderID:      riderID,
		Pickup:       "A",
		Destination:  "B",
		VehicleClass: types.VehicleCar,
		PaymentMode:  types.PaymentCash,
	})
	if !errors.Is(err, types.ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
	if f.repo.createCalls != 0 {
		t.Error("nothing should be persisted when the provider fails")
	}
}

func TestCreateRideUnknownRider(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), models.RideRequest{
		RiderID:      uuid.New(),
		Pickup:       "A",
		Destination:  "B",
		VehicleClass: types.VehicleCar,
		PaymentMode:  types.PaymentCash,
	})
	if !errors.Is(err, types.ErrRiderNotFound) {
		t.Errorf("expected ErrRiderNotFound, got %v", err)
	}
}

func TestAcceptRide(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "rider-conn")
	driverID := f.addDriver("driver-conn")
	ride := f.seedRide(riderID, types.RidePending, nil)

	got, err := f.svc.Accept(context.Background(), ride.ID, driverID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != types.RideAccepted {
		t.Errorf("expected accepted, got %s", got.Status)
	}
	if got.DriverID == nil || *got.DriverID != driverID {
		t.Error("driver should be assigned")
	}

	p := waitForEvent(t, f.notifier, models.EventRideAccepted)
	if p.handle != "rider-conn" {
		t.Errorf("ride-accepted pushed to %q, want rider-conn", p.handle)
	}
}

func TestAcceptConcurrentSingleWinner(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	ride := f.seedRide(riderID, types.RidePending, nil)

	const drivers = 10

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
		errs []error
	)
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Accept(context.Background(), ride.ID, f.addDriver(""))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else {
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly 1 winner out of %d, got %d", drivers, wins)
	}
	for _, err := range errs {
		if !errors.Is(err, types.ErrRideNotFound) {
			t.Errorf("losers should get ErrRideNotFound, got %v", err)
		}
	}
	if f.repo.status(ride.ID) != types.RideAccepted {
		t.Errorf("ride should end up accepted, got %s", f.repo.status(ride.ID))
	}
}

func TestAcceptNonPendingRide(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	first := f.addDriver("")
	ride := f.seedRide(riderID, types.RideAccepted, &first)

	_, err := f.svc.Accept(context.Background(), ride.ID, f.addDriver(""))
	if !errors.Is(err, types.ErrRideNotFound) {
		t.Errorf("expected ErrRideNotFound, got %v", err)
	}
}

func TestStartRide(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "rider-conn")
	driverID := f.addDriver("")
	ride := f.seedRide(riderID, types.RideAccepted, &driverID)

	got, err := f.svc.Start(context.Background(), ride.ID, driverID, "4821")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != types.RideOngoing {
		t.Errorf("expected ongoing, got %s", got.Status)
	}
	if got.OTP != "" {
		t.Error("otp must not leave the start path")
	}

	p := waitForEvent(t, f.notifier, models.EventRideStarted)
	if p.handle != "rider-conn" {
		t.Errorf("ride-started pushed to %q, want rider-conn", p.handle)
	}
}

func TestStartRideWrongOTP(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	driverID := f.addDriver("")
	ride := f.seedRide(riderID, types.RideAccepted, &driverID)

	_, err := f.svc.Start(context.Background(), ride.ID, driverID, "0000")
	if !errors.Is(err, types.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got %v", err)
	}
	if f.repo.status(ride.ID) != types.RideAccepted {
		t.Error("wrong otp must not change the ride")
	}
}

func TestStartRideWrongDriver(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	assigned := f.addDriver("")
	ride := f.seedRide(riderID, types.RideAccepted, &assigned)

	_, err := f.svc.Start(context.Background(), ride.ID, f.addDriver(""), "4821")
	if !errors.Is(err, types.ErrRideNotFound) {
		t.Errorf("expected ErrRideNotFound for another driver, got %v", err)
	}
}

func TestStartPendingRide(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	ride := f.seedRide(riderID, types.RidePending, nil)

	_, err := f.svc.Start(context.Background(), ride.ID, f.addDriver(""), "4821")
	if !errors.Is(err, types.ErrRideNotFound) {
		t.Errorf("expected ErrRideNotFound for pending ride, got %v", err)
	}
}

func TestEndRide(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "rider-conn")
	driverID := f.addDriver("")
	ride := f.seedRide(riderID, types.RideOngoing, &driverID)

	got, err := f.svc.End(context.Background(), ride.ID, driverID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != types.RideCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}

	waitForEvent(t, f.notifier, models.EventRideEnded)
}

func TestEndRideNotOngoing(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	driverID := f.addDriver("")
	ride := f.seedRide(riderID, types.RideAccepted, &driverID)

	_, err := f.svc.End(context.Background(), ride.ID, driverID)
	if !errors.Is(err, types.ErrRideNotFound) {
		t.Errorf("expected ErrRideNotFound before pickup, got %v", err)
	}
}

func TestCancelPendingRide(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	ride := f.seedRide(riderID, types.RidePending, nil)

	got, err := f.svc.Cancel(context.Background(), ride.ID, riderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != types.RideCancelled {
		t.Errorf("expected cancelled, got %s", got.Status)
	}
}

func TestCancelAcceptedRideNotifiesDriver(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	driverID := f.addDriver("driver-conn")
	ride := f.seedRide(riderID, types.RideAccepted, &driverID)

	if _, err := f.svc.Cancel(context.Background(), ride.ID, riderID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := waitForEvent(t, f.notifier, models.EventRideCancelled)
	if p.handle != "driver-conn" {
		t.Errorf("ride-cancelled pushed to %q, want driver-conn", p.handle)
	}
}

func TestCancelOngoingRide(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	driverID := f.addDriver("")
	ride := f.seedRide(riderID, types.RideOngoing, &driverID)

	_, err := f.svc.Cancel(context.Background(), ride.ID, riderID)
	if !errors.Is(err, types.ErrRideNotFound) {
		t.Errorf("ongoing ride must not be cancellable, got %v", err)
	}
}

func TestCancelSomeoneElsesRide(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	ride := f.seedRide(riderID, types.RidePending, nil)

	_, err := f.svc.Cancel(context.Background(), ride.ID, uuid.New())
	if !errors.Is(err, types.ErrRideNotFound) {
		t.Errorf("expected ErrRideNotFound for foreign ride, got %v", err)
	}
}

func TestGetFare(t *testing.T) {
	f := newFixture()

	quote, err := f.svc.GetFare(context.Background(), "Abay 10", "Dostyk 100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Fares[types.VehicleCar] != 143 {
		t.Errorf("expected car fare 143, got %d", quote.Fares[types.VehicleCar])
	}
	if len(quote.Fares) != len(types.VehicleClasses) {
		t.Errorf("quote should cover every class, got %d", len(quote.Fares))
	}
	if quote.DistanceText != "5.0 km" || quote.DurationText != "10 mins" {
		t.Errorf("provider text should pass through: %+v", quote)
	}
}

func TestGetFareEmptyInput(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.GetFare(context.Background(), "", "Dostyk 100"); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if f.geo.ddCalls != 0 {
		t.Error("provider should not be called for empty input")
	}
}

func TestBrokerFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture()
	riderID := f.addRider(t, "")
	driverID := f.addDriver("")
	ride := f.seedRide(riderID, types.RidePending, nil)
	f.broker.err = errors.New("broker down")

	got, err := f.svc.Accept(context.Background(), ride.ID, driverID)
	if err != nil {
		t.Fatalf("broker failure must be absorbed, got %v", err)
	}
	if got.Status != types.RideAccepted {
		t.Errorf("expected accepted, got %s", got.Status)
	}
}
