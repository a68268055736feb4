package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/adapter/http/handler/dto"
	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/pkg/logger"
	wrap "github.com/gocab/gocab/pkg/logger/wrapper"
	"github.com/gocab/gocab/pkg/validator"
)

type RideService interface {
	Create(ctx context.Context, req models.RideRequest) (models.Ride, error)
	Accept(ctx context.Context, rideID, driverID uuid.UUID) (models.Ride, error)
	Start(ctx context.Context, rideID, driverID uuid.UUID, otp string) (models.Ride, error)
	End(ctx context.Context, rideID, driverID uuid.UUID) (models.Ride, error)
	Cancel(ctx context.Context, rideID, riderID uuid.UUID) (models.Ride, error)
	GetFare(ctx context.Context, pickup, destination string) (models.FareQuote, error)
}

type Ride struct {
	service RideService
	log     logger.Logger
}

func NewRide(service RideService, log logger.Logger) *Ride {
	return &Ride{
		service: service,
		log:     log,
	}
}

// CreateRide requests a new ride for the authenticated rider.
func (h *Ride) CreateRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_ride")

	identity, ok := models.IdentityFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var req dto.CreateRideRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	ride, err := h.service.Create(ctx, models.RideRequest{
		RiderID:      identity.ID,
		Pickup:       req.Pickup,
		Destination:  req.Destination,
		VehicleClass: types.VehicleClass(req.VehicleClass),
		PaymentMode:  types.PaymentMode(req.PaymentMode),
	})
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to create ride", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, envelope{"ride": ride}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

// AcceptRide claims a pending ride for the authenticated driver.
func (h *Ride) AcceptRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "accept_ride")

	identity, rideID, ok := h.rideCall(w, r)
	if !ok {
		return
	}

	ride, err := h.service.Accept(ctx, rideID, identity.ID)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to accept ride", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

// StartRide begins an accepted ride after checking the rider's pickup code.
func (h *Ride) StartRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "start_ride")

	identity, rideID, ok := h.rideCall(w, r)
	if !ok {
		return
	}

	var req dto.StartRideRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	if req.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	ride, err := h.service.Start(ctx, rideID, identity.ID, req.OTP)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to start ride", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

// EndRide completes an ongoing ride.
func (h *Ride) EndRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "end_ride")

	identity, rideID, ok := h.rideCall(w, r)
	if !ok {
		return
	}

	ride, err := h.service.End(ctx, rideID, identity.ID)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to end ride", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

// CancelRide abandons the rider's own ride before pickup.
func (h *Ride) CancelRide(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "cancel_ride")

	identity, rideID, ok := h.rideCall(w, r)
	if !ok {
		return
	}

	ride, err := h.service.Cancel(ctx, rideID, identity.ID)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to cancel ride", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"ride": ride}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

// GetFare quotes every vehicle class for a pickup/destination pair.
func (h *Ride) GetFare(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_fare")

	q := dto.RouteQuery{
		Pickup:      r.URL.Query().Get("pickup"),
		Destination: r.URL.Query().Get("destination"),
	}

	v := validator.New()
	if q.Validate(v); !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	quote, err := h.service.GetFare(ctx, q.Pickup, q.Destination)
	if err != nil {
		h.log.Error(wrap.ErrorCtx(ctx, err), "failed to quote fare", err)
		domainErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"fare": quote}, nil); err != nil {
		h.log.Error(ctx, "failed to write response", err)
	}
}

// rideCall pulls the caller identity and the ride id out of the request,
// writing the error response itself when either is missing.
func (h *Ride) rideCall(w http.ResponseWriter, r *http.Request) (models.Identity, uuid.UUID, bool) {
	identity, ok := models.IdentityFromContext(r.Context())
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authorization required")
		return models.Identity{}, uuid.Nil, false
	}

	rideID, err := uuid.Parse(r.PathValue("ride_id"))
	if err != nil {
		badRequestResponse(w, "ride_id must be a valid UUID")
		return models.Identity{}, uuid.Nil, false
	}

	return identity, rideID, true
}
