package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/types"
)

// Ride is the central record tracking one trip request from creation to
// completion. The OTP is generated once at creation, compared exactly once
// at ride start, and never serialized into any response.
type Ride struct {
	ID      uuid.UUID `json:"id"`
	RiderID uuid.UUID `json:"rider_id"`
	// DriverID is unset exactly while the ride is pending.
	DriverID *uuid.UUID `json:"driver_id,omitempty"`

	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`

	VehicleClass types.VehicleClass `json:"vehicle_class"`
	PaymentMode  types.PaymentMode  `json:"payment_mode"`

	// Fare is computed once at creation for the chosen class and never
	// changes afterwards.
	Fare            int64 `json:"fare"`
	DistanceMeters  int64 `json:"distance_meters"`
	DurationSeconds int64 `json:"duration_seconds"`

	OTP string `json:"-"`

	Status types.RideStatus `json:"status"`

	// Payment correlation fields, populated by the external payment flow.
	PaymentID *string `json:"payment_id,omitempty"`
	OrderID   *string `json:"order_id,omitempty"`
	Signature *string `json:"signature,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated on reads that join the parties in.
	Rider  *Rider  `json:"rider,omitempty"`
	Driver *Driver `json:"driver,omitempty"`
}

// RideRequest is the input to ride creation.
type RideRequest struct {
	RiderID      uuid.UUID
	Pickup       string
	Destination  string
	VehicleClass types.VehicleClass
	PaymentMode  types.PaymentMode
}
