package models

import (
	"github.com/google/uuid"

	"github.com/gocab/gocab/internal/domain/types"
)

// Driver is the driver presence record: identity, current connection
// handle (nil while offline) and last reported location (nil until the
// first update). The record itself persists across disconnects.
type Driver struct {
	ID           uuid.UUID          `json:"id"`
	Name         string             `json:"name"`
	Phone        string             `json:"phone"`
	VehicleClass types.VehicleClass `json:"vehicle_class"`
	VehiclePlate string             `json:"vehicle_plate"`

	Status types.DriverStatus `json:"status"`

	SocketID *string   `json:"-"`
	Location *Location `json:"location,omitempty"`
}

// Location is a point in degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
