package models

import (
	"time"

	"github.com/google/uuid"
)

// Socket event names pushed to connected clients.
const (
	EventNewRide       = "new-ride"
	EventRideAccepted  = "ride-accepted"
	EventRideStarted   = "ride-started"
	EventRideEnded     = "ride-ended"
	EventRideCancelled = "ride-cancelled"
)

// SocketMessage is the envelope for every websocket frame, inbound and
// outbound.
type SocketMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// JoinPayload identifies the party behind a fresh websocket connection.
type JoinPayload struct {
	UserID   string `json:"user_id"`
	UserType string `json:"user_type"`
}

// LocationPayload carries a driver location update.
type LocationPayload struct {
	UserID   string   `json:"user_id"`
	Location Location `json:"location"`
}

// RideStatusMessage is the broker message published after each committed
// lifecycle transition.
type RideStatusMessage struct {
	RideID    uuid.UUID  `json:"ride_id"`
	Status    string     `json:"status"`
	RiderID   uuid.UUID  `json:"rider_id"`
	DriverID  *uuid.UUID `json:"driver_id,omitempty"`
	Fare      int64      `json:"fare"`
	Timestamp time.Time  `json:"timestamp"`
}
