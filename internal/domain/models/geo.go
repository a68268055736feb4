package models

import "github.com/gocab/gocab/internal/domain/types"

// Coordinates is a geocoded point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceDuration is the provider's answer for a pickup/destination pair.
// The text fields are the provider's human-readable rendering and are
// echoed through to clients untouched.
type DistanceDuration struct {
	DistanceMeters  int64  `json:"distance_meters"`
	DistanceText    string `json:"distance_text"`
	DurationSeconds int64  `json:"duration_seconds"`
	DurationText    string `json:"duration_text"`
}

// FareQuote is the per-class fare table for one pickup/destination pair.
type FareQuote struct {
	Fares        map[types.VehicleClass]int64 `json:"fares"`
	DistanceText string                       `json:"distance"`
	DurationText string                       `json:"duration"`
}

// Suggestion is one address autocomplete prediction.
type Suggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id,omitempty"`
}
