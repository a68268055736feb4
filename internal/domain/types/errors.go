package types

import "errors"

var (
	// ErrInvalidInput covers missing or malformed caller input.
	ErrInvalidInput = errors.New("invalid input")

	ErrRideNotFound   = errors.New("ride not found")
	ErrRiderNotFound  = errors.New("rider not found")
	ErrDriverNotFound = errors.New("driver not found")

	// ErrInvalidOTP is returned when the pickup code does not match.
	ErrInvalidOTP = errors.New("invalid otp")

	// ErrGeoProvider covers an unreachable or non-OK mapping provider.
	ErrGeoProvider = errors.New("geo provider failure")

	// ErrNoRoute means the provider found no route between the addresses.
	ErrNoRoute = errors.New("no route found")

	ErrNotFound = errors.New("requested item not found")
)
