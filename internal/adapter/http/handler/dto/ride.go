package dto

import (
	"github.com/gocab/gocab/internal/domain/models"
	"github.com/gocab/gocab/internal/domain/types"
	"github.com/gocab/gocab/pkg/validator"
)

type CreateRideRequest struct {
	Pickup       string `json:"pickup"`
	Destination  string `json:"destination"`
	VehicleClass string `json:"vehicle_class"`
	PaymentMode  string `json:"payment_mode"`
}

func (r *CreateRideRequest) Validate(v *validator.Validator) {
	v.Check(r.Pickup != "", "pickup", "must be provided")
	v.Check(len(r.Pickup) <= 255, "pickup", "must not be more than 255 characters long")

	v.Check(r.Destination != "", "destination", "must be provided")
	v.Check(len(r.Destination) <= 255, "destination", "must not be more than 255 characters long")

	v.Check(r.VehicleClass != "", "vehicle_class", "must be provided")
	if r.VehicleClass != "" {
		v.Check(validator.PermittedValue(types.VehicleClass(r.VehicleClass), types.VehicleClasses...),
			"vehicle_class", "must be one of auto, motorcycle, or car")
	}

	v.Check(r.PaymentMode != "", "payment_mode", "must be provided")
	if r.PaymentMode != "" {
		v.Check(validator.PermittedValue(types.PaymentMode(r.PaymentMode),
			types.PaymentCash, types.PaymentUPI, types.PaymentDebitCard),
			"payment_mode", "must be one of cash, upi, or debit-card")
	}
}

type StartRideRequest struct {
	OTP string `json:"otp"`
}

func (r *StartRideRequest) Validate(v *validator.Validator) {
	v.Check(r.OTP != "", "otp", "must be provided")
}

type RideResponse struct {
	Ride models.Ride `json:"ride"`
}

type FareQuoteResponse struct {
	Fares    map[types.VehicleClass]int64 `json:"fares"`
	Distance string                       `json:"distance"`
	Duration string                       `json:"duration"`
}
