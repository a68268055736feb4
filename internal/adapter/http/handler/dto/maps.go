package dto

import "github.com/gocab/gocab/pkg/validator"

type AddressQuery struct {
	Address string
}

func (q *AddressQuery) Validate(v *validator.Validator) {
	v.Check(q.Address != "", "address", "must be provided")
	v.Check(len(q.Address) >= 3, "address", "must be at least 3 characters long")
}

type RouteQuery struct {
	Pickup      string
	Destination string
}

func (q *RouteQuery) Validate(v *validator.Validator) {
	v.Check(q.Pickup != "", "pickup", "must be provided")
	v.Check(q.Destination != "", "destination", "must be provided")
}

type SuggestionsQuery struct {
	Input string
}

func (q *SuggestionsQuery) Validate(v *validator.Validator) {
	v.Check(q.Input != "", "input", "must be provided")
	v.Check(len(q.Input) >= 3, "input", "must be at least 3 characters long")
}
