package fare

import (
	"fmt"
	"math"

	"github.com/gocab/gocab/internal/domain/types"
)

type rate struct {
	base   float64
	perKm  float64
	perMin float64
}

var rates = map[types.VehicleClass]rate{
	types.VehicleAuto:       {base: 25, perKm: 4, perMin: 2.5},
	types.VehicleMotorcycle: {base: 20, perKm: 2.5, perMin: 2.1},
	types.VehicleCar:        {base: 50, perKm: 10, perMin: 4.3},
}

// Calculator prices trips from provider distance and duration. Rates are
// fixed per vehicle class; the result is rounded to a whole currency unit.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Fare prices a single class.
func (c *Calculator) Fare(class types.VehicleClass, distanceMeters, durationSeconds int64) (int64, error) {
	r, ok := rates[class]
	if !ok {
		return 0, fmt.Errorf("%w: unknown vehicle class %q", types.ErrInvalidInput, class)
	}
	if distanceMeters < 0 || durationSeconds < 0 {
		return 0, fmt.Errorf("%w: negative distance or duration", types.ErrInvalidInput)
	}

	km := float64(distanceMeters) / 1000
	min := float64(durationSeconds) / 60
	return int64(math.Round(r.base + km*r.perKm + min*r.perMin)), nil
}

// Quote prices every known class at once.
func (c *Calculator) Quote(distanceMeters, durationSeconds int64) (map[types.VehicleClass]int64, error) {
	if distanceMeters < 0 || durationSeconds < 0 {
		return nil, fmt.Errorf("%w: negative distance or duration", types.ErrInvalidInput)
	}

	quote := make(map[types.VehicleClass]int64, len(rates))
	for class := range rates {
		f, err := c.Fare(class, distanceMeters, durationSeconds)
		if err != nil {
			return nil, err
		}
		quote[class] = f
	}
	return quote, nil
}
