package fare

import (
	"errors"
	"testing"

	"github.com/gocab/gocab/internal/domain/types"
)

func TestFareCarScenario(t *testing.T) {
	c := NewCalculator()

	got, err := c.Fare(types.VehicleCar, 5000, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 50 + 5*10 + 10*4.3 = 143
	if got != 143 {
		t.Errorf("expected fare 143, got %d", got)
	}
}

func TestFareDeterministic(t *testing.T) {
	c := NewCalculator()

	first, err := c.Fare(types.VehicleAuto, 12345, 987)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := c.Fare(types.VehicleAuto, 12345, 987)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("fare not deterministic: %d vs %d", again, first)
		}
	}
}

func TestFareMonotonic(t *testing.T) {
	c := NewCalculator()

	short, _ := c.Fare(types.VehicleMotorcycle, 1000, 300)
	long, _ := c.Fare(types.VehicleMotorcycle, 20000, 300)
	if long <= short {
		t.Errorf("longer ride should cost more: short=%d long=%d", short, long)
	}

	quick, _ := c.Fare(types.VehicleMotorcycle, 1000, 60)
	slow, _ := c.Fare(types.VehicleMotorcycle, 1000, 3600)
	if slow <= quick {
		t.Errorf("slower ride should cost more: quick=%d slow=%d", quick, slow)
	}
}

func TestFareUnknownClass(t *testing.T) {
	c := NewCalculator()

	if _, err := c.Fare(types.VehicleClass("rickshaw"), 1000, 60); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFareNegativeInput(t *testing.T) {
	c := NewCalculator()

	if _, err := c.Fare(types.VehicleCar, -1, 60); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative distance, got %v", err)
	}
	if _, err := c.Fare(types.VehicleCar, 1000, -1); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for negative duration, got %v", err)
	}
}

func TestQuoteCoversAllClasses(t *testing.T) {
	c := NewCalculator()

	quote, err := c.Quote(5000, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, class := range types.VehicleClasses {
		if _, ok := quote[class]; !ok {
			t.Errorf("quote missing class %s", class)
		}
	}
	if quote[types.VehicleCar] != 143 {
		t.Errorf("expected car fare 143 in quote, got %d", quote[types.VehicleCar])
	}
}
