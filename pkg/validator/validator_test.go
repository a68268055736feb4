package validator

import "testing"

func TestCheck_RecordsFirstFailureOnly(t *testing.T) {
	v := New()

	v.Check(false, "pickup", "must be provided")
	v.Check(false, "pickup", "must be at least 3 characters long")

	if v.Valid() {
		t.Fatal("validator should not be valid after a failed check")
	}
	if got := v.Errors["pickup"]; got != "must be provided" {
		t.Fatalf("expected first message to win, got %q", got)
	}
}

func TestCheck_PassingChecksLeaveValidatorValid(t *testing.T) {
	v := New()

	v.Check(true, "pickup", "must be provided")
	v.Check(true, "destination", "must be provided")

	if !v.Valid() {
		t.Fatalf("expected valid, got errors: %v", v.Errors)
	}
}

func TestPermittedValue(t *testing.T) {
	if !PermittedValue("car", "auto", "motorcycle", "car") {
		t.Error("car should be permitted")
	}
	if PermittedValue("bus", "auto", "motorcycle", "car") {
		t.Error("bus should not be permitted")
	}
}
