package plant

import (
	"math"
	"testing"
)

func TestNewFirstOrderValidation(t *testing.T) {
	if _, err := NewFirstOrder(0); err == nil {
		t.Error("expected error for tau=0")
	}
	if _, err := NewFirstOrder(-1); err == nil {
		t.Error("expected error for negative tau")
	}
	if _, err := NewFirstOrder(1.0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewSecondOrderValidation(t *testing.T) {
	if _, err := NewSecondOrder(0, 0.7); err == nil {
		t.Error("expected error for omega_n=0")
	}
	if _, err := NewSecondOrder(-2, 0.7); err == nil {
		t.Error("expected error for negative omega_n")
	}
	// Zero damping is valid: an undamped oscillator.
	if _, err := NewSecondOrder(1.0, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFirstOrderStepResponse(t *testing.T) {
	m, err := NewFirstOrder(1.0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	// Constant drive of 100 from rest: value(t) = 100 * (1 - e^-t).
	dt := 0.0001
	value, velocity := 0.0, 0.0
	for i := 0; i < 10000; i++ {
		value, velocity = m.Advance(value, velocity, 100.0, dt)
	}
	expected := 100.0 * (1 - math.Exp(-1.0))
	if math.Abs(value-expected) > 0.05 {
		t.Errorf("expected ~%.4f at t=1, got %.4f", expected, value)
	}
	if velocity != 0 {
		t.Errorf("first-order model must not touch velocity, got %f", velocity)
	}
}

func TestSecondOrderConvergesToDrive(t *testing.T) {
	m, err := NewSecondOrder(2.0, 0.7)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	dt := 0.001
	value, velocity := 0.0, 0.0
	for i := 0; i < 20000; i++ {
		value, velocity = m.Advance(value, velocity, 50.0, dt)
	}
	if math.Abs(value-50.0) > 0.5 {
		t.Errorf("expected convergence to 50, got %f", value)
	}
	if math.Abs(velocity) > 0.5 {
		t.Errorf("expected velocity near 0 at rest, got %f", velocity)
	}
}

func TestSecondOrderUndampedOscillates(t *testing.T) {
	m, err := NewSecondOrder(1.0, 0)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	dt := 0.001
	value, velocity := 1.0, 0.0
	crossings := 0
	prev := value
	for i := 0; i < 20000; i++ {
		value, velocity = m.Advance(value, velocity, 0.0, dt)
		if prev > 0 && value <= 0 || prev < 0 && value >= 0 {
			crossings++
		}
		prev = value
	}
	// 20 seconds of an omega_n=1 oscillator: period 2*pi, ~6 zero crossings.
	if crossings < 4 {
		t.Errorf("expected sustained oscillation, got %d zero crossings", crossings)
	}
}
