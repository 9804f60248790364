package plant

import "fmt"

const (
	DefaultTau          = 1.0
	DefaultOmegaN       = 1.0
	DefaultDampingRatio = 0.7
)

// Model advances a lumped process one sample. Implementations are
// constructed and validated once; an instantiated model can never
// divide by zero or otherwise fail mid-run.
type Model interface {
	// Kind returns the stable identifier used in configs and run metadata.
	Kind() string
	// Advance computes the next (value, velocity) given the regulator
	// drive u over one step dt.
	Advance(value, velocity, u, dt float64) (float64, float64)
}

// FirstOrder is a first-order lag: dPV/dt = (u - PV) / tau.
type FirstOrder struct {
	Tau float64
}

func NewFirstOrder(tau float64) (*FirstOrder, error) {
	if tau <= 0 {
		return nil, fmt.Errorf("tau must be positive, got %f", tau)
	}
	return &FirstOrder{Tau: tau}, nil
}

func (m *FirstOrder) Kind() string { return "first_order" }

func (m *FirstOrder) Advance(value, velocity, u, dt float64) (float64, float64) {
	value += (u - value) / m.Tau * dt
	return value, velocity
}

// SecondOrder is a mass-spring-damper style plant driven toward the
// regulator output:
//
//	acc = omegaN^2 * (u - PV) - 2 * zeta * omegaN * vel
type SecondOrder struct {
	OmegaN       float64
	DampingRatio float64
}

func NewSecondOrder(omegaN, dampingRatio float64) (*SecondOrder, error) {
	if omegaN <= 0 {
		return nil, fmt.Errorf("omega_n must be positive, got %f", omegaN)
	}
	return &SecondOrder{OmegaN: omegaN, DampingRatio: dampingRatio}, nil
}

func (m *SecondOrder) Kind() string { return "second_order" }

func (m *SecondOrder) Advance(value, velocity, u, dt float64) (float64, float64) {
	acc := m.OmegaN*m.OmegaN*(u-value) - 2*m.DampingRatio*m.OmegaN*velocity
	velocity += acc * dt
	value += velocity * dt
	return value, velocity
}
