package sim

import "fmt"

// Config describes one simulation run. The step duration comes from the
// regulator's own sample time; Duration sets how many steps a batch run
// takes and where the midpoint disturbance switches on.
type Config struct {
	Duration        float64
	InitialValue    float64
	InitialVelocity float64

	// Disturbance is a step load change added to the process value from
	// the run's midpoint onward, in value units per second.
	Disturbance float64

	// NoiseStdDev corrupts the measurement seen by the regulator with
	// zero-mean gaussian noise. The physical process value itself stays
	// noise free. Zero disables noise entirely.
	NoiseStdDev float64
	Seed        int64

	// PhysicalLow/PhysicalHigh hard-clamp the simulated process value,
	// independent of the regulator's output limits.
	PhysicalLow  float64
	PhysicalHigh float64
}

func (c Config) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.NoiseStdDev < 0 {
		return fmt.Errorf("noise stddev must be non-negative, got %f", c.NoiseStdDev)
	}
	if c.PhysicalLow > c.PhysicalHigh {
		return fmt.Errorf("physical low %f exceeds physical high %f", c.PhysicalLow, c.PhysicalHigh)
	}
	return nil
}

// Sample is one recorded simulation step.
type Sample struct {
	Time   float64
	Value  float64
	Output float64
}

// Result is the recorded trajectory of a completed run. It is not
// mutated after Run returns.
type Result struct {
	Times   []float64
	Values  []float64
	Outputs []float64
}

func (r *Result) Len() int { return len(r.Times) }

func (r *Result) append(s Sample) {
	r.Times = append(r.Times, s.Time)
	r.Values = append(r.Values, s.Value)
	r.Outputs = append(r.Outputs, s.Output)
}

// Observer receives every step of a run as it happens.
type Observer interface {
	Observe(s Sample)
}
