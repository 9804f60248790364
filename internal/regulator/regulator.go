package regulator

import "fmt"

const (
	DefaultKp         = 0.2
	DefaultKi         = 0.01
	DefaultKd         = 0.05
	DefaultSetpoint   = 200.0
	DefaultOutputLow  = 0.0
	DefaultOutputHigh = 400.0
	DefaultSampleTime = 0.01
)

// Config holds the loop parameters. It is read on every update but never
// mutated by the regulator itself; tuning layers swap in a new value and
// call Reset when appropriate.
type Config struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Setpoint float64

	// OutputLow/OutputHigh bound both the final output and the integral
	// accumulation (anti-windup).
	OutputLow  float64
	OutputHigh float64

	// SampleTime is the fixed step duration in seconds.
	SampleTime float64

	// DerivativeFilter in [0,1) low-passes the derivative term.
	// 0 disables filtering.
	DerivativeFilter float64
}

func DefaultConfig() Config {
	return Config{
		Kp:         DefaultKp,
		Ki:         DefaultKi,
		Kd:         DefaultKd,
		Setpoint:   DefaultSetpoint,
		OutputLow:  DefaultOutputLow,
		OutputHigh: DefaultOutputHigh,
		SampleTime: DefaultSampleTime,
	}
}

func (c Config) Validate() error {
	if c.SampleTime <= 0 {
		return fmt.Errorf("sample time must be positive, got %f", c.SampleTime)
	}
	if c.OutputLow > c.OutputHigh {
		return fmt.Errorf("output low %f exceeds output high %f", c.OutputLow, c.OutputHigh)
	}
	if c.DerivativeFilter < 0 || c.DerivativeFilter >= 1 {
		return fmt.Errorf("derivative filter must be in [0,1), got %f", c.DerivativeFilter)
	}
	return nil
}

// Regulator is a discrete PID loop with clamped-integral anti-windup and a
// measurement-based derivative. One instance owns one control loop; it is
// not safe for concurrent use.
type Regulator struct {
	cfg Config

	integral           float64
	lastMeasurement    float64
	hasLastMeasurement bool
	lastFilteredDeriv  float64
	lastOutput         float64
}

func New(cfg Config) (*Regulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Regulator{cfg: cfg}, nil
}

func (r *Regulator) Config() Config { return r.cfg }

// SetConfig replaces the loop parameters without touching internal state,
// so gains can be adjusted mid-run the way the live view does.
func (r *Regulator) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.cfg = cfg
	return nil
}

// Reset clears the integral, the derivative filter state, and the previous
// measurement. The next Update behaves like the very first call.
func (r *Regulator) Reset() {
	r.integral = 0
	r.hasLastMeasurement = false
	r.lastMeasurement = 0
	r.lastFilteredDeriv = 0
	r.lastOutput = 0
}

// Update advances the loop one sample and returns the clamped output.
//
// The derivative acts on the measurement rather than the error, so a
// setpoint step does not spike the output (derivative kick), and it is
// zero on the first call after New or Reset. The integral is clamped to
// the output limits every step: a loop that sat saturated does not need
// a long stretch of opposite-sign error to unwind.
func (r *Regulator) Update(measurement float64) float64 {
	cfg := r.cfg
	err := cfg.Setpoint - measurement

	proportional := cfg.Kp * err

	r.integral += cfg.Ki * err * cfg.SampleTime
	r.integral = clamp(r.integral, cfg.OutputLow, cfg.OutputHigh)

	rawDeriv := 0.0
	if r.hasLastMeasurement {
		rawDeriv = -(measurement - r.lastMeasurement) / cfg.SampleTime
	}
	filtered := rawDeriv
	if cfg.DerivativeFilter > 0 {
		filtered = cfg.DerivativeFilter*rawDeriv + (1-cfg.DerivativeFilter)*r.lastFilteredDeriv
	}
	r.lastFilteredDeriv = filtered

	output := proportional + r.integral + cfg.Kd*filtered
	output = clamp(output, cfg.OutputLow, cfg.OutputHigh)

	r.lastMeasurement = measurement
	r.hasLastMeasurement = true
	r.lastOutput = output

	return output
}

// Integral reports the current accumulated integral term.
func (r *Regulator) Integral() float64 { return r.integral }

// LastOutput reports the most recent clamped output, 0 before the first
// update. It is observability only and is never fed back into the loop.
func (r *Regulator) LastOutput() float64 { return r.lastOutput }

func clamp(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
