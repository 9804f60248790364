package sim

import (
	"context"
	"math/rand"

	"github.com/san-kum/pidlab/internal/plant"
	"github.com/san-kum/pidlab/internal/regulator"
)

// Stepper drives one regulator against one plant model, one sample per
// Step call. It owns the process state (value, velocity) and the seeded
// noise source; it has no internal timer, so the caller decides when
// ticks happen. A batch Run is the same Stepper looped, which keeps the
// two modes bit-identical for equal config and seed.
type Stepper struct {
	reg       *regulator.Regulator
	model     plant.Model
	cfg       Config
	noise     *rand.Rand
	observers []Observer

	value    float64
	velocity float64
	step     int
}

func NewStepper(reg *regulator.Regulator, model plant.Model, cfg Config) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Stepper{
		reg:      reg,
		model:    model,
		cfg:      cfg,
		noise:    rand.New(rand.NewSource(cfg.Seed)),
		value:    cfg.InitialValue,
		velocity: cfg.InitialVelocity,
	}, nil
}

func (s *Stepper) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Value reports the current physical process value.
func (s *Stepper) Value() float64 { return s.value }

// Time reports the timestamp of the next sample.
func (s *Stepper) Time() float64 { return float64(s.step) * s.reg.Config().SampleTime }

// Step advances the loop one sample: noisy measurement in, regulator
// update, plant advance, midpoint disturbance, physical clamp.
func (s *Stepper) Step() Sample {
	dt := s.reg.Config().SampleTime
	t := float64(s.step) * dt

	measurement := s.value
	if s.cfg.NoiseStdDev > 0 {
		measurement += s.noise.NormFloat64() * s.cfg.NoiseStdDev
	}

	output := s.reg.Update(measurement)
	s.value, s.velocity = s.model.Advance(s.value, s.velocity, output, dt)

	if t >= s.cfg.Duration/2 {
		s.value += s.cfg.Disturbance * dt
	}

	if s.value < s.cfg.PhysicalLow {
		s.value = s.cfg.PhysicalLow
	}
	if s.value > s.cfg.PhysicalHigh {
		s.value = s.cfg.PhysicalHigh
	}

	s.step++

	sample := Sample{Time: t, Value: s.value, Output: output}
	for _, o := range s.observers {
		o.Observe(sample)
	}
	return sample
}

// Restart rewinds the stepper and its regulator to the initial state,
// reseeding the noise source so a rerun reproduces the same trajectory.
func (s *Stepper) Restart() {
	s.reg.Reset()
	s.noise = rand.New(rand.NewSource(s.cfg.Seed))
	s.value = s.cfg.InitialValue
	s.velocity = s.cfg.InitialVelocity
	s.step = 0
}

// Run records floor(duration/sampleTime) samples of the closed loop.
// On cancellation the partial result is returned with the context error.
func Run(ctx context.Context, reg *regulator.Regulator, model plant.Model, cfg Config, observers ...Observer) (*Result, error) {
	stepper, err := NewStepper(reg, model, cfg)
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		stepper.AddObserver(o)
	}

	steps := int(cfg.Duration / reg.Config().SampleTime)
	result := &Result{
		Times:   make([]float64, 0, steps),
		Values:  make([]float64, 0, steps),
		Outputs: make([]float64, 0, steps),
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		result.append(stepper.Step())
	}

	return result, nil
}
