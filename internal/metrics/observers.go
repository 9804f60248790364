package metrics

import (
	"math"

	"github.com/san-kum/pidlab/internal/sim"
)

// ControlEffort accumulates the mean absolute regulator output over a
// run. High effort with similar tracking usually means wasted actuation.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s sim.Sample) {
	c.sum += math.Abs(s.Output)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// IAE integrates the absolute tracking error over time, the usual
// scalar cost for comparing tunings on the same plant.
type IAE struct {
	setpoint float64
	dt       float64
	sum      float64
}

func NewIAE(setpoint, dt float64) *IAE {
	return &IAE{setpoint: setpoint, dt: dt}
}

func (m *IAE) Name() string { return "iae" }

func (m *IAE) Observe(s sim.Sample) {
	m.sum += math.Abs(m.setpoint-s.Value) * m.dt
}

func (m *IAE) Value() float64 { return m.sum }

func (m *IAE) Reset() { m.sum = 0 }
