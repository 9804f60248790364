package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/pidlab/internal/sim"
)

func TestExtractEmptySeries(t *testing.T) {
	sr := Extract(nil, nil, 100)

	assert.False(t, sr.RiseTime.Valid)
	assert.False(t, sr.SettlingTime.Valid)
	assert.False(t, sr.Overshoot.Valid)
	assert.False(t, sr.SteadyStateError.Valid)
}

func TestExtractIdealStep(t *testing.T) {
	// Jumps to the setpoint at t=0 and holds: every metric is zero,
	// and all are present.
	times := []float64{0, 0.1, 0.2, 0.3}
	values := []float64{100, 100, 100, 100}

	sr := Extract(times, values, 100)

	require.True(t, sr.RiseTime.Valid)
	assert.Equal(t, 0.0, sr.RiseTime.Value)
	require.True(t, sr.SettlingTime.Valid)
	assert.Equal(t, 0.0, sr.SettlingTime.Value)
	require.True(t, sr.Overshoot.Valid)
	assert.Equal(t, 0.0, sr.Overshoot.Value)
	require.True(t, sr.SteadyStateError.Valid)
	assert.Equal(t, 0.0, sr.SteadyStateError.Value)
}

func TestExtractRiseTime(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	values := []float64{0, 50, 90, 95}

	sr := Extract(times, values, 100)

	require.True(t, sr.RiseTime.Valid)
	assert.Equal(t, 2.0, sr.RiseTime.Value, "first sample at 90%% of setpoint")
}

func TestExtractNeverRises(t *testing.T) {
	times := []float64{0, 1, 2}
	values := []float64{0, 10, 20}

	sr := Extract(times, values, 100)

	assert.False(t, sr.RiseTime.Valid)
	assert.False(t, sr.SettlingTime.Valid)
	require.True(t, sr.Overshoot.Valid)
	assert.Equal(t, -80.0, sr.Overshoot.Value, "overshoot may be negative")
	require.True(t, sr.SteadyStateError.Valid)
	assert.Equal(t, 80.0, sr.SteadyStateError.Value)
}

func TestExtractSettlingRequiresSuffix(t *testing.T) {
	// Enters the 2% band, leaves it, re-enters for good at t=3.
	times := []float64{0, 1, 2, 3, 4, 5, 6}
	values := []float64{0, 99, 105, 99, 100, 101, 99}

	sr := Extract(times, values, 100)

	require.True(t, sr.SettlingTime.Valid)
	assert.Equal(t, 3.0, sr.SettlingTime.Value)
}

func TestExtractNeverSettles(t *testing.T) {
	times := []float64{0, 1, 2}
	values := []float64{0, 100, 110}

	sr := Extract(times, values, 100)

	assert.False(t, sr.SettlingTime.Valid, "last sample outside band")
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(sim.Sample{Output: 3})
	m.Observe(sim.Sample{Output: -1})

	assert.Equal(t, "control_effort", m.Name())
	assert.Equal(t, 2.0, m.Value())

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}

func TestIAE(t *testing.T) {
	m := NewIAE(100, 0.1)
	m.Observe(sim.Sample{Value: 90})
	m.Observe(sim.Sample{Value: 110})

	assert.InDelta(t, 2.0, m.Value(), 1e-12)

	m.Reset()
	assert.Equal(t, 0.0, m.Value())
}
