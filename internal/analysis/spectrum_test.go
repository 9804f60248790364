package analysis

import (
	"math"
	"testing"
)

func TestPowerSpectrumPadsToPowerOfTwo(t *testing.T) {
	data := make([]float64, 100)
	ps := PowerSpectrum(data)
	// 100 pads to 128, spectrum keeps half.
	if len(ps) != 64 {
		t.Errorf("expected 64 bins, got %d", len(ps))
	}
}

func TestDominantFrequencySine(t *testing.T) {
	const (
		sampleTime = 0.01
		freq       = 2.0
	)
	data := make([]float64, 1024)
	for i := range data {
		data[i] = 100 + 10*math.Sin(2*math.Pi*freq*float64(i)*sampleTime)
	}

	got := DominantFrequency(data, sampleTime)
	if math.Abs(got-freq) > 0.2 {
		t.Errorf("expected ~%.1f hz, got %.3f hz", freq, got)
	}
}

func TestDominantFrequencyConstantOffset(t *testing.T) {
	// A settled loop holding the setpoint has no dominant oscillation;
	// the DC offset must not register as one.
	data := make([]float64, 256)
	for i := range data {
		data[i] = 200
	}

	if got := DominantFrequency(data, 0.01); got != 0 {
		t.Errorf("expected 0 for constant series, got %f", got)
	}
}

func TestDominantFrequencyShortSeries(t *testing.T) {
	if got := DominantFrequency([]float64{1, 2}, 0.01); got != 0 {
		t.Errorf("expected 0 for short series, got %f", got)
	}
}
