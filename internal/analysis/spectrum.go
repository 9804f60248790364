package analysis

import (
	"math"
	"math/cmplx"
)

// FFT computes the discrete Fourier transform of a power-of-2 length
// series by radix-2 decimation.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitude spectrum of the series, zero
// padded up to the next power of 2. The DC bin is dropped so a constant
// offset does not mask the oscillation content.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	if len(ps) > 0 {
		ps[0] = 0
	}
	return ps
}

// DominantFrequency finds the strongest non-DC component of a sampled
// response, in hertz. A poorly damped loop shows up as a sharp peak at
// its ringing frequency. Returns 0 for series too short to analyze.
func DominantFrequency(data []float64, sampleTime float64) float64 {
	if len(data) < 4 || sampleTime <= 0 {
		return 0
	}

	ps := PowerSpectrum(data)
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	return float64(maxIdx) / (float64(n) * sampleTime)
}
