package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// Detrend returns data with its mean removed.
func Detrend(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := stat.Mean(data, nil)
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

// Spectrum returns the one-sided amplitude spectrum of the detrended
// series. Bin k corresponds to k cycles over len(data) frames.
func Spectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	coeffs := fft.FFTReal(Detrend(data))
	n := len(coeffs)/2 + 1
	amp := make([]float64, n)
	for k := range amp {
		amp[k] = cmplx.Abs(coeffs[k]) / float64(len(data))
	}
	return amp
}

// DominantPeriod returns the period in frames of the strongest non-DC
// component and its amplitude. A flat or too-short series yields (0, 0).
func DominantPeriod(data []float64) (period, amplitude float64) {
	amp := Spectrum(data)
	best := 0
	for k := 1; k < len(amp); k++ {
		if amp[k] > amp[best] || best == 0 {
			best = k
		}
	}
	if best == 0 || amp[best] < 1e-12 {
		return 0, 0
	}
	return float64(len(data)) / float64(best), amp[best]
}

type Stats struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func Describe(data []float64) Stats {
	if len(data) == 0 {
		return Stats{}
	}
	s := Stats{
		N:    len(data),
		Mean: stat.Mean(data, nil),
		Min:  math.Inf(1),
		Max:  math.Inf(-1),
	}
	if len(data) > 1 {
		s.StdDev = stat.StdDev(data, nil)
	}
	for _, v := range data {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	return s
}
