// Package waveform evaluates the radar's piecewise-linear frequency
// profile and the per-pulse instantaneous phase, per spec.md §3/§4.5.
package waveform

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// Waveform holds one pulse's frequency-vs-time profile plus the per-pulse
// offsets that make up the full transmit sequence.
type Waveform struct {
	T              []float64 // strictly increasing time grid, s
	F              []float64 // frequency grid, Hz, same length as T
	FOffset        []float64 // per-pulse carrier offset, Hz
	PulseStartTime []float64 // per-pulse start time, s, strictly increasing

	// cumPhase[i] holds 2*pi*integral(F, T[0..T[i]]) precomputed once at
	// New, per spec.md §4.5 ("Cumulative integral is pre-computed once per
	// call in O(K)").
	cumPhase []float64
}

// New validates and precomputes the cumulative phase integral. O(K) where
// K = len(t).
func New(t, f, fOffset, pulseStart []float64) (*Waveform, error) {
	if len(t) != len(f) {
		return nil, simerr.New(simerr.InvalidConfig, "waveform: t/f length mismatch (%d vs %d)", len(t), len(f))
	}
	if len(t) < 2 {
		return nil, simerr.New(simerr.InvalidConfig, "waveform: need at least 2 grid points")
	}
	if !sort.Float64sAreSorted(t) || hasDuplicates(t) {
		return nil, simerr.New(simerr.InvalidConfig, "waveform: t grid must be strictly increasing")
	}
	if !sort.Float64sAreSorted(pulseStart) || hasDuplicates(pulseStart) {
		return nil, simerr.New(simerr.InvalidConfig, "waveform: pulse_start_time must be strictly increasing")
	}
	if len(fOffset) != len(pulseStart) {
		return nil, simerr.New(simerr.InvalidConfig, "waveform: f_offset/pulse_start_time length mismatch (%d vs %d)", len(fOffset), len(pulseStart))
	}

	w := &Waveform{T: t, F: f, FOffset: fOffset, PulseStartTime: pulseStart}
	w.cumPhase = cumulativeFreqIntegral(t, f)
	return w, nil
}

// cumulativeFreqIntegral trapezoidally integrates f over t and returns
// 2*pi*cumulative integral at each grid point, via gonum/floats.CumSum over
// the per-segment trapezoid areas.
func cumulativeFreqIntegral(t, f []float64) []float64 {
	segments := make([]float64, len(t))
	segments[0] = 0
	for i := 1; i < len(t); i++ {
		dt := t[i] - t[i-1]
		segments[i] = 0.5 * (f[i] + f[i-1]) * dt
	}
	cum := make([]float64, len(segments))
	floats.CumSum(cum, segments)
	for i := range cum {
		cum[i] *= 2 * math.Pi
	}
	return cum
}

// FInst returns the instantaneous carrier frequency of pulse p at local
// time tau (measured from the pulse's own start), per spec.md §4.5.
func (w *Waveform) FInst(p int, tau float64) float64 {
	return interpLinear(w.T, w.F, tau) + w.FOffset[p]
}

// Phase returns the instantaneous phase (radians) of pulse p at local time
// tau: Phi(tau) = 2*pi*(cumulative_integral_of_f_grid[tau] + f_off[p]*tau),
// per spec.md §4.5.
func (w *Waveform) Phase(p int, tau float64) float64 {
	return interpLinear(w.T, w.cumPhase, tau) + 2*math.Pi*w.FOffset[p]*tau
}

// CarrierFrequency returns f_c for pulse p: f[0] + f_off[p] (spec.md §3).
func (w *Waveform) CarrierFrequency(p int) float64 {
	return w.F[0] + w.FOffset[p]
}

// interpLinear linearly interpolates y(x) over the strictly increasing
// grid xs/ys, clamping to the boundary values outside [xs[0], xs[n-1]].
func interpLinear(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	// i is the first index with xs[i] > x, so the bracketing segment is
	// [i-1, i].
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	frac := (x - x0) / (x1 - x0)
	return y0 + frac*(y1-y0)
}

func hasDuplicates(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] == xs[i-1] {
			return true
		}
	}
	return false
}
