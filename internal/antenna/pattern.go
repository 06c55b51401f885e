// Package antenna models one transmit or receive antenna channel: its
// body-frame location, polarization, and azimuth/elevation radiation
// patterns, per spec.md §3/§4.5.
package antenna

import (
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// Pattern interpolates a 1-D (angle, gain-dB) table, per spec.md §3:
// "gain at out-of-range angles is treated as -inf dB (no radiation)".
type Pattern struct {
	anglesRad []float64
	gainDB    []float64
	interp    interp.PiecewiseLinear
}

// NewPattern fits a piecewise-linear interpolant over the (sorted)
// angle/gain-dB table.
func NewPattern(anglesRad, gainDB []float64) (*Pattern, error) {
	if len(anglesRad) != len(gainDB) || len(anglesRad) == 0 {
		return nil, simerr.New(simerr.InvalidConfig, "antenna pattern: angle/gain length mismatch or empty")
	}
	for i := 1; i < len(anglesRad); i++ {
		if anglesRad[i] <= anglesRad[i-1] {
			return nil, simerr.New(simerr.InvalidConfig, "antenna pattern: angles must be strictly ascending")
		}
	}
	p := &Pattern{anglesRad: anglesRad, gainDB: gainDB}
	if err := p.interp.Fit(anglesRad, gainDB); err != nil {
		return nil, simerr.Wrap(simerr.InvalidConfig, err, "antenna pattern: fit failed")
	}
	return p, nil
}

// GainDB returns the interpolated gain in dB at angleRad, or negative
// infinity outside the table's domain.
func (p *Pattern) GainDB(angleRad float64) float64 {
	n := len(p.anglesRad)
	if angleRad < p.anglesRad[0] || angleRad > p.anglesRad[n-1] {
		return math.Inf(-1)
	}
	return p.interp.Predict(angleRad)
}

// GainLinear returns the interpolated gain as a linear (not dB) factor.
func (p *Pattern) GainLinear(angleRad float64) float64 {
	db := p.GainDB(angleRad)
	if math.IsInf(db, -1) {
		return 0
	}
	return math.Pow(10, db/20)
}

// Channel is one antenna channel: location in the platform body frame,
// complex polarization vector, az/el patterns, and the optional per-pulse
// and waveform-time modulation weights (spec.md §3/§6).
type Channel struct {
	Location     [3]float64
	Polarization [3]complex128
	Az           *Pattern
	El           *Pattern
	AntennaGainDB float64
	DelaySeconds float64

	PulseModulation []complex128 // optional, one per pulse
	WaveformModT    []float64    // optional piecewise-constant breakpoints
	WaveformModVar  []complex128
}

// PulseMod returns the per-pulse complex modulation weight for pulse p,
// defaulting to 1+0i when none was supplied.
func (c Channel) PulseMod(p int) complex128 {
	if c.PulseModulation == nil {
		return complex(1, 0)
	}
	return c.PulseModulation[p]
}

// WaveformMod returns the piecewise-constant waveform-time modulation
// weight active at local time tau, defaulting to 1+0i when unused. The
// active segment is the last breakpoint <= tau.
func (c Channel) WaveformMod(tau float64) complex128 {
	if len(c.WaveformModT) == 0 {
		return complex(1, 0)
	}
	idx := 0
	for i, t := range c.WaveformModT {
		if t <= tau {
			idx = i
		} else {
			break
		}
	}
	return c.WaveformModVar[idx]
}

// GainTowards returns the channel's total gain (linear, includes
// AntennaGainDB plus the interpolated az/el pattern) toward a direction
// given in the channel's own body frame as (azimuth, elevation) radians.
func (c Channel) GainTowards(azRad, elRad float64) float64 {
	azGain := 1.0
	if c.Az != nil {
		azGain = c.Az.GainLinear(azRad)
	}
	elGain := 1.0
	if c.El != nil {
		elGain = c.El.GainLinear(elRad)
	}
	return math.Pow(10, c.AntennaGainDB/20) * azGain * elGain
}
