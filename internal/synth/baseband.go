// Package synth implements the coherent per-sample baseband synthesizer
// of spec.md §4.5/§4.6: for each (channel, pulse, sample) tuple it
// accumulates the complex contribution of every point scatterer and
// every ray-tracer snapshot under the radar's instantaneous waveform and
// platform state.
package synth

import (
	"math"

	"github.com/radarsimx/radarsimgo/internal/antenna"
	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/scatterer"
	"github.com/radarsimx/radarsimgo/internal/waveform"
)

// speedOfLight is c in m/s.
const speedOfLight = 299792458.0

// Geometry holds the transmit/receive channel world positions and
// platform body-frame rotations at one flattened sample index, used to
// resolve antenna gain in the channel's body frame.
type Geometry struct {
	TxPos, RxPos geom.Vec3
	TxRot, RxRot geom.Mat3
}

// Link bundles the per-(tx,rx) channel pair and radar-chain parameters
// that stay fixed across all scatterers for one sample.
type Link struct {
	Tx, Rx         antenna.Channel
	Waveform       *waveform.Waveform
	TxPowerDBm     float64
	RFGainDB       float64
	BasebandGainDB float64
	BBType         config.BasebandType
}

// txPowerWatts converts the transmitter's dBm rating to watts.
func (l Link) txPowerWatts() float64 {
	return math.Pow(10, (l.TxPowerDBm-30)/10)
}

// gainChainLinear is the combined RF+baseband amplitude gain (not power),
// applied once per sample regardless of scatterer count.
func (l Link) gainChainLinear() float64 {
	return math.Pow(10, (l.RFGainDB+l.BasebandGainDB)/20)
}

// bodyAngles converts a world-frame unit direction into the (azimuth,
// elevation) pair an antenna.Pattern expects, given the platform's
// rotation at the evaluation instant: azimuth is the spherical phi angle,
// elevation is measured up from the local xy-plane (pi/2 - theta).
func bodyAngles(rot geom.Mat3, worldDir geom.Vec3) (az, el float64) {
	local := rot.Transpose().Apply(worldDir)
	phi, theta := geom.CartesianToSpherical(local)
	return phi, math.Pi/2 - theta
}

// dechirpPhase is the phase this package mixes each scatterer's echo
// against: the transmitted waveform's own phase evaluated at the current
// local fast time tau MINUS its phase at the delayed transmit instant
// tau-deltaT. This is the standard FMCW "stretch processor" formulation:
// the beat/Doppler frequency the receiver records is the derivative of
// this phase difference. The difference already contains the carrier
// two-way range phase (about 2*pi*f*deltaT), so Point adds no separate
// range-phase term.
func dechirpPhase(wf *waveform.Waveform, pulse int, tau, deltaT float64) float64 {
	return wf.Phase(pulse, tau) - wf.Phase(pulse, tau-deltaT)
}

// Point evaluates one point scatterer's complex baseband contribution at
// flattened sample index i, pulse index pulse, and local fast time tau
// (seconds since the pulse start), given the transmit/receive channel
// geometry at this sample and an optional phase-noise multiplier
// (1+0i if unused). Implements spec.md §4.5's transmit-amplitude and
// receive-mixing equations specialized to an ideal point scatterer.
func Point(link Link, g Geometry, pt *scatterer.Point, i, pulse int, tau float64, phaseNoise complex128) complex128 {
	tgtPos := pt.PositionAt(i)

	txVec := geom.Sub(tgtPos, g.TxPos)
	rTx := geom.Norm(txVec)
	rxVec := geom.Sub(tgtPos, g.RxPos)
	rRx := geom.Norm(rxVec)
	if rTx <= 0 || rRx <= 0 {
		return 0
	}

	txAz, txEl := bodyAngles(g.TxRot, geom.Scale(1/rTx, txVec))
	rxAz, rxEl := bodyAngles(g.RxRot, geom.Scale(1/rRx, rxVec))
	gTx := link.Tx.GainTowards(txAz, txEl)
	gRx := link.Rx.GainTowards(rxAz, rxEl)

	sigma := pt.RCSAt(i)
	if sigma == 0 {
		return 0
	}

	fc := link.Waveform.CarrierFrequency(pulse)
	lambda := speedOfLight / fc
	deltaT := (rTx + rRx) / speedOfLight

	mag := math.Sqrt(link.txPowerWatts()) * gTx * gRx * lambda * math.Sqrt(sigma) /
		(math.Pow(4*math.Pi, 1.5) * rTx * rRx) * link.gainChainLinear()

	phase := dechirpPhase(link.Waveform, pulse, tau, deltaT) + pt.PhaseAt(i)

	amp := complex(mag, 0) * cmplxExp(phase)
	amp *= link.Tx.PulseMod(pulse) * link.Rx.PulseMod(pulse)
	amp *= link.Tx.WaveformMod(tau) * link.Rx.WaveformMod(tau)
	amp *= phaseNoise

	return applyBBType(amp, link.BBType)
}

// RayContribution is a pre-computed ray-tracer snapshot result ready to be
// mixed into baseband (spec.md §4.6 step 4): the coherent far-field
// amplitude the tracer accumulated, already including the two-way range
// phase and Fresnel/polarization evolution, plus the two-way range used
// to resolve the beat-frequency delay.
type RayContribution struct {
	Amplitude complex128
	RangeSum  float64 // r_tx + r_rx at the snapshot's instant, meters
}

// Ray mixes one pre-computed ray-tracer contribution into baseband at
// local fast time tau, pulse index pulse, applying the same dechirp
// mixing and gain chain as Point, per spec.md §4.6 step 4 ("the ray
// tracer already carries E and path length").
func Ray(link Link, rc RayContribution, pulse int, tau float64, phaseNoise complex128) complex128 {
	if rc.Amplitude == 0 {
		return 0
	}
	deltaT := rc.RangeSum / speedOfLight
	phase := dechirpPhase(link.Waveform, pulse, tau, deltaT)
	amp := rc.Amplitude * cmplxExp(phase) * complex(link.gainChainLinear(), 0) * phaseNoise
	return applyBBType(amp, link.BBType)
}

func applyBBType(amp complex128, bbType config.BasebandType) complex128 {
	if bbType == config.BasebandReal {
		return complex(2*real(amp), 0)
	}
	return amp
}

func cmplxExp(phase float64) complex128 {
	s, c := math.Sincos(phase)
	return complex(c, s)
}

// Accumulate coherently sums a set of per-scatterer contributions,
// matching spec.md §4.6's "accumulate" step. It exists as a named helper
// so call sites read as domain operations rather than a raw loop.
func Accumulate(contribs ...complex128) complex128 {
	var sum complex128
	for _, c := range contribs {
		sum += c
	}
	return sum
}
