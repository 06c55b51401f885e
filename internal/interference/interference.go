// Package interference implements spec.md §4.9's interference front-end:
// it treats another radar's transmitter as a direct-path emitter into a
// victim radar's receiver, with no intervening scene and no ray tracing.
// The antenna-gain and waveform-phase evaluation it performs is the same
// machinery packages antenna and waveform already provide for the main
// synthesizer; only the propagation model (one-way, no scattering term)
// differs from synth.Point.
package interference

import (
	"math"
	"sort"

	"github.com/radarsimx/radarsimgo/internal/antenna"
	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/platform"
	"github.com/radarsimx/radarsimgo/internal/simerr"
	"github.com/radarsimx/radarsimgo/internal/waveform"
)

// speedOfLight is c in m/s.
const speedOfLight = 299792458.0

// Run computes the direct-path interference tensor of spec.md §4.9: for
// every (channel, pulse, sample) of the victim radar, the coherent sum of
// every one of the emitter radar's transmit channels evaluated as a
// one-way source into the victim's matching receive channel. The
// returned tensor has the victim's own [ch][pulse][sample] shape, per
// spec.md §6's `sim_radar(...) -> {..., interference}`.
//
// The emitter's own platform motion is evaluated at the victim's global
// sample timestamps using only its scalar/grid-index-0 state (an emitter
// configured with a per-(channel,pulse,sample) motion grid keyed to its
// own channel layout has no matching index here; see DESIGN.md).
func Run(victim, emitter config.Radar, samples int) ([][][]complex128, error) {
	if err := victim.Validate(); err != nil {
		return nil, err
	}
	if err := emitter.Validate(); err != nil {
		return nil, err
	}
	if samples <= 0 {
		return nil, simerr.New(simerr.InvalidConfig, "interference: samples must be positive")
	}
	if emitter.Transmitter.Pulses == 0 || len(emitter.Transmitter.PulseStartTime) == 0 {
		return nil, simerr.New(simerr.InvalidConfig, "interference: emitter must transmit at least one pulse")
	}

	txCount, rxCount := len(victim.Transmitter.Channels), len(victim.Receiver.Channels)
	pulses := victim.Transmitter.Pulses
	numCh := len(victim.FrameTimes) * txCount * rxCount

	victimRx, err := toAntennaChannels(victim.Receiver.Channels)
	if err != nil {
		return nil, err
	}
	emitterTx, err := toAntennaChannels(emitter.Transmitter.Channels)
	if err != nil {
		return nil, err
	}

	rxWave, err := waveform.New(victim.Transmitter.T, victim.Transmitter.F, victim.Transmitter.FOffset, victim.Transmitter.PulseStartTime)
	if err != nil {
		return nil, err
	}
	txWave, err := waveform.New(emitter.Transmitter.T, emitter.Transmitter.F, emitter.Transmitter.FOffset, emitter.Transmitter.PulseStartTime)
	if err != nil {
		return nil, err
	}

	channelDelay := make([]float64, numCh)
	for ch := 0; ch < numCh; ch++ {
		_, _, rx := decomposeChannel(ch, txCount, rxCount)
		channelDelay[ch] = victimRx[rx].DelaySeconds
	}
	ts, err := platform.Timestamps(victim.FrameTimes, victim.Transmitter.PulseStartTime, victim.Receiver.FS, samples, channelDelay, txCount, rxCount)
	if err != nil {
		return nil, err
	}

	victimMotion := toMotion(victim.Motion)
	emitterMotion := toMotion(emitter.Motion)
	emitterFrameStart := 0.0
	if len(emitter.FrameTimes) > 0 {
		emitterFrameStart = emitter.FrameTimes[0]
	}

	txPowerWatts := math.Pow(10, (emitter.Transmitter.TxPowerDBm-30)/10)
	gainChain := math.Pow(10, (victim.Receiver.RFGainDB+victim.Receiver.BasebandGainDB)/20)

	out := make([][][]complex128, numCh)
	for ch := 0; ch < numCh; ch++ {
		frame, _, rx := decomposeChannel(ch, txCount, rxCount)
		out[ch] = make([][]complex128, pulses)
		for p := 0; p < pulses; p++ {
			row := make([]complex128, samples)
			frameStart := victim.FrameTimes[frame]
			pulseStart := victim.Transmitter.PulseStartTime[p]
			for s, t := range ts[ch][p] {
				rxTau := t - frameStart - pulseStart
				rxLoc, rxRot := victimMotion.PoseAt(ch, p, s, t)
				rxPos := geom.Add(rxRot.Apply(toVec3(victimRx[rx].Location)), rxLoc)

				txPulse, txTau := emitterLocalTime(txWave.PulseStartTime, emitterFrameStart, t)

				var sum complex128
				for _, tx := range emitterTx {
					txPos, txRot := channelWorldPose(emitterMotion, tx.Location, t)
					sum += directPath(directPathParams{
						tx: tx, rx: victimRx[rx],
						txPos: txPos, rxPos: rxPos,
						txRot: txRot, rxRot: rxRot,
						txWave: txWave, rxWave: rxWave,
						txPulse: txPulse, txTau: txTau,
						rxPulse: p, rxTau: rxTau,
						txPowerWatts: txPowerWatts, gainChain: gainChain,
						bbType: victim.Receiver.BBType,
					})
				}
				row[s] = sum
			}
			out[ch][p] = row
		}
	}
	return out, nil
}

// channelWorldPose evaluates an antenna channel's world-frame position
// and the platform's rotation at absolute time t, using motion-grid
// index (0,0,0) — the emitter side has no channel/pulse/sample index of
// its own to key a grid by (see Run's doc comment).
func channelWorldPose(m platform.Motion, local [3]float64, t float64) (geom.Vec3, geom.Mat3) {
	loc, rot := m.PoseAt(0, 0, 0, t)
	return geom.Add(rot.Apply(toVec3(local)), loc), rot
}

// bodyAngles converts a world-frame unit direction into the (azimuth,
// elevation) pair an antenna.Pattern expects, matching synth.bodyAngles.
func bodyAngles(rot geom.Mat3, worldDir geom.Vec3) (az, el float64) {
	local := rot.Transpose().Apply(worldDir)
	phi, theta := geom.CartesianToSpherical(local)
	return phi, math.Pi/2 - theta
}

type directPathParams struct {
	tx, rx                  antenna.Channel
	txPos, rxPos            geom.Vec3
	txRot, rxRot            geom.Mat3
	txWave, rxWave          *waveform.Waveform
	txPulse, rxPulse        int
	txTau, rxTau            float64
	txPowerWatts, gainChain float64
	bbType                  config.BasebandType
}

// directPath evaluates one emitter transmit channel's contribution to one
// victim receive channel at a shared instant: amplitude from the one-way
// Friis link budget (no RCS/scattering term, unlike synth.Point's
// two-way radar equation), and phase from each radar's own waveform
// evaluated at its own local fast time, minus the one-way carrier range
// phase.
func directPath(p directPathParams) complex128 {
	path := geom.Sub(p.rxPos, p.txPos)
	r := geom.Norm(path)
	if r <= 0 {
		return 0
	}

	txDir := geom.Scale(1/r, path)
	txAz, txEl := bodyAngles(p.txRot, txDir)
	gTx := p.tx.GainTowards(txAz, txEl)
	rxDir := geom.Scale(-1, txDir)
	rxAz, rxEl := bodyAngles(p.rxRot, rxDir)
	gRx := p.rx.GainTowards(rxAz, rxEl)

	fcTx := p.txWave.CarrierFrequency(p.txPulse)
	lambdaTx := speedOfLight / fcTx

	mag := math.Sqrt(p.txPowerWatts) * gTx * gRx * lambdaTx / (4 * math.Pi * r) * p.gainChain

	phase := p.txWave.Phase(p.txPulse, p.txTau) - p.rxWave.Phase(p.rxPulse, p.rxTau) - 2*math.Pi/lambdaTx*r
	amp := complex(mag, 0) * cmplxExp(phase)
	amp *= p.tx.PulseMod(p.txPulse) * p.rx.PulseMod(p.rxPulse)

	if p.bbType == config.BasebandReal {
		return complex(2*real(amp), 0)
	}
	return amp
}

func cmplxExp(phase float64) complex128 {
	s, c := math.Sincos(phase)
	return complex(c, s)
}

// emitterLocalTime maps the victim's absolute sample time t into the
// emitter's own (pulse, local-fast-time) coordinates: the last pulse
// whose start (relative to the emitter's first frame) is at or before t.
func emitterLocalTime(pulseStart []float64, emitterFrameStart, t float64) (pulse int, tau float64) {
	rel := t - emitterFrameStart
	idx := sort.Search(len(pulseStart), func(i int) bool { return pulseStart[i] > rel }) - 1
	if idx < 0 {
		idx = 0
	}
	return idx, rel - pulseStart[idx]
}

func decomposeChannel(ch, txCount, rxCount int) (frame, tx, rx int) {
	perFrame := txCount * rxCount
	if perFrame == 0 {
		return 0, 0, 0
	}
	frame = ch / perFrame
	rem := ch % perFrame
	tx = rem / rxCount
	rx = rem % rxCount
	return
}
