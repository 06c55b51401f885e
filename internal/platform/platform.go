// Package platform builds the radar's per-(channel, pulse, sample)
// location/orientation tables and the timestamp tensor, per spec.md §3/§4.1.
// It generalizes the per-sensor 4x4 transform bookkeeping of a single
// static pose (as in a fixed traffic sensor) to a full moving-platform
// trajectory sampled at every fast-time instant the engine needs.
package platform

import (
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// Motion is either a scalar (location/rotation constant across the whole
// call) or a full per-(channel, pulse, sample) table, matching spec.md §3:
// "If any component is given per-sample, the full table is materialized;
// otherwise scalars are broadcast."
type Motion struct {
	// Scalar fallbacks.
	Location     geom.Vec3
	Speed        geom.Vec3
	RotationRad  geom.Vec3 // yaw, pitch, roll
	RotationRate geom.Vec3 // rad/s about body yaw/pitch/roll axes

	// Optional per-sample tables; nil means "use the scalar fields above".
	LocationGrid [][][]geom.Vec3 // [ch][pulse][sample]
	RotationGrid [][][]geom.Vec3
}

// PoseAt returns the platform's location and rotation matrix at channel ch,
// pulse p, sample s. Without a grid, the scalar fallback is extrapolated
// at constant velocity/angular rate to timestamp t (seconds, on the same
// clock as the timestamp tensor).
func (m Motion) PoseAt(ch, p, s int, t float64) (loc geom.Vec3, rot geom.Mat3) {
	if m.LocationGrid != nil {
		loc = m.LocationGrid[ch][p][s]
	} else {
		loc = geom.Add(m.Location, geom.Scale(t, m.Speed))
	}
	if m.RotationGrid != nil {
		r := m.RotationGrid[ch][p][s]
		rot = geom.RotationZYX(r.X, r.Y, r.Z)
	} else {
		r := geom.Add(m.RotationRad, geom.Scale(t, m.RotationRate))
		rot = geom.RotationZYX(r.X, r.Y, r.Z)
	}
	return loc, rot
}

// AngularVelocity returns the instantaneous body-frame angular velocity
// vector, used to compute triangle velocity via omega x r (spec.md §4.1).
func (m Motion) AngularVelocity() geom.Vec3 {
	return m.RotationRate
}

// Timestamps builds ts[ch][pulse][sample] = frame_start_time[frame(ch)] +
// t_p[pulse] + sample/fs + channel_delay[ch], per spec.md §3. A flattened
// channel index maps to its frame index as frame(ch) =
// ch / (txCount*rxCount) (spec.md §4.6), clamped to the last frame, and
// channelDelay gives each channel's fixed delay; its length sets the
// channel count.
func Timestamps(frameStart []float64, tPulse []float64, fs float64, numSamples int, channelDelay []float64, txCount, rxCount int) ([][][]float64, error) {
	if fs <= 0 {
		return nil, simerr.New(simerr.InvalidConfig, "platform: fs must be positive")
	}
	numCh := len(channelDelay)
	ts := make([][][]float64, numCh)
	for ch := 0; ch < numCh; ch++ {
		frame := channelFrame(ch, txCount, rxCount, len(frameStart))
		ts[ch] = make([][]float64, len(tPulse))
		for p, tp := range tPulse {
			row := make([]float64, numSamples)
			base := frameStart[frame] + tp + channelDelay[ch]
			for s := 0; s < numSamples; s++ {
				row[s] = base + float64(s)/fs
			}
			ts[ch][p] = row
		}
	}
	if err := validateMonotone(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func channelFrame(ch, txCount, rxCount, numFrames int) int {
	perFrame := txCount * rxCount
	if perFrame == 0 {
		return 0
	}
	f := ch / perFrame
	if f >= numFrames {
		f = numFrames - 1
	}
	return f
}

func validateMonotone(ts [][][]float64) error {
	for ch, byPulse := range ts {
		for p, row := range byPulse {
			for s := 1; s < len(row); s++ {
				if row[s] <= row[s-1] {
					return simerr.New(simerr.InvalidConfig, "timestamps non-monotone at channel %d pulse %d sample %d", ch, p, s)
				}
			}
		}
	}
	return nil
}
