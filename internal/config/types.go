// Package config defines the strongly-typed, validated-at-the-boundary
// records the engine accepts, per spec.md §6 and the Configuration
// subsection of SPEC_FULL.md. These replace the original program's
// untyped key-value maps (spec.md §9).
package config

import (
	"fmt"

	"github.com/radarsimx/radarsimgo/internal/material"
	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// Unit is a mesh's declared length unit; vertices are scaled to meters at
// load time by Unit.Scale.
type Unit string

const (
	UnitMeter      Unit = "m"
	UnitCentimeter Unit = "cm"
	UnitMillimeter Unit = "mm"
)

// Scale returns the meters-per-unit factor.
func (u Unit) Scale() (float64, error) {
	switch u {
	case UnitMeter:
		return 1.0, nil
	case UnitCentimeter:
		return 0.01, nil
	case UnitMillimeter:
		return 0.001, nil
	default:
		return 0, simerr.New(simerr.InvalidConfig, "unknown unit %q", string(u))
	}
}

// BasebandType selects real or complex baseband output (spec.md §4.5).
type BasebandType string

const (
	BasebandReal    BasebandType = "real"
	BasebandComplex BasebandType = "complex"
)

func (b BasebandType) Validate() error {
	if b != BasebandReal && b != BasebandComplex {
		return simerr.New(simerr.InvalidConfig, "unknown bb_type %q", string(b))
	}
	return nil
}

// PermittivityKind distinguishes a target carrying an explicit complex
// permittivity from one declared as a perfect electric conductor.
type PermittivityKind int

const (
	PermittivityComplex PermittivityKind = iota
	PermittivityPEC
)

// Permittivity is the tagged-variant form of target.permittivity
// (spec.md §6: "complex or \"PEC\"").
type Permittivity struct {
	Kind  PermittivityKind
	Value complex128 // used only when Kind == PermittivityComplex
}

// Resolve converts the declared permittivity/permeability pair into a
// material.Material, applying the PEC shortcut.
func (p Permittivity) Resolve(mu complex128) material.Material {
	if p.Kind == PermittivityPEC {
		return material.PEC()
	}
	return material.Material{Epsilon: p.Value, Mu: mu}
}

// AntennaPattern is one (angle, gain) axis of an antenna radiation
// pattern, per spec.md §3. Angles are radians internally; Validate
// requires them sorted ascending.
type AntennaPattern struct {
	AnglesRad []float64
	GainDB    []float64
}

func (p AntennaPattern) Validate(name string) error {
	if len(p.AnglesRad) != len(p.GainDB) {
		return simerr.New(simerr.InvalidConfig, "%s pattern: angle/gain length mismatch (%d vs %d)", name, len(p.AnglesRad), len(p.GainDB))
	}
	if len(p.AnglesRad) == 0 {
		return simerr.New(simerr.InvalidConfig, "%s pattern: empty", name)
	}
	for i := 1; i < len(p.AnglesRad); i++ {
		if p.AnglesRad[i] <= p.AnglesRad[i-1] {
			return simerr.New(simerr.InvalidConfig, "%s pattern: angles not strictly ascending at index %d", name, i)
		}
	}
	return nil
}

// WaveformModConfig is the optional piecewise-constant waveform-time
// modulation of one antenna channel (spec.md §3/§6).
type WaveformModConfig struct {
	Enabled bool
	T       []float64
	Var     []complex128
}

// Channel is one transmit or receive antenna channel (spec.md §3/§6).
type Channel struct {
	Location       [3]float64
	Polarization   [3]complex128
	AzPattern      AntennaPattern
	ElPattern      AntennaPattern
	AntennaGainDB  float64
	DelaySeconds   float64
	PulseModulation []complex128 // one entry per pulse, optional (nil allowed)
	WaveformMod    WaveformModConfig
	GridDeg        float64
}

func (c Channel) Validate() error {
	if err := c.AzPattern.Validate("azimuth"); err != nil {
		return err
	}
	if err := c.ElPattern.Validate("elevation"); err != nil {
		return err
	}
	if c.WaveformMod.Enabled && len(c.WaveformMod.T) != len(c.WaveformMod.Var) {
		return simerr.New(simerr.InvalidConfig, "waveform_mod: t/var length mismatch (%d vs %d)", len(c.WaveformMod.T), len(c.WaveformMod.Var))
	}
	return nil
}

// Transmitter is the radar's transmit chain (spec.md §6).
type Transmitter struct {
	TxPowerDBm      float64
	F               []float64 // frequency grid, Hz
	T               []float64 // time grid, s, same length as F
	FOffset         []float64 // per-pulse carrier offset, Hz
	PulseStartTime  []float64 // per-pulse start time, s, strictly increasing
	Pulses          int
	DensityPerLambda float64
	PhaseNoise      [][][]complex128 // optional [ch][pulse][sample], nil if unused
	Channels        []Channel
}

func (tx Transmitter) Validate() error {
	if len(tx.F) != len(tx.T) {
		return simerr.New(simerr.InvalidConfig, "transmitter: f/t length mismatch (%d vs %d)", len(tx.F), len(tx.T))
	}
	if len(tx.F) < 2 {
		return simerr.New(simerr.InvalidConfig, "transmitter: waveform grid needs at least 2 points")
	}
	for i := 1; i < len(tx.T); i++ {
		if tx.T[i] <= tx.T[i-1] {
			return simerr.New(simerr.InvalidConfig, "transmitter: t grid not strictly increasing at index %d", i)
		}
	}
	if len(tx.FOffset) != tx.Pulses || len(tx.PulseStartTime) != tx.Pulses {
		return simerr.New(simerr.InvalidConfig, "transmitter: f_offset/pulse_start_time must have length pulses=%d", tx.Pulses)
	}
	for i := 1; i < len(tx.PulseStartTime); i++ {
		if tx.PulseStartTime[i] <= tx.PulseStartTime[i-1] {
			return simerr.New(simerr.InvalidConfig, "transmitter: pulse_start_time not strictly increasing at index %d", i)
		}
	}
	if len(tx.Channels) == 0 {
		return simerr.New(simerr.InvalidConfig, "transmitter: at least one channel required")
	}
	for i, ch := range tx.Channels {
		if err := ch.Validate(); err != nil {
			return fmt.Errorf("transmitter channel %d: %w", i, err)
		}
	}
	return nil
}

// Receiver is the radar's receive chain (spec.md §6).
type Receiver struct {
	FS           float64
	RFGainDB     float64
	LoadOhms     float64
	BasebandGainDB float64
	BasebandBW   float64
	BBType       BasebandType
	Channels     []Channel
}

func (rx Receiver) Validate() error {
	if rx.FS <= 0 {
		return simerr.New(simerr.InvalidConfig, "receiver: fs must be positive")
	}
	if err := rx.BBType.Validate(); err != nil {
		return err
	}
	if len(rx.Channels) == 0 {
		return simerr.New(simerr.InvalidConfig, "receiver: at least one channel required")
	}
	for i, ch := range rx.Channels {
		if err := ch.Validate(); err != nil {
			return fmt.Errorf("receiver channel %d: %w", i, err)
		}
	}
	return nil
}

// Motion describes platform or target motion, matching spec.md §6. Arrays
// are rank-3 (channel, pulse, sample) when per-sample motion is supplied;
// a nil array means "use the scalar fallback" for that field.
type Motion struct {
	Location     [3]float64
	LocationGrid [][][][3]float64 // [ch][pulse][sample][xyz], optional
	Speed        [3]float64
	RotationRad  [3]float64 // yaw, pitch, roll
	RotationGrid [][][][3]float64
	RotationRate [3]float64 // rad/s
}

// Pose is a single static sensor placement, used by sim_lidar (spec.md
// §6's `lidar_pose`) where there is no fast-time trajectory to sample,
// only one location and orientation.
type Pose struct {
	Location    [3]float64
	RotationRad [3]float64 // yaw, pitch, roll
}

// Radar bundles the transmitter, receiver, and platform motion.
type Radar struct {
	Transmitter Transmitter
	Receiver    Receiver
	Motion      Motion
	FrameTimes  []float64 // frame_start_time, one per frame (spec.md §3)
}

func (r Radar) Validate() error {
	if err := r.Transmitter.Validate(); err != nil {
		return err
	}
	if err := r.Receiver.Validate(); err != nil {
		return err
	}
	if len(r.FrameTimes) == 0 {
		return simerr.New(simerr.InvalidConfig, "radar: at least one frame required")
	}
	for i := 1; i < len(r.FrameTimes); i++ {
		if r.FrameTimes[i] <= r.FrameTimes[i-1] {
			return simerr.New(simerr.InvalidConfig, "radar: frame_start_time not strictly increasing at index %d", i)
		}
	}
	return nil
}
