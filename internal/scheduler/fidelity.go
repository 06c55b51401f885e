// Package scheduler ties the ray tracer and baseband synthesizer together
// at one of three configurable fidelity levels, per spec.md §4.10, and
// owns the worker pool the rest of the engine's hot loops run on.
package scheduler

// Level selects how often the ray tracer is re-invoked along the sample
// axis (spec.md §4.10, GLOSSARY "Fidelity level").
type Level int

const (
	// LevelFrame re-traces once per (frame, tx channel); results are held
	// constant across every pulse and sample of that frame.
	LevelFrame Level = iota
	// LevelPulse re-traces once per (frame, tx channel, pulse).
	LevelPulse
	// LevelSample re-traces once per (frame, tx channel, pulse, sample):
	// maximum fidelity, maximum cost.
	LevelSample
)

// Key identifies one ray-trace snapshot. At LevelFrame, Pulse and Sample
// are always 0; at LevelPulse, Sample is always 0; at LevelSample every
// field is significant.
type Key struct {
	Frame, TxChannel, Pulse, Sample int
}

// KeyFor reduces a full (frame, txChannel, pulse, sample) tuple to the
// snapshot key appropriate for level, per spec.md §4.10's three cadences.
func KeyFor(level Level, frame, txChannel, pulse, sample int) Key {
	switch level {
	case LevelFrame:
		return Key{Frame: frame, TxChannel: txChannel}
	case LevelPulse:
		return Key{Frame: frame, TxChannel: txChannel, Pulse: pulse}
	default:
		return Key{Frame: frame, TxChannel: txChannel, Pulse: pulse, Sample: sample}
	}
}
