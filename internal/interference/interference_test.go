package interference

import (
	"math"
	"testing"

	"github.com/radarsimx/radarsimgo/internal/config"
)

// omniPattern covers the whole azimuth/elevation range at unity gain so
// these tests exercise the direct-path link budget, not the antenna
// pattern's angular cutoff.
func omniPattern() config.AntennaPattern {
	return config.AntennaPattern{AnglesRad: []float64{-math.Pi, 0, math.Pi}, GainDB: []float64{0, 0, 0}}
}

func testRadar(originX float64) config.Radar {
	ch := config.Channel{AzPattern: omniPattern(), ElPattern: omniPattern()}
	return config.Radar{
		Transmitter: config.Transmitter{
			TxPowerDBm:       10,
			F:                []float64{76e9, 76.1e9},
			T:                []float64{0, 10e-6},
			FOffset:          []float64{0},
			PulseStartTime:   []float64{0},
			Pulses:           1,
			DensityPerLambda: 1,
			Channels:         []config.Channel{ch},
		},
		Receiver: config.Receiver{
			FS:       20e6,
			BBType:   config.BasebandComplex,
			Channels: []config.Channel{ch},
		},
		Motion:     config.Motion{Location: [3]float64{originX, 0, 0}},
		FrameTimes: []float64{0},
	}
}

func TestRun_Shape(t *testing.T) {
	victim := testRadar(0)
	emitter := testRadar(100)
	out, err := Run(victim, emitter, 8)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(out) != 1 || len(out[0]) != 1 || len(out[0][0]) != 8 {
		t.Fatalf("unexpected shape: %d/%d/%d", len(out), len(out[0]), len(out[0][0]))
	}
}

func TestRun_NonZeroAmplitude(t *testing.T) {
	victim := testRadar(0)
	emitter := testRadar(100)
	out, err := Run(victim, emitter, 4)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, v := range out[0][0] {
		if v == 0 {
			t.Fatalf("expected non-zero interference amplitude, got %v", v)
		}
	}
}

func TestRun_ZeroRangeIsDropped(t *testing.T) {
	victim := testRadar(0)
	emitter := testRadar(0)
	out, err := Run(victim, emitter, 4)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, v := range out[0][0] {
		if v != 0 {
			t.Fatalf("expected zero amplitude at coincident tx/rx, got %v", v)
		}
	}
}

func TestRun_InvalidSamples(t *testing.T) {
	victim := testRadar(0)
	emitter := testRadar(100)
	if _, err := Run(victim, emitter, 0); err == nil {
		t.Fatal("expected error for non-positive samples")
	}
}

func TestRun_EmitterNoPulses(t *testing.T) {
	victim := testRadar(0)
	emitter := testRadar(100)
	emitter.Transmitter.Pulses = 0
	emitter.Transmitter.PulseStartTime = nil
	emitter.Transmitter.FOffset = nil
	if _, err := Run(victim, emitter, 4); err == nil {
		t.Fatal("expected error for an emitter with no pulses")
	}
}
