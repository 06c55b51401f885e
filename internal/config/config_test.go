package config

import (
	"testing"

	"github.com/radarsimx/radarsimgo/internal/simerr"
)

func validTransmitter() Transmitter {
	return Transmitter{
		TxPowerDBm:       10,
		F:                []float64{76e9, 76.5e9},
		T:                []float64{0, 50e-6},
		FOffset:          []float64{0, 0},
		PulseStartTime:   []float64{0, 100e-6},
		Pulses:           2,
		DensityPerLambda: 1,
		Channels: []Channel{{
			AzPattern: AntennaPattern{AnglesRad: []float64{-1, 0, 1}, GainDB: []float64{-10, 0, -10}},
			ElPattern: AntennaPattern{AnglesRad: []float64{-1, 0, 1}, GainDB: []float64{-10, 0, -10}},
		}},
	}
}

func TestTransmitterValidate_OK(t *testing.T) {
	if err := validTransmitter().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTransmitterValidate_NonMonotonePulseStart(t *testing.T) {
	tx := validTransmitter()
	tx.PulseStartTime = []float64{0, 0}
	err := tx.Validate()
	if err == nil || !simerr.Is(err, simerr.InvalidConfig) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}

func TestUnitScale(t *testing.T) {
	cases := map[Unit]float64{UnitMeter: 1.0, UnitCentimeter: 0.01, UnitMillimeter: 0.001}
	for u, want := range cases {
		got, err := u.Scale()
		if err != nil || got != want {
			t.Errorf("Unit(%q).Scale() = (%v, %v), want (%v, nil)", u, got, err, want)
		}
	}
	if _, err := Unit("furlong").Scale(); err == nil {
		t.Fatalf("expected error for unknown unit")
	}
}

func TestMeshDataValidate_FreeTierCap(t *testing.T) {
	tris := make([][3]int, TierFreeTriangleCap+1)
	verts := [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for i := range tris {
		tris[i] = [3]int{0, 1, 2}
	}
	m := MeshData{Vertices: verts, Triangles: tris}
	if err := m.Validate(true); err == nil || !simerr.Is(err, simerr.TierLimit) {
		t.Fatalf("expected TierLimit, got %v", err)
	}
	if err := m.Validate(false); err != nil {
		t.Fatalf("unexpected error outside free tier: %v", err)
	}
}

func TestPointTargetValidate_NegativeRCS(t *testing.T) {
	p := PointTarget{RCS: []float64{-1}, Phase: []float64{0}}
	if err := p.Validate(); err == nil || !simerr.Is(err, simerr.InvalidConfig) {
		t.Fatalf("expected InvalidConfig, got %v", err)
	}
}

func TestTargetValidate_ExactlyOneVariant(t *testing.T) {
	if err := (Target{}).Validate(false); err == nil {
		t.Fatalf("expected error for empty target union")
	}
	mt := &MeshTarget{Model: MeshData{Vertices: [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, Triangles: [][3]int{{0, 1, 2}}}, Unit: UnitMeter}
	pt := &PointTarget{}
	if err := (Target{Mesh: mt, Point: pt}).Validate(false); err == nil {
		t.Fatalf("expected error for both variants set")
	}
}
