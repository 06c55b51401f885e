package physopt

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/material"
)

func TestReflect_NormalIncidenceReversesDirection(t *testing.T) {
	di := geom.Vec3{Z: 1}
	n := geom.Vec3{Z: -1} // outward normal facing the incoming ray
	dr := Reflect(di, n)
	want := geom.Vec3{Z: -1}
	if geom.Norm(geom.Sub(dr, want)) > 1e-9 {
		t.Errorf("Reflect = %v, want %v", dr, want)
	}
}

func TestReflect_FortyFiveDegreeBounce(t *testing.T) {
	di := geom.Unit(geom.Vec3{X: 1, Z: 1})
	n := geom.Vec3{Z: -1}
	dr := Reflect(di, n)
	want := geom.Unit(geom.Vec3{X: 1, Z: -1})
	if geom.Norm(geom.Sub(dr, want)) > 1e-9 {
		t.Errorf("Reflect = %v, want %v", dr, want)
	}
}

func TestReflectField_PECPreservesMagnitude(t *testing.T) {
	di := geom.Unit(geom.Vec3{X: 0.3, Z: 1})
	n := geom.Vec3{Z: -1}
	// Transverse to di = (0.3, 0, 1)/|.|: 1*0.3 + (-0.3)*1 = 0.
	e := Field{X: complex(1, 0), Y: complex(0, 0.5), Z: complex(-0.3, 0)}
	b := ReflectField(e, di, n, material.PEC())

	inMag := cmplx.Abs(e.X)*cmplx.Abs(e.X) + cmplx.Abs(e.Y)*cmplx.Abs(e.Y) + cmplx.Abs(e.Z)*cmplx.Abs(e.Z)
	outMag := cmplx.Abs(b.Field.X)*cmplx.Abs(b.Field.X) + cmplx.Abs(b.Field.Y)*cmplx.Abs(b.Field.Y) + cmplx.Abs(b.Field.Z)*cmplx.Abs(b.Field.Z)
	if math.Abs(inMag-outMag) > 1e-9 {
		t.Errorf("PEC reflection should preserve field energy: in=%v out=%v", inMag, outMag)
	}
}

func TestReflectField_GrazingIncidenceZeroesField(t *testing.T) {
	di := geom.Unit(geom.Vec3{X: 1, Z: 1e-9})
	n := geom.Vec3{Z: -1}
	e := Field{X: complex(1, 0)}
	b := ReflectField(e, di, n, material.PEC())
	if cmplx.Abs(b.Field.X) != 0 || cmplx.Abs(b.Field.Y) != 0 || cmplx.Abs(b.Field.Z) != 0 {
		t.Errorf("grazing incidence should zero the reflected field, got %v", b.Field)
	}
}

func TestFarFieldAmplitude_MagnitudeScalesWithAreaOverRange(t *testing.T) {
	a1 := FarFieldAmplitude(1.0, 1.0, 100, 0.03)
	a2 := FarFieldAmplitude(2.0, 1.0, 100, 0.03)
	if math.Abs(cmplx.Abs(a2)-2*cmplx.Abs(a1)) > 1e-9 {
		t.Errorf("amplitude should scale linearly with area: a1=%v a2=%v", a1, a2)
	}
}

func TestFarFieldAmplitude_ZeroRangeOrWavelengthIsZero(t *testing.T) {
	if FarFieldAmplitude(1, 1, 0, 0.03) != 0 {
		t.Error("zero range should yield zero amplitude")
	}
	if FarFieldAmplitude(1, 1, 100, 0) != 0 {
		t.Error("zero wavelength should yield zero amplitude")
	}
}

func TestAddScale_Field(t *testing.T) {
	a := Field{X: complex(1, 1)}
	b := Field{X: complex(2, -1)}
	sum := Add(a, b)
	if sum.X != complex(3, 0) {
		t.Errorf("Add = %v, want 3+0i", sum.X)
	}
	scaled := Scale(a, complex(2, 0))
	if scaled.X != complex(2, 2) {
		t.Errorf("Scale = %v, want 2+2i", scaled.X)
	}
}
