package mesh

import (
	"math"
	"testing"

	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/material"
	"github.com/radarsimx/radarsimgo/internal/platform"
)

func unitSquareData() config.MeshData {
	return config.MeshData{
		Vertices:  [][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func TestNew_UnitScalingMatchesMeterEquivalent(t *testing.T) {
	mm := config.MeshData{
		Vertices:  [][3]float64{{0, 0, 0}, {1000, 0, 0}, {1000, 1000, 0}},
		Triangles: [][3]int{{0, 1, 2}},
	}
	m := config.MeshData{
		Vertices:  [][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		Triangles: [][3]int{{0, 1, 2}},
	}
	tgtMM, err := New(0, mm, config.UnitMillimeter, geom.Vec3{}, platform.Motion{}, material.PEC(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tgtM, err := New(0, m, config.UnitMeter, geom.Vec3{}, platform.Motion{}, material.PEC(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(tgtMM.LocalTris[0].Area-tgtM.LocalTris[0].Area) > 1e-12 {
		t.Errorf("mm vs m areas differ: %v vs %v", tgtMM.LocalTris[0].Area, tgtM.LocalTris[0].Area)
	}
}

func TestNew_RejectsDegenerateTriangle(t *testing.T) {
	data := config.MeshData{
		Vertices:  [][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}},
		Triangles: [][3]int{{0, 1, 2}},
	}
	_, err := New(0, data, config.UnitMeter, geom.Vec3{}, platform.Motion{}, material.PEC(), false)
	if err == nil {
		t.Fatal("expected degenerate-triangle error")
	}
}

func TestWorldAt_TranslatesByLocation(t *testing.T) {
	tgt, err := New(0, unitSquareData(), config.UnitMeter, geom.Vec3{}, platform.Motion{Location: geom.Vec3{X: 100}}, material.PEC(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	world := tgt.WorldAt(0, 0, 0, 0)
	if math.Abs(world[0].V0.X-100) > 1e-9 {
		t.Errorf("expected V0.X near 100, got %v", world[0].V0.X)
	}
}

func TestWorldAt_RigidBodyVelocityFromRotationRate(t *testing.T) {
	motion := platform.Motion{
		Location:     geom.Vec3{X: 10},
		RotationRate: geom.Vec3{Z: 1.0}, // 1 rad/s about z
	}
	tgt, err := New(0, unitSquareData(), config.UnitMeter, geom.Vec3{}, motion, material.PEC(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	world := tgt.WorldAt(0, 0, 0, 0)
	// centroid of triangle 0 is at local (2/3, 1/3, 0); velocity should be
	// omega x (centroid - location), nonzero in this configuration.
	v := world[0].Velocity
	if v.X == 0 && v.Y == 0 {
		t.Errorf("expected nonzero rotational velocity, got %+v", v)
	}
}
