package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func approxVec(t *testing.T, got, want Vec3, tol float64) {
	t.Helper()
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol || math.Abs(got.Z-want.Z) > tol {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRotationZYX_YawTakesXToY(t *testing.T) {
	r := RotationZYX(math.Pi/2, 0, 0)
	approxVec(t, r.Apply(Vec3{X: 1}), Vec3{Y: 1}, 1e-9)
}

func TestRotationZYX_PitchTakesXToZ(t *testing.T) {
	r := RotationZYX(0, math.Pi/2, 0)
	approxVec(t, r.Apply(Vec3{X: 1}), Vec3{Z: 1}, 1e-9)
}

func TestRotationZYX_RollTakesZToNegY(t *testing.T) {
	r := RotationZYX(0, 0, math.Pi/2)
	approxVec(t, r.Apply(Vec3{Z: 1}), Vec3{Y: -1}, 1e-9)
}

func TestRotationZYX_DeterminantIsOne(t *testing.T) {
	for _, angles := range [][3]float64{
		{0.3, -0.6, 1.1}, {0, 0, 0}, {math.Pi, math.Pi / 4, -math.Pi / 3},
	} {
		r := RotationZYX(angles[0], angles[1], angles[2])
		if d := r.Det(); math.Abs(d-1) > 1e-9 {
			t.Errorf("RotationZYX(%v) det = %v, want 1", angles, d)
		}
	}
}

func TestRotationZYX_TransposeIsInverse(t *testing.T) {
	r := RotationZYX(0.4, 0.2, -0.7)
	identity := r.Mul(r.Transpose())
	want := Identity3()
	for i := range want {
		if math.Abs(identity[i]-want[i]) > 1e-9 {
			t.Fatalf("R*R^T != I: got %v", identity)
		}
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	phi, theta := 0.7, 1.2
	d := SphericalToCartesian(phi, theta)
	gotPhi, gotTheta := CartesianToSpherical(d)
	if math.Abs(gotPhi-phi) > 1e-9 || math.Abs(gotTheta-theta) > 1e-9 {
		t.Errorf("round trip: got (%v,%v), want (%v,%v)", gotPhi, gotTheta, phi, theta)
	}
}

func TestSkewMatchesCross(t *testing.T) {
	omega := Vec3{X: 0.1, Y: -0.2, Z: 0.5}
	v := Vec3{X: 1.0, Y: 2.0, Z: -1.0}
	got := Skew(omega).Apply(v)
	want := Cross(omega, v)
	approxVec(t, got, want, 1e-12)
}
