package geom

import "math"

// Mat3 is a row-major 3x3 matrix: [m00 m01 m02, m10 m11 m12, m20 m21 m22].
// Rotations are stored as explicit matrices rather than quaternions so the
// EM kernel can apply them with plain dot products, per spec.md §4.1.
type Mat3 [9]float64

// Identity3 returns the identity rotation.
func Identity3() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply transforms v by m: m*v.
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[3]*v.X + m[4]*v.Y + m[5]*v.Z,
		Z: m[6]*v.X + m[7]*v.Y + m[8]*v.Z,
	}
}

// Mul returns m*n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += m[r*3+k] * n[k*3+c]
			}
			out[r*3+c] = s
		}
	}
	return out
}

// Transpose returns m^T, which equals m^-1 for any proper rotation matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{m[0], m[3], m[6], m[1], m[4], m[7], m[2], m[5], m[8]}
}

// Det returns the determinant of m. A valid rotation matrix built by this
// package always has Det() > 0 (in fact == 1 up to floating-point error).
func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// RotationZYX builds the intrinsic yaw-pitch-roll rotation matrix described
// in spec.md §4.1: yaw about +z, then pitch about the new +y, then roll
// about the new +x. Positive yaw takes +x to +y; positive pitch takes +x
// to +z; positive roll takes +z to -y. All angles are radians.
func RotationZYX(yaw, pitch, roll float64) Mat3 {
	sy, cy := math.Sincos(yaw)
	sp, cp := math.Sincos(pitch)
	sr, cr := math.Sincos(roll)

	// Rz(yaw) * Ry(pitch) * Rx(roll), expanded so the sign conventions in
	// the doc comment hold: Ry rotates +x toward +z for positive pitch,
	// and Rx rotates +z toward -y for positive roll.
	rz := Mat3{cy, -sy, 0, sy, cy, 0, 0, 0, 1}
	ry := Mat3{cp, 0, -sp, 0, 1, 0, sp, 0, cp}
	rx := Mat3{1, 0, 0, 0, cr, -sr, 0, sr, cr}

	return rz.Mul(ry).Mul(rx)
}

// Skew builds the skew-symmetric matrix such that
// Skew(omega).Apply(v) == Cross(omega, v); used to evaluate omega×r for
// triangle velocity (spec.md §4.1).
func Skew(omega Vec3) Mat3 {
	return Mat3{
		0, -omega.Z, omega.Y,
		omega.Z, 0, -omega.X,
		-omega.Y, omega.X, 0,
	}
}
