// Package geom provides the vector, complex-field, and rotation-matrix
// primitives the rest of the engine builds on. It is pure: no I/O, no
// allocation beyond what the caller requests.
package geom

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or direction in world/local Cartesian space, in meters
// unless documented otherwise. It is a plain alias for gonum's r3.Vec so
// this package can use gonum's vector arithmetic (Add, Sub, Scale, Dot,
// Cross, Norm, Unit) without re-implementing it.
type Vec3 = r3.Vec

// Vec2 is a 2-D point, used for the (azimuth, elevation) ray-grid angles
// and for antenna-pattern angle axes.
type Vec2 = r2.Vec

// Add, Sub, Scale, Dot, Cross, Norm, and Unit are re-exported so call sites
// in this module say geom.Add(...) rather than importing r3 directly;
// the rest of the engine never imports gonum/spatial/r3 itself.
var (
	Add   = r3.Add
	Sub   = r3.Sub
	Scale = r3.Scale
	Dot   = r3.Dot
	Cross = r3.Cross
	Norm  = r3.Norm
	Unit  = r3.Unit
)

// SphericalToCartesian converts a scene direction with azimuth phi and
// polar angle theta (measured from +z), both radians, into a unit vector:
// (sinθ cosφ, sinθ sinφ, cosθ), per spec.md §4.1.
func SphericalToCartesian(phi, theta float64) Vec3 {
	sinT, cosT := sincos(theta)
	sinP, cosP := sincos(phi)
	return Vec3{X: sinT * cosP, Y: sinT * sinP, Z: cosT}
}

// CartesianToSpherical is the inverse of SphericalToCartesian for a unit
// (or near-unit) direction vector.
func CartesianToSpherical(d Vec3) (phi, theta float64) {
	return atan2(d.Y, d.X), acos(clamp(d.Z/normOrOne(d), -1, 1))
}
