// Package physopt implements the polarization-aware physical-optics EM
// kernel of spec.md §4.4: Fresnel reflection, polarization evolution
// across a bounce, and the far-field coherent contribution of one
// triangle facet.
package physopt

import (
	"math"

	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/material"
)

// degenerateBasisEps is the norm below which cross(dir, n) is treated as
// degenerate (near-normal incidence) and a stable fallback basis is used
// instead.
const degenerateBasisEps = 1e-9

// Reflect returns the mirror-reflected direction of unit incident
// direction di off a surface with unit outward normal n:
// d_r = d_i - 2(d_i . n) n, per spec.md §4.4.
func Reflect(di, n geom.Vec3) geom.Vec3 {
	return geom.Sub(di, geom.Scale(2*geom.Dot(di, n), n))
}

// teBasis returns a unit vector perpendicular to both dir and n (the TE,
// "perpendicular", polarization axis for a wave traveling along dir that
// strikes a surface with normal n). When dir is nearly parallel to n
// (near-normal incidence) cross(dir, n) is degenerate; arbitraryPerp
// supplies a stable fallback so the basis never becomes NaN.
func teBasis(dir, n geom.Vec3) geom.Vec3 {
	h := geom.Cross(dir, n)
	if geom.Norm(h) < degenerateBasisEps {
		return arbitraryPerp(dir)
	}
	return geom.Unit(h)
}

// arbitraryPerp returns a unit vector perpendicular to v, chosen by
// picking the coordinate axis least aligned with v so the cross product
// stays well conditioned.
func arbitraryPerp(v geom.Vec3) geom.Vec3 {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	var ref geom.Vec3
	if ax <= ay && ax <= az {
		ref = geom.Vec3{X: 1}
	} else if ay <= az {
		ref = geom.Vec3{Y: 1}
	} else {
		ref = geom.Vec3{Z: 1}
	}
	return geom.Unit(geom.Cross(v, ref))
}

// Field is a complex-valued polarization vector: the (Ex, Ey, Ez)
// components of an electric field phasor.
type Field struct {
	X, Y, Z complex128
}

func fieldScale(f Field, s complex128) Field {
	return Field{X: f.X * s, Y: f.Y * s, Z: f.Z * s}
}

func fieldAdd(a, b Field) Field {
	return Field{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

// dotReal projects a complex field onto a real unit direction vector.
func dotReal(f Field, v geom.Vec3) complex128 {
	return f.X*complex(v.X, 0) + f.Y*complex(v.Y, 0) + f.Z*complex(v.Z, 0)
}

func fieldAlong(v geom.Vec3, amp complex128) Field {
	return Field{X: complex(v.X, 0) * amp, Y: complex(v.Y, 0) * amp, Z: complex(v.Z, 0) * amp}
}

// Bounce is the result of reflecting one incident field off one facet:
// the reflected direction and the reflected field phasor.
type Bounce struct {
	Direction geom.Vec3
	Field     Field
}

// ReflectField decomposes incident field e (traveling along unit
// direction di, striking a facet with unit outward normal n and
// material mat) into TE/TM components, applies the Fresnel reflection
// coefficients, and recomposes the reflected field along the mirrored
// direction. The TE axis is unchanged by reflection (it lies in the
// facet plane, perpendicular to the plane of incidence); the TM axis is
// re-based from the reflected direction so the result remains
// orthogonal to the direction of travel.
func ReflectField(e Field, di, n geom.Vec3, mat material.Material) Bounce {
	cosThetaI := -geom.Dot(di, n)
	absCos := math.Abs(cosThetaI)

	dr := Reflect(di, n)
	eTE := teBasis(di, n)
	eTMi := geom.Unit(geom.Cross(eTE, di))
	eTMr := geom.Unit(geom.Cross(dr, eTE))

	if absCos < 1e-6 {
		// Grazing incidence: no coherent reflected contribution, per
		// spec.md §4.3 edge case.
		return Bounce{Direction: dr, Field: Field{}}
	}

	coef := Fresnel(mat, absCos)

	eTEComponent := dotReal(e, eTE)
	eTMComponent := dotReal(e, eTMi)

	reflected := fieldAdd(
		fieldAlong(eTE, eTEComponent*coef.TE),
		fieldAlong(eTMr, eTMComponent*coef.TM),
	)
	return Bounce{Direction: dr, Field: reflected}
}

// Scale multiplies a Field by a complex scalar, used to apply per-path
// scalar factors (facet weight, propagation phase, transmit amplitude)
// onto a polarization vector.
func Scale(f Field, s complex128) Field {
	return fieldScale(f, s)
}

// Add sums two Field phasors, used for coherent accumulation across
// multiple ray paths landing on the same sample.
func Add(a, b Field) Field {
	return fieldAdd(a, b)
}

// FarFieldAmplitude returns the physical-optics far-field factor of one
// facet of the given area at incidence cosine cosThetaI, observed at range
// r and wavelength lambda (both meters): area*cosThetaI/(lambda*r) times
// the propagation phase exp(-j*2*pi*r/lambda). It returns 0 when r or
// lambda is not positive.
func FarFieldAmplitude(area, cosThetaI, r, lambda float64) complex128 {
	if r <= 0 || lambda <= 0 {
		return 0
	}
	s, c := math.Sincos(-2 * math.Pi * r / lambda)
	return complex(area*cosThetaI/(lambda*r), 0) * complex(c, s)
}
