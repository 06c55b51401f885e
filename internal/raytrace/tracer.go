package raytrace

import (
	"math"
	"math/cmplx"

	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/physopt"
)

// Contribution is the coherent far-field result of tracing one primary
// ray through a scene: the projected complex amplitude toward the
// observer, the number of bounces the path took, and the first-hit
// position/surface normal (used verbatim by the LiDAR front-end,
// spec.md §4.8).
type Contribution struct {
	Amplitude   complex128
	Bounces     int
	Hit         bool
	FirstPoint  geom.Vec3
	FirstNormal geom.Vec3
}

// Trace shoots one primary ray from origin in direction dir (unit),
// carrying incidentField as its initial complex polarization/amplitude
// vector, through scene, accumulating the coherent far-field contribution
// toward observerPos projected onto observerPolarization (unit), at
// wavelength lambda (m), per spec.md §4.3-§4.4.
func Trace(scene *Scene, origin, dir geom.Vec3, incidentField physopt.Field, observerPos geom.Vec3, observerPolarization physopt.Field, lambda float64, opts Options) Contribution {
	rayOrigin := origin
	rayDir := geom.Unit(dir)
	field := incidentField
	pathLength := 0.0

	result := Contribution{}
	var far complex128
	k := 2 * math.Pi / lambda

	for bounce := 0; bounce < opts.ReflectionCap; bounce++ {
		hit, ok := scene.ClosestHit(rayOrigin, rayDir, math.Inf(1))
		if !ok {
			break
		}

		n := hit.Triangle.Normal
		cosThetaI := -geom.Dot(rayDir, n)
		if cosThetaI <= 0 {
			// Back-facing facet: spec.md §4.3 says these are skipped
			// from hit consideration; this implementation treats the
			// path as terminated rather than searching for the next
			// non-back-facing hit (see DESIGN.md).
			break
		}

		hitPoint := geom.Add(rayOrigin, geom.Scale(hit.Dist, rayDir))
		if !result.Hit {
			result.Hit = true
			result.FirstPoint = hitPoint
			result.FirstNormal = n
		}

		absCos := cosThetaI // already positive
		rIn := pathLength + hit.Dist

		bounced := physopt.ReflectField(field, rayDir, n, hit.Material)
		if absCos >= opts.GrazingCosine {
			rOut := geom.Norm(geom.Sub(observerPos, hitPoint))
			weight := complex(hit.Triangle.Area*absCos, 0)
			propagation := cmplxExp(-k * (rIn + rOut))
			contribution := physopt.Scale(bounced.Field, weight*propagation)
			far += polarMatch(contribution, observerPolarization)

			if !hit.SkipDiffusion {
				coef := physopt.Fresnel(hit.Material, absCos)
				reflectivity := (coef.TE + coef.TM) / 2
				diffuse := physopt.Scale(field, weight*reflectivity*propagation)
				far += polarMatch(diffuse, observerPolarization)
			}
		}

		field = bounced.Field
		pathLength = rIn
		rayDir = bounced.Direction
		rayOrigin = geom.Add(hitPoint, geom.Scale(opts.SelfIntersectEps, n))
		result.Bounces = bounce + 1

		if fieldMagnitude(field) < opts.AmplitudeFloor {
			break
		}
	}

	result.Amplitude = far
	return result
}

func cmplxExp(phase float64) complex128 {
	s, c := math.Sincos(phase)
	return complex(c, s)
}

func fieldMagnitude(f physopt.Field) float64 {
	return math.Sqrt(cmplx.Abs(f.X)*cmplx.Abs(f.X) + cmplx.Abs(f.Y)*cmplx.Abs(f.Y) + cmplx.Abs(f.Z)*cmplx.Abs(f.Z))
}

// polarMatch is the inner product between a field vector and the
// observer's polarization basis vector (spec.md §4.3 step 5).
func polarMatch(f physopt.Field, observer physopt.Field) complex128 {
	return f.X*cmplx.Conj(observer.X) + f.Y*cmplx.Conj(observer.Y) + f.Z*cmplx.Conj(observer.Z)
}
