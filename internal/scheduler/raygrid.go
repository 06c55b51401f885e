package scheduler

import (
	"math"

	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/mesh"
	"github.com/radarsimx/radarsimgo/internal/raytrace"
)

// minGridSteps bounds the ray grid below so a tiny or distant target still
// gets a usable number of probing directions.
const minGridSteps = 3

// boundingSphere returns the center and radius of a sphere enclosing
// every target's world-frame vertex set at the snapshot instant, used to
// bound the primary-ray angular grid, per spec.md §4.3's "bounded by each
// target's angular extent from the sensor".
func boundingSphere(targets []*mesh.Target, ch, p, s int, t float64) (center geom.Vec3, radius float64) {
	var sum geom.Vec3
	n := 0
	var pts []geom.Vec3
	for _, tgt := range targets {
		for _, wt := range tgt.WorldAt(ch, p, s, t) {
			pts = append(pts, wt.V0, wt.V1, wt.V2)
			sum = geom.Add(sum, geom.Add(geom.Add(wt.V0, wt.V1), wt.V2))
			n += 3
		}
	}
	if n == 0 {
		return geom.Vec3{}, 0
	}
	center = geom.Scale(1.0/float64(n), sum)
	for _, v := range pts {
		if d := geom.Norm(geom.Sub(v, center)); d > radius {
			radius = d
		}
	}
	return center, radius
}

// farFieldFactor is how many scene bounding-sphere radii away FarField
// places its vantage point: far enough that the scene subtends a small
// angle and every hit point's range to it is effectively equal up to the
// plane-wave phase gradient the physical-optics sum needs to resolve.
const farFieldFactor = 1e4

// FarField returns a point placed farFieldFactor scene-radii from the
// targets' bounding-sphere center, in world-frame direction dir, for
// front-ends (the RCS front-end) that specify a scattering direction directly
// rather than deriving one from a moving platform's pose. ok is false
// when the scene has no geometry (radius <= 0), in which case there is
// nothing to trace against.
func FarField(targets []*mesh.Target, dir geom.Vec3, ch, p, s int, t float64) (pos geom.Vec3, ok bool) {
	center, radius := boundingSphere(targets, ch, p, s, t)
	if radius <= 0 {
		return geom.Vec3{}, false
	}
	return geom.Add(center, geom.Scale(radius*farFieldFactor, dir)), true
}

// Grid builds the (azimuth, elevation) primary-ray grid from sensorPos,
// the scene's angular extent, wavelength lambda, and ray density d
// (rays per wavelength), per spec.md §4.3's ray-density formula
// `spacing ~= lambda / (d * characteristic_target_dimension)`.
func Grid(sensorPos geom.Vec3, targets []*mesh.Target, ch, p, s int, t, lambda, density float64) []raytrace.Job {
	center, radius := boundingSphere(targets, ch, p, s, t)
	if radius <= 0 {
		return nil
	}
	toCenter := geom.Sub(center, sensorPos)
	dist := geom.Norm(toCenter)
	if dist <= 0 {
		dist = radius
	}
	centerPhi, centerTheta := geom.CartesianToSpherical(geom.Unit(toCenter))

	halfExtent := math.Asin(math.Min(1, radius/dist))
	spacing := lambda / math.Max(density*2*radius, 1e-9)
	steps := int(2*halfExtent/spacing) + 1
	if steps < minGridSteps {
		steps = minGridSteps
	}

	jobs := make([]raytrace.Job, 0, steps*steps)
	for i := 0; i < steps; i++ {
		dPhi := -halfExtent + 2*halfExtent*float64(i)/float64(steps-1)
		for j := 0; j < steps; j++ {
			dTheta := -halfExtent + 2*halfExtent*float64(j)/float64(steps-1)
			dir := geom.SphericalToCartesian(centerPhi+dPhi, centerTheta+dTheta)
			jobs = append(jobs, raytrace.Job{Origin: sensorPos, Direction: dir})
		}
	}
	return jobs
}
