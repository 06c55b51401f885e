// Package lidarsim implements the LiDAR front-end of spec.md §4.8: for
// each primary ray cast from a static sensor pose it returns only the
// first-hit position and local surface normal, with no electromagnetic
// computation. It reuses raytrace.Trace's first-hit bookkeeping rather
// than duplicating the BVH walk.
package lidarsim

import (
	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/physopt"
	"github.com/radarsimx/radarsimgo/internal/raytrace"
	"github.com/radarsimx/radarsimgo/internal/scheduler"
	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// unitLambda is an arbitrary non-zero wavelength passed to raytrace.Trace.
// LiDAR carries no field, so the phase term Trace computes alongside the
// first hit is never read; this just keeps 2*pi/lambda finite.
const unitLambda = 1.0

// Return is one traced ray's outcome: whether it struck geometry, and if
// so, the world-frame first-hit position and surface normal.
type Return struct {
	Phi, Theta float64
	Hit        bool
	Position   geom.Vec3
	Normal     geom.Vec3
}

// Trace casts one ray per (phi[i], theta[i]) pair from pose, in pose's
// rotated frame, against targets' mesh geometry, per spec.md §6's
// `sim_lidar(lidar_pose, phi[], theta[], targets) -> rays[]`. Point
// targets carry no geometry and are ignored, matching the RCS front-end.
func Trace(pose config.Pose, phi, theta []float64, targets []config.Target) ([]Return, error) {
	if len(phi) != len(theta) {
		return nil, simerr.New(simerr.InvalidConfig, "lidar: phi/theta length mismatch (%d vs %d)", len(phi), len(theta))
	}

	meshTargets, err := scheduler.BuildMeshTargets(targets)
	if err != nil {
		return nil, err
	}

	out := make([]Return, len(phi))
	if len(meshTargets) == 0 {
		for i := range out {
			out[i] = Return{Phi: phi[i], Theta: theta[i]}
		}
		return out, nil
	}

	scene := raytrace.NewScene(meshTargets, 0, 0, 0, 0)
	origin := geom.Vec3{X: pose.Location[0], Y: pose.Location[1], Z: pose.Location[2]}
	rot := geom.RotationZYX(pose.RotationRad[0], pose.RotationRad[1], pose.RotationRad[2])

	opts := raytrace.Options{ReflectionCap: 1, AmplitudeFloor: 0, SelfIntersectEps: 1e-4, GrazingCosine: 1e-6}
	for i := range phi {
		localDir := geom.SphericalToCartesian(phi[i], theta[i])
		dir := rot.Apply(localDir)
		c := raytrace.Trace(scene, origin, dir, physopt.Field{}, origin, physopt.Field{}, unitLambda, opts)
		out[i] = Return{Phi: phi[i], Theta: theta[i], Hit: c.Hit, Position: c.FirstPoint, Normal: c.FirstNormal}
	}
	return out, nil
}
