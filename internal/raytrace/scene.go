// Package raytrace implements the shooting-and-bouncing-rays tracer of
// spec.md §4.3: a snapshot scene built from one or more mesh targets at a
// fixed instant, and the per-bounce physical-optics loop over it.
package raytrace

import (
	"github.com/radarsimx/radarsimgo/internal/bvh"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/material"
	"github.com/radarsimx/radarsimgo/internal/mesh"
)

// TargetSnapshot is one mesh target's world-frame triangle set at a fixed
// instant, accelerated by a BVH. Because the BVH is built directly in
// world space there is no per-ray inverse-pose transform on the hot path;
// a new snapshot is built whenever the scheduler's fidelity level calls
// for a fresh ray-trace (spec.md §4.10).
type TargetSnapshot struct {
	Index         int
	bvh           *bvh.BVH
	tris          []mesh.Triangle
	velocities    []geom.Vec3
	Material      material.Material
	SkipDiffusion bool
}

// NewTargetSnapshot transforms tgt's local-frame triangles into world
// frame at channel ch, pulse p, sample s, timestamp t, and builds a BVH
// over the result.
func NewTargetSnapshot(tgt *mesh.Target, ch, p, s int, t float64) *TargetSnapshot {
	worldTris := tgt.WorldAt(ch, p, s, t)
	tris := make([]mesh.Triangle, len(worldTris))
	vel := make([]geom.Vec3, len(worldTris))
	for i, wt := range worldTris {
		tris[i] = wt.Triangle
		vel[i] = wt.Velocity
	}
	return &TargetSnapshot{
		Index:         tgt.Index,
		bvh:           bvh.Build(tris),
		tris:          tris,
		velocities:    vel,
		Material:      tgt.Material,
		SkipDiffusion: tgt.SkipDiffusion,
	}
}

// Scene is the set of target snapshots a ray trace runs against.
type Scene struct {
	Targets []*TargetSnapshot
}

// NewScene builds a snapshot for every target at the given instant.
func NewScene(targets []*mesh.Target, ch, p, s int, t float64) *Scene {
	snaps := make([]*TargetSnapshot, len(targets))
	for i, tgt := range targets {
		snaps[i] = NewTargetSnapshot(tgt, ch, p, s, t)
	}
	return &Scene{Targets: snaps}
}

// SceneHit is a closest-hit result identifying which target/triangle was
// struck, plus the world-frame triangle and its instantaneous velocity.
type SceneHit struct {
	Dist          float64
	TargetIndex   int
	TriIndex      int
	Triangle      mesh.Triangle
	Velocity      geom.Vec3
	Material      material.Material
	SkipDiffusion bool
}

// ClosestHit finds the nearest intersection across every target snapshot
// in the scene within (0, maxDist]. Ties between equidistant hits are
// broken by lowest (target_index, triangle_index), per spec.md §4.3.
func (s *Scene) ClosestHit(origin, dir geom.Vec3, maxDist float64) (SceneHit, bool) {
	var best SceneHit
	found := false
	for _, snap := range s.Targets {
		hit, ok := snap.bvh.ClosestHit(origin, dir, maxDist)
		if !ok {
			continue
		}
		betterDist := !found || hit.Dist < best.Dist-1e-12
		tie := found && hit.Dist <= best.Dist+1e-12
		replace := betterDist
		if tie && !betterDist {
			if snap.Index < best.TargetIndex || (snap.Index == best.TargetIndex && hit.TriIndex < best.TriIndex) {
				replace = true
			}
		}
		if replace {
			best = SceneHit{
				Dist:          hit.Dist,
				TargetIndex:   snap.Index,
				TriIndex:      hit.TriIndex,
				Triangle:      hit.Triangle,
				Velocity:      snap.velocities[hit.TriIndex],
				Material:      snap.Material,
				SkipDiffusion: snap.SkipDiffusion,
			}
			found = true
		}
	}
	return best, found
}

// AnyHit reports whether any target snapshot is struck within (0, maxDist].
func (s *Scene) AnyHit(origin, dir geom.Vec3, maxDist float64) bool {
	for _, snap := range s.Targets {
		if snap.bvh.AnyHit(origin, dir, maxDist) {
			return true
		}
	}
	return false
}
