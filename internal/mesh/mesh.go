// Package mesh implements the mesh target of spec.md §3/§4.1: a triangle
// soup with per-triangle normal/area/centroid, a pose trajectory, material
// constants, and the skip_diffusion flag for ground-like surfaces.
package mesh

import (
	"github.com/radarsimx/radarsimgo/internal/config"
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/material"
	"github.com/radarsimx/radarsimgo/internal/platform"
	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// minTriangleArea is the degenerate-triangle floor of spec.md §4.10.
const minTriangleArea = 1e-12

// Triangle is one local-frame triangle plus its precomputed normal, area,
// and centroid (spec.md §4.1 component 2).
type Triangle struct {
	V0, V1, V2 geom.Vec3
	Normal     geom.Vec3 // unit, right-hand rule from V0->V1->V2
	Area       float64
	Centroid   geom.Vec3
}

func newTriangle(v0, v1, v2 geom.Vec3) (Triangle, error) {
	e1 := geom.Sub(v1, v0)
	e2 := geom.Sub(v2, v0)
	cr := geom.Cross(e1, e2)
	area := 0.5 * geom.Norm(cr)
	if area < minTriangleArea {
		return Triangle{}, simerr.New(simerr.MeshError, "degenerate triangle: area %.3e below floor %.3e", area, minTriangleArea)
	}
	normal := geom.Unit(cr)
	centroid := geom.Scale(1.0/3.0, geom.Add(geom.Add(v0, v1), v2))
	return Triangle{V0: v0, V1: v1, V2: v2, Normal: normal, Area: area, Centroid: centroid}, nil
}

// Target is a mesh target: its local-frame triangle soup, pose trajectory,
// material, and skip_diffusion flag (spec.md §3).
type Target struct {
	Index         int
	LocalTris     []Triangle
	Origin        geom.Vec3
	Motion        platform.Motion
	Material      material.Material
	SkipDiffusion bool
}

// New builds a Target from raw vertex/triangle data plus config, applying
// the declared unit scale (spec.md §8's mm-vs-m testable property) and
// rejecting degenerate triangles (spec.md §4.10).
func New(index int, data config.MeshData, unit config.Unit, origin geom.Vec3, motion platform.Motion, mat material.Material, skipDiffusion bool) (*Target, error) {
	scale, err := unit.Scale()
	if err != nil {
		return nil, err
	}
	if err := mat.Validate(); err != nil {
		return nil, err
	}

	tris := make([]Triangle, 0, len(data.Triangles))
	for _, idx := range data.Triangles {
		v0 := scaleVertex(data.Vertices[idx[0]], scale)
		v1 := scaleVertex(data.Vertices[idx[1]], scale)
		v2 := scaleVertex(data.Vertices[idx[2]], scale)
		tri, err := newTriangle(v0, v1, v2)
		if err != nil {
			return nil, err
		}
		tris = append(tris, tri)
	}

	return &Target{
		Index:         index,
		LocalTris:     tris,
		Origin:        origin,
		Motion:        motion,
		Material:      mat,
		SkipDiffusion: skipDiffusion,
	}, nil
}

func scaleVertex(v [3]float64, scale float64) geom.Vec3 {
	return geom.Vec3{X: v[0] * scale, Y: v[1] * scale, Z: v[2] * scale}
}

// WorldTriangle is a triangle transformed to world frame at a specific
// time, plus the instantaneous velocity of its centroid (for Doppler).
type WorldTriangle struct {
	Triangle
	Velocity geom.Vec3
}

// WorldAt transforms the target's local triangles into world frame at
// channel ch, pulse p, sample s, timestamp t, per spec.md §4.1:
// v_world = R(t)*(v_local - origin) + location(t), and triangle velocity
// v = v_linear + omega x (v_world - location).
func (tgt *Target) WorldAt(ch, p, s int, t float64) []WorldTriangle {
	loc, rot := tgt.Motion.PoseAt(ch, p, s, t)
	omega := tgt.Motion.AngularVelocity()
	linear := tgt.Motion.Speed

	out := make([]WorldTriangle, len(tgt.LocalTris))
	for i, tri := range tgt.LocalTris {
		v0 := transformPoint(tri.V0, tgt.Origin, rot, loc)
		v1 := transformPoint(tri.V1, tgt.Origin, rot, loc)
		v2 := transformPoint(tri.V2, tgt.Origin, rot, loc)
		normal := rot.Apply(tri.Normal)
		centroid := transformPoint(tri.Centroid, tgt.Origin, rot, loc)
		vel := geom.Add(linear, geom.Cross(omega, geom.Sub(centroid, loc)))
		out[i] = WorldTriangle{
			Triangle: Triangle{V0: v0, V1: v1, V2: v2, Normal: normal, Area: tri.Area, Centroid: centroid},
			Velocity: vel,
		}
	}
	return out
}

func transformPoint(v, origin geom.Vec3, rot geom.Mat3, loc geom.Vec3) geom.Vec3 {
	return geom.Add(rot.Apply(geom.Sub(v, origin)), loc)
}
