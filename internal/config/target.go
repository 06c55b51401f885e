package config

import (
	"fmt"

	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// MeshData is the {vertices, triangles} pair the mesh-I/O collaborator
// produces (spec.md §1, "out of scope: mesh I/O"). This module only
// consumes it.
type MeshData struct {
	Vertices  [][3]float64 // N x 3, in the unit declared by MeshTarget.Unit
	Triangles [][3]int     // M x 3, indices into Vertices
}

// TierFreeTriangleCap is the free-tier cap on triangle count (spec.md §3).
const TierFreeTriangleCap = 8

func (m MeshData) Validate(isFreeTier bool) error {
	if len(m.Triangles) == 0 {
		return simerr.New(simerr.MeshError, "mesh has no triangles")
	}
	if isFreeTier && len(m.Triangles) > TierFreeTriangleCap {
		return simerr.New(simerr.TierLimit, "free tier caps triangle count at %d, got %d", TierFreeTriangleCap, len(m.Triangles))
	}
	n := len(m.Vertices)
	for i, tri := range m.Triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= n {
				return simerr.New(simerr.MeshError, "triangle %d references out-of-range vertex index %d (have %d vertices)", i, idx, n)
			}
		}
	}
	return nil
}

// MeshTarget is a triangle mesh target with its pose trajectory and
// material, per spec.md §3/§6.
type MeshTarget struct {
	Model          MeshData
	Unit           Unit
	Origin         [3]float64
	Motion         Motion
	Permittivity   Permittivity
	PermeabilityMu complex128 // default 1+0j when zero value is supplied
	SkipDiffusion  bool
}

func (t MeshTarget) Validate(isFreeTier bool) error {
	if err := t.Model.Validate(isFreeTier); err != nil {
		return err
	}
	if _, err := t.Unit.Scale(); err != nil {
		return err
	}
	return nil
}

// Permeability returns PermeabilityMu, defaulting to 1+0j when unset.
func (t MeshTarget) Permeability() complex128 {
	if t.PermeabilityMu == 0 {
		return complex(1, 0)
	}
	return t.PermeabilityMu
}

// PointTarget is an ideal point scatterer target, per spec.md §3/§6.
type PointTarget struct {
	Location     [3]float64
	LocationGrid [][][][3]float64 // optional per-sample override
	Speed        [3]float64
	RCS          []float64    // linear m^2, one per sample timeline or scalar-broadcast length 1
	Phase        []float64    // radians, same length convention as RCS
}

func (p PointTarget) Validate() error {
	if len(p.RCS) != len(p.Phase) {
		return simerr.New(simerr.InvalidConfig, "point target: rcs/phase length mismatch (%d vs %d)", len(p.RCS), len(p.Phase))
	}
	for i, sigma := range p.RCS {
		if sigma < 0 {
			return simerr.New(simerr.InvalidConfig, "point target: rcs[%d] = %v is negative", i, sigma)
		}
	}
	return nil
}

// Target is the tagged variant `Scatterer = Point | Mesh` spec.md §9 calls
// for, replacing reflection/duck typing with an explicit union.
type Target struct {
	Mesh  *MeshTarget
	Point *PointTarget
}

func (t Target) Validate(isFreeTier bool) error {
	switch {
	case t.Mesh != nil && t.Point != nil:
		return simerr.New(simerr.InvalidConfig, "target must be exactly one of mesh or point, got both")
	case t.Mesh != nil:
		return t.Mesh.Validate(isFreeTier)
	case t.Point != nil:
		return t.Point.Validate()
	default:
		return simerr.New(simerr.InvalidConfig, "target must be exactly one of mesh or point, got neither")
	}
}

// TierFreeTargetCap is the free-tier cap on total target count.
const TierFreeTargetCap = 2

// ValidateTargets validates a whole target list, including the free-tier
// target-count cap.
func ValidateTargets(targets []Target, isFreeTier bool) error {
	if isFreeTier && len(targets) > TierFreeTargetCap {
		return simerr.New(simerr.TierLimit, "free tier caps target count at %d, got %d", TierFreeTargetCap, len(targets))
	}
	for i, t := range targets {
		if err := t.Validate(isFreeTier); err != nil {
			return fmt.Errorf("target %d: %w", i, err)
		}
	}
	return nil
}
