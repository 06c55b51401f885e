// Package scatterer implements the ideal point scatterer of spec.md §3:
// time-varying position, constant velocity, time-varying RCS and phase,
// with no geometry.
package scatterer

import (
	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/simerr"
)

// Point is one point scatterer. Position, RCS, and Phase are indexed by
// the same flattened sample-timeline convention as the radar's timestamp
// tensor; a length-1 slice is broadcast to every sample.
type Point struct {
	Index    int
	Position []geom.Vec3 // per-sample position (len 1 broadcasts)
	Velocity geom.Vec3   // constant
	RCS      []float64   // linear m^2 (len 1 broadcasts)
	Phase    []float64   // radians (len 1 broadcasts)
}

// New validates RCS >= 0 (spec.md §3 invariant) and returns a Point.
func New(index int, position []geom.Vec3, velocity geom.Vec3, rcs, phase []float64) (*Point, error) {
	for i, sigma := range rcs {
		if sigma < 0 {
			return nil, simerr.New(simerr.InvalidConfig, "point scatterer %d: rcs[%d] = %v is negative", index, i, sigma)
		}
	}
	return &Point{Index: index, Position: position, Velocity: velocity, RCS: rcs, Phase: phase}, nil
}

func broadcastIndex(n, i int) int {
	if n == 1 {
		return 0
	}
	return i
}

// PositionAt returns the scatterer's position at flattened sample index i.
func (p *Point) PositionAt(i int) geom.Vec3 {
	return p.Position[broadcastIndex(len(p.Position), i)]
}

// RCSAt returns sigma (linear, m^2) at flattened sample index i.
func (p *Point) RCSAt(i int) float64 {
	return p.RCS[broadcastIndex(len(p.RCS), i)]
}

// PhaseAt returns the scatterer's phase (radians) at flattened sample
// index i.
func (p *Point) PhaseAt(i int) float64 {
	return p.Phase[broadcastIndex(len(p.Phase), i)]
}
