// Package bvh builds a bounding-volume hierarchy over a triangle set and
// answers closest-hit/any-hit ray queries against it, per spec.md §4.2.
// The BVH indexes whatever triangles Build receives; the ray tracer passes
// a target's world-frame triangles and rebuilds the BVH at every snapshot
// rather than building it once in the target's local frame.
package bvh

import (
	"math"
	"sort"

	"github.com/radarsimx/radarsimgo/internal/geom"
	"github.com/radarsimx/radarsimgo/internal/mesh"
)

const leafSize = 4

// aabb is an axis-aligned bounding box.
type aabb struct {
	Min, Max geom.Vec3
}

func emptyBox() aabb {
	inf := math.Inf(1)
	return aabb{Min: geom.Vec3{X: inf, Y: inf, Z: inf}, Max: geom.Vec3{X: -inf, Y: -inf, Z: -inf}}
}

func (b aabb) extend(p geom.Vec3) aabb {
	return aabb{
		Min: geom.Vec3{X: math.Min(b.Min.X, p.X), Y: math.Min(b.Min.Y, p.Y), Z: math.Min(b.Min.Z, p.Z)},
		Max: geom.Vec3{X: math.Max(b.Max.X, p.X), Y: math.Max(b.Max.Y, p.Y), Z: math.Max(b.Max.Z, p.Z)},
	}
}

func (b aabb) union(o aabb) aabb {
	return aabb{
		Min: geom.Vec3{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: geom.Vec3{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

func (b aabb) longestAxis() int {
	ext := geom.Sub(b.Max, b.Min)
	if ext.X >= ext.Y && ext.X >= ext.Z {
		return 0
	}
	if ext.Y >= ext.Z {
		return 1
	}
	return 2
}

func axisOf(v geom.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// node is one BVH node: either an interior node (Left/Right >= 0, Count
// == 0) or a leaf referencing triIdx[Start:Start+Count].
type node struct {
	Box         aabb
	Left, Right int // child node indices, -1 for none
	Start, Count int
}

// BVH is a static acceleration structure over the triangle set passed to
// Build.
type BVH struct {
	nodes   []node
	triIdx  []int
	tris    []mesh.Triangle
	rootIdx int
}

// Build constructs the BVH deterministically: splits are chosen by the
// midpoint of the longest axis of the node's bounding box, with ties
// broken by triangle index, per spec.md §4.2. When every centroid falls on
// one side of that midpoint the node is split at the median centroid.
func Build(tris []mesh.Triangle) *BVH {
	b := &BVH{tris: tris, triIdx: make([]int, len(tris))}
	for i := range b.triIdx {
		b.triIdx[i] = i
	}
	if len(tris) == 0 {
		return b
	}
	b.rootIdx = b.buildRange(0, len(tris))
	return b
}

func (b *BVH) boxOf(i int) aabb {
	t := b.tris[b.triIdx[i]]
	box := emptyBox()
	box = box.extend(t.V0)
	box = box.extend(t.V1)
	box = box.extend(t.V2)
	return box
}

// buildRange builds the subtree over triIdx[start:start+count] and
// returns its node index.
func (b *BVH) buildRange(start, count int) int {
	box := emptyBox()
	for i := start; i < start+count; i++ {
		box = box.union(b.boxOf(i))
	}

	if count <= leafSize {
		idx := len(b.nodes)
		b.nodes = append(b.nodes, node{Box: box, Left: -1, Right: -1, Start: start, Count: count})
		return idx
	}

	axis := box.longestAxis()
	slice := b.triIdx[start : start+count]
	sort.SliceStable(slice, func(i, j int) bool {
		ci := axisOf(b.tris[slice[i]].Centroid, axis)
		cj := axisOf(b.tris[slice[j]].Centroid, axis)
		if ci != cj {
			return ci < cj
		}
		return slice[i] < slice[j] // deterministic tie-break by index
	})

	mid := start + count/2
	midpoint := 0.5 * (axisOf(box.Min, axis) + axisOf(box.Max, axis))
	k := sort.Search(count, func(i int) bool { return axisOf(b.tris[slice[i]].Centroid, axis) >= midpoint })
	if k > 0 && k < count {
		mid = start + k
	}
	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{Box: box}) // placeholder, fixed below
	left := b.buildRange(start, mid-start)
	right := b.buildRange(mid, start+count-mid)
	b.nodes[idx] = node{Box: box, Left: left, Right: right, Start: -1, Count: 0}
	return idx
}

// Hit is a closest-hit or any-hit result, in the frame of the triangles
// passed to Build.
type Hit struct {
	Dist      float64
	TriIndex  int // index into the original tris slice passed to Build
	Triangle  mesh.Triangle
}

func (b aabb) intersects(origin, invDir geom.Vec3, maxDist float64) bool {
	t0x, t1x := (b.Min.X-origin.X)*invDir.X, (b.Max.X-origin.X)*invDir.X
	if t0x > t1x {
		t0x, t1x = t1x, t0x
	}
	t0y, t1y := (b.Min.Y-origin.Y)*invDir.Y, (b.Max.Y-origin.Y)*invDir.Y
	if t0y > t1y {
		t0y, t1y = t1y, t0y
	}
	t0z, t1z := (b.Min.Z-origin.Z)*invDir.Z, (b.Max.Z-origin.Z)*invDir.Z
	if t0z > t1z {
		t0z, t1z = t1z, t0z
	}
	tmin := math.Max(math.Max(t0x, t0y), math.Max(t0z, 0))
	tmax := math.Min(math.Min(t1x, t1y), math.Min(t1z, maxDist))
	return tmin <= tmax
}

// ClosestHit returns the nearest triangle intersection along the ray
// (origin, dir) within (0, maxDist], or ok=false on a miss.
func (b *BVH) ClosestHit(origin, dir geom.Vec3, maxDist float64) (hit Hit, ok bool) {
	if len(b.tris) == 0 {
		return Hit{}, false
	}
	invDir := geom.Vec3{X: safeInv(dir.X), Y: safeInv(dir.Y), Z: safeInv(dir.Z)}
	best := Hit{Dist: maxDist}
	found := false
	b.walk(b.rootIdx, origin, dir, invDir, maxDist, func(d float64, triIdx int) {
		if !found || d < best.Dist || (d == best.Dist && triIdx < best.TriIndex) {
			best = Hit{Dist: d, TriIndex: triIdx, Triangle: b.tris[triIdx]}
			found = true
		}
	})
	return best, found
}

// AnyHit returns true as soon as any intersection within (0, maxDist] is
// found, for shadow/occlusion queries.
func (b *BVH) AnyHit(origin, dir geom.Vec3, maxDist float64) bool {
	if len(b.tris) == 0 {
		return false
	}
	invDir := geom.Vec3{X: safeInv(dir.X), Y: safeInv(dir.Y), Z: safeInv(dir.Z)}
	hitAny := false
	b.walk(b.rootIdx, origin, dir, invDir, maxDist, func(float64, int) { hitAny = true })
	return hitAny
}

func safeInv(x float64) float64 {
	if x == 0 {
		return math.Inf(1)
	}
	return 1 / x
}

func (b *BVH) walk(idx int, origin, dir, invDir geom.Vec3, maxDist float64, onHit func(dist float64, triIdx int)) {
	n := b.nodes[idx]
	if !n.Box.intersects(origin, invDir, maxDist) {
		return
	}
	if n.Count > 0 {
		for i := n.Start; i < n.Start+n.Count; i++ {
			triIdx := b.triIdx[i]
			if d, hit := intersectTriangleWatertight(origin, dir, b.tris[triIdx]); hit && d > 0 && d <= maxDist {
				onHit(d, triIdx)
			}
		}
		return
	}
	b.walk(n.Left, origin, dir, invDir, maxDist, onHit)
	b.walk(n.Right, origin, dir, invDir, maxDist, onHit)
}

// intersectTriangleWatertight is the watertight Moller-Trumbore variant
// (Woop, Benthin, Wald 2013): the ray direction's dominant axis is swapped
// to z and the remaining two axes sheared so the ray becomes (0,0,1)
// through the origin, eliminating the edge/vertex double-hit and
// false-miss cases plain Moller-Trumbore has near triangle edges.
func intersectTriangleWatertight(origin, dir geom.Vec3, tri mesh.Triangle) (dist float64, ok bool) {
	kz := dominantAxis(dir)
	kx := (kz + 1) % 3
	ky := (kz + 2) % 3
	if axisOf(dir, kz) < 0 {
		kx, ky = ky, kx
	}

	sz := 1.0 / axisOf(dir, kz)
	sx := axisOf(dir, kx) * sz
	sy := axisOf(dir, ky) * sz

	a := geom.Sub(tri.V0, origin)
	bb := geom.Sub(tri.V1, origin)
	c := geom.Sub(tri.V2, origin)

	ax := axisOf(a, kx) - sx*axisOf(a, kz)
	ay := axisOf(a, ky) - sy*axisOf(a, kz)
	bx := axisOf(bb, kx) - sx*axisOf(bb, kz)
	by := axisOf(bb, ky) - sy*axisOf(bb, kz)
	cx := axisOf(c, kx) - sx*axisOf(c, kz)
	cy := axisOf(c, ky) - sy*axisOf(c, kz)

	u := cx*by - cy*bx
	v := ax*cy - ay*cx
	w := bx*ay - by*ax

	if (u < 0 || v < 0 || w < 0) && (u > 0 || v > 0 || w > 0) {
		return 0, false
	}
	det := u + v + w
	if det == 0 {
		return 0, false
	}

	az := sz * axisOf(a, kz)
	bz := sz * axisOf(bb, kz)
	cz := sz * axisOf(c, kz)
	t := u*az + v*bz + w*cz

	if det < 0 {
		if t >= 0 {
			return 0, false
		}
	} else if t <= 0 {
		return 0, false
	}

	invDet := 1 / det
	return t * invDet, true
}

func dominantAxis(v geom.Vec3) int {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	if ax >= ay && ax >= az {
		return 0
	}
	if ay >= az {
		return 1
	}
	return 2
}
