package refine

import (
	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/quadedge"
)

// pointEncroachesSegment reports whether (x, y) falls inside or on the
// diametral circle of edge e -- the same test constraint.Processor uses
// for Restore-Conformity, applied here to a candidate Steiner point
// rather than an existing apex vertex (spec §4.8 step c "segment
// encroachment smart-split").
func pointEncroachesSegment(tri *delaunay.Triangulation, e quadedge.EdgeID, x, y float64) bool {
	pool := tri.Pool
	a := pool.Origin(e)
	b := pool.Origin(pool.F(e))
	ap, bp := tri.Pos(a), tri.Pos(b)
	mx, my := (ap.X+bp.X)/2, (ap.Y+bp.Y)/2
	r2 := ((bp.X-ap.X)*(bp.X-ap.X) + (bp.Y-ap.Y)*(bp.Y-ap.Y)) / 4
	dx, dy := x-mx, y-my
	return dx*dx+dy*dy <= r2
}

// findEncroachedSegment scans every constrained edge for one encroached
// by (x, y), returning the first found. A linear scan is adequate here:
// encroachment only needs to be checked on the (much rarer) occasions a
// freshly proposed Steiner point lands near a constrained boundary.
func findEncroachedSegment(tri *delaunay.Triangulation, x, y float64) (quadedge.EdgeID, bool) {
	pool := tri.Pool
	found := quadedge.NilEdge
	pool.LivePairs(func(base quadedge.EdgeID) {
		if found != quadedge.NilEdge {
			return
		}
		for _, e := range [2]quadedge.EdgeID{base, pool.Dual(base)} {
			if !pool.IsConstrained(e) {
				continue
			}
			if pointEncroachesSegment(tri, e, x, y) {
				found = e
				return
			}
		}
	})
	return found, found != quadedge.NilEdge
}

// splitResult bundles what a segment split introduces, so the caller can
// requeue the triangles now incident to the new vertex.
type splitResult struct {
	newVertexEdge quadedge.EdgeID
}

// splitSegment splits constrained edge e at its geometric midpoint,
// propagating its region/line flags to both halves and marking them
// synthetic, mirroring constraint.Processor.splitConstrainedEdge. It is
// duplicated here rather than imported because that method is an
// unexported piece of the constraint package's Processor and refine has
// no other dependency on that package; both packages independently ground
// the same primitive described in spec §4.7/§4.8.
func splitSegment(tri *delaunay.Triangulation, e quadedge.EdgeID) splitResult {
	pool := tri.Pool
	a := pool.Origin(e)
	b := pool.Origin(pool.F(e))
	ap, bp := tri.Pos(a), tri.Pos(b)
	mx, my := (ap.X+bp.X)/2, (ap.Y+bp.Y)/2
	mz := (tri.Verts.Z(a) + tri.Verts.Z(b)) / 2

	mIdx := tri.NewSyntheticVertex(mx, my, float32(mz))
	res := quadedge.SplitEdge(pool, e, mIdx)
	propagateSplitFlags(pool, res)
	pool.SetSynthetic(res.AM, true)
	pool.SetSynthetic(res.MB, true)

	tri.Legalize(res.Legalize[:])
	tri.GrowBounds(mx, my)
	tri.SetSearchEdge(res.MB)
	return splitResult{newVertexEdge: res.MB}
}

func propagateSplitFlags(pool *quadedge.Pool, res quadedge.SplitResult) {
	src, dst := res.AM, res.MB
	if pool.IsConstrained(src) {
		pool.SetConstrained(dst, true)
		switch {
		case pool.IsRegionBorder(src):
			idx, _ := pool.RegionIndex(src)
			pool.SetRegionBorder(dst, idx)
		case pool.IsRegionInterior(src):
			idx, _ := pool.RegionIndex(src)
			pool.SetRegionInterior(dst, idx)
		}
		if pool.IsLineMember(src) {
			idx, _ := pool.LineIndex(src)
			pool.SetLineMember(dst, idx)
		}
	}
	propagateInteriorSpokes(pool, res)
}

// propagateInteriorSpokes runs the pinwheel sweep around the new midpoint:
// the two diagonal spokes SplitEdge introduces (M-C and M-D) take on a
// region's interior index only when both triangles the spoke now separates
// already carry that same index, so a spoke that crosses into a hole (whose
// interior is never flagged by flood fill) stays unmarked.
func propagateInteriorSpokes(pool *quadedge.Pool, res quadedge.SplitResult) {
	mc := pool.F(res.AM)
	ec := pool.F(mc)
	eb := pool.F(res.MB)
	markInteriorSpoke(pool, mc, ec, eb)

	bm := pool.Dual(res.MB)
	md := pool.F(bm)
	eda := pool.F(md)
	de := pool.Dual(res.AM)
	ed := pool.F(de)
	markInteriorSpoke(pool, md, eda, ed)
}

// markInteriorSpoke sets spoke's region_interior flag to the shared index
// of sideA/sideB, the two pre-existing edges of the triangles spoke now
// borders, but only when both sides already carry that same interior
// index (and spoke is not itself a constraint -- a freshly split diagonal
// never is).
func markInteriorSpoke(pool *quadedge.Pool, spoke, sideA, sideB quadedge.EdgeID) {
	if pool.IsConstrained(spoke) {
		return
	}
	if !pool.IsRegionInterior(sideA) || !pool.IsRegionInterior(sideB) {
		return
	}
	idxA, okA := pool.RegionIndex(sideA)
	idxB, okB := pool.RegionIndex(sideB)
	if okA && okB && idxA == idxB {
		pool.SetRegionInterior(spoke, idxA)
	}
}
