package constraint

import (
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// splitConstrainedEdge splits a constrained edge e at its geometric
// midpoint, propagates its region/line flags to both resulting halves,
// marks both halves synthetic, legalizes the four disturbed opposite
// sides, and returns the new vertex's outgoing half-edge.
func (p *Processor) splitConstrainedEdge(e quadedge.EdgeID) quadedge.EdgeID {
	pool := p.tri.Pool
	a := pool.Origin(e)
	b := pool.Origin(pool.F(e))
	ap, bp := p.tri.Pos(a), p.tri.Pos(b)
	mx, my := (ap.X+bp.X)/2, (ap.Y+bp.Y)/2
	za, zb := p.tri.Verts.Z(a), p.tri.Verts.Z(b)
	mIdx := p.tri.NewSyntheticVertex(mx, my, float32((za+zb)/2))

	res := quadedge.SplitEdge(pool, e, mIdx)
	propagateSplitFlags(pool, res)
	pool.SetSynthetic(res.AM, true)
	pool.SetSynthetic(res.MB, true)

	p.tri.Legalize(res.Legalize[:])
	p.tri.GrowBounds(mx, my)
	p.tri.SetSearchEdge(res.MB)
	return res.MB
}

// propagateSplitFlags copies res.AM's constraint role (still intact, since
// SplitEdge reuses the original pair for the A-m half) onto the newly
// allocated m-B half (spec §4.7 "Region membership on split border
// edges" / "Propagation during edge splits"), then runs the pinwheel sweep
// that re-derives the two new diagonal spokes' region-interior flags.
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

// encroachesDiametral reports whether apex lies inside or on the diametral
// circle of edge e -- the circle whose diameter is e's own two endpoints
// (spec §4.7 Restore-Conformity step 1, reused by refinement's segment
// encroachment check in §4.8 step c).
func (p *Processor) encroachesDiametral(e quadedge.EdgeID, apex quadedge.EdgeID) bool {
	pool := p.tri.Pool
	a := pool.Origin(e)
	b := pool.Origin(pool.F(e))
	c := pool.Origin(apex)
	if c == vertex.NullIndex {
		return false
	}
	ap, bp, cp := p.tri.Pos(a), p.tri.Pos(b), p.tri.Pos(c)
	mx, my := (ap.X+bp.X)/2, (ap.Y+bp.Y)/2
	r2 := ((bp.X-ap.X)*(bp.X-ap.X) + (bp.Y-ap.Y)*(bp.Y-ap.Y)) / 4
	dx, dy := cp.X-mx, cp.Y-my
	return dx*dx+dy*dy <= r2
}

// restoreConformity repeatedly splits constrained edges whose diametral
// circle contains the opposite triangle's apex, up to the processor's
// recursion budget (spec §4.7 Restore-Conformity). Returns the number of
// splits performed and whether every constrained edge ended up
// conformant.
func (p *Processor) restoreConformity() (splits int, conformant bool) {
	pool := p.tri.Pool
	for depth := 0; depth < p.recursionBudget; depth++ {
		var worst quadedge.EdgeID = quadedge.NilEdge
		pool.LivePairs(func(base quadedge.EdgeID) {
			if worst != quadedge.NilEdge {
				return
			}
			for _, e := range [2]quadedge.EdgeID{base, pool.Dual(base)} {
				if !pool.IsConstrained(e) {
					continue
				}
				apex := pool.F(pool.F(pool.Dual(e)))
				if pool.Origin(apex) == vertex.NullIndex {
					continue
				}
				if p.encroachesDiametral(e, apex) {
					worst = e
					return
				}
			}
		})
		if worst == quadedge.NilEdge {
			return splits, true
		}
		p.splitConstrainedEdge(worst)
		splits++
	}
	return splits, false
}
