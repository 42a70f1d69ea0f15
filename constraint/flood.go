package constraint

import "github.com/iceisfun/tinmesh/quadedge"

// floodFillRegion marks every edge reachable from pc's border into the
// polygon's interior with region_interior + pc.index, stopping at any
// edge already classified as border or as interior for a different index
// (spec §4.7 step 3). It returns the peak BFS queue length.
//
// Each border edge is directed from one chain point to the next; by
// convention (and because every mesh face is a CCW 3-cycle, I3) the
// triangle to the edge's left -- i.e. the edge's own face -- is the
// interior side. Hole polygons (step 4) never call this: their border
// alone records the hole, and the surrounding solid polygon's flood fill
// stops when it reaches that border.
func (p *Processor) floodFillRegion(pc processedConstraint) int {
	pool := p.tri.Pool
	visited := make(map[quadedge.EdgeID]bool)
	var queue []quadedge.EdgeID
	peak := 0

	push := func(e quadedge.EdgeID) {
		if e == quadedge.NilEdge || visited[e] || pool.IsGhostEdge(e) {
			return
		}
		if pool.IsRegionBorder(e) {
			return
		}
		if idx, ok := pool.RegionIndex(e); ok && pool.IsRegionInterior(e) && idx != pc.index {
			return
		}
		visited[e] = true
		queue = append(queue, e)
		if len(queue) > peak {
			peak = len(queue)
		}
	}

	for _, be := range pc.borderEdge {
		push(pool.F(be))
		push(pool.F(pool.F(be)))
	}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if !pool.IsRegionBorder(e) {
			pool.SetRegionInterior(e, pc.index)
		}
		push(pool.F(e))
		if !pool.IsRegionBorder(e) {
			de := pool.Dual(e)
			push(pool.F(de))
			push(pool.F(pool.F(de)))
		}
	}
	return peak
}
