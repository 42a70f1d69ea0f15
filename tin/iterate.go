package tin

import (
	"math"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/refine"
	"github.com/iceisfun/tinmesh/vertex"
)

// Triangle names one non-ghost face by its three corner vertices and a
// half-edge whose origin is A, for callers that need to resume a walk or
// query edge flags on one of the face's sides.
type Triangle struct {
	A, B, C vertex.Index
	Edge    quadedge.EdgeID
}

func faceAt(pool *quadedge.Pool, e quadedge.EdgeID) (Triangle, quadedge.EdgeID, quadedge.EdgeID) {
	e1 := pool.F(e)
	e2 := pool.F(e1)
	return Triangle{
		A: pool.Origin(e), B: pool.Origin(e1), C: pool.Origin(e2),
		Edge: e,
	}, e1, e2
}

func repEdge(e0, e1, e2 quadedge.EdgeID) quadedge.EdgeID {
	rep := e0
	if e1 < rep {
		rep = e1
	}
	if e2 < rep {
		rep = e2
	}
	return rep
}

// IterateEdges calls fn once per geometric edge (base half-edge), in
// pool allocation order, stopping early if fn returns false (spec §6
// "non-materialising iterators ... consumers may bail out early").
func (m *Mesh) IterateEdges(fn func(base quadedge.EdgeID) bool) {
	stop := false
	m.tri.Pool.LivePairs(func(base quadedge.EdgeID) {
		if stop {
			return
		}
		if !fn(base) {
			stop = true
		}
	})
}

// IterateTriangles calls fn once per non-ghost face, deduplicated by its
// smallest-numbered half-edge, stopping early if fn returns false.
func (m *Mesh) IterateTriangles(fn func(Triangle) bool) {
	pool := m.tri.Pool
	seen := make(map[quadedge.EdgeID]bool)
	stop := false
	pool.LivePairs(func(base quadedge.EdgeID) {
		if stop {
			return
		}
		for _, e := range [2]quadedge.EdgeID{base, pool.Dual(base)} {
			tr, e1, e2 := faceAt(pool, e)
			if tr.A == vertex.NullIndex || tr.B == vertex.NullIndex || tr.C == vertex.NullIndex {
				continue
			}
			rep := repEdge(e, e1, e2)
			if seen[rep] {
				continue
			}
			seen[rep] = true
			if !fn(tr) {
				stop = true
				return
			}
		}
	})
}

// IterateVertices calls fn once per vertex-object table entry (including
// merger groups; the null sentinel is never stored at a positive index in
// practice but the table format permits it), stopping early on false.
func (m *Mesh) IterateVertices(fn func(vertex.Index, vertex.Object) bool) {
	stop := false
	m.tri.Verts.Each(func(idx vertex.Index, o vertex.Object) {
		if stop {
			return
		}
		if !fn(idx, o) {
			stop = true
		}
	})
}

// GetPerimeter returns the convex hull's half-edges in CCW order (spec §6
// "Perimeter"), walking the ghost-face ring per invariant I5 with the
// safety bound of P12 (2*|edges|+1000 steps).
func (m *Mesh) GetPerimeter() ([]quadedge.EdgeID, error) {
	pool := m.tri.Pool
	seed := m.tri.SearchEdge()
	if seed == quadedge.NilEdge || !pool.IsLive(seed) {
		var found quadedge.EdgeID = quadedge.NilEdge
		pool.LivePairs(func(base quadedge.EdgeID) {
			if found == quadedge.NilEdge {
				found = base
			}
		})
		seed = found
	}
	if seed == quadedge.NilEdge {
		return nil, nil
	}
	// Start from a ghost base edge: if seed's own face is real, its dual
	// or one of its neighbors eventually reaches the hull; since every
	// perimeter edge's dual is a ghost edge, locate one starting from
	// seed's face before walking.
	ghost := findGhostEdge(pool, seed)
	if ghost == quadedge.NilEdge {
		return nil, nil
	}
	maxSteps := 2*int(pool.Allocated()) + 1000
	ring, err := pool.WalkPerimeter(ghost, maxSteps)
	if err != nil {
		return nil, refine.ErrPerimeterWalkOverflow
	}
	return ring, nil
}

// findGhostEdge searches outward from seed (breadth-first over Onext/dual
// neighbors, bounded by the pool size) for a half-edge whose origin is the
// null vertex and returns the hull edge that follows it in its ghost face,
// so GetPerimeter can seed WalkPerimeter regardless of which live edge
// SearchEdge happens to hold.
func findGhostEdge(pool *quadedge.Pool, seed quadedge.EdgeID) quadedge.EdgeID {
	visited := make(map[quadedge.EdgeID]bool)
	queue := []quadedge.EdgeID{seed}
	limit := int(pool.Allocated())*2 + 16
	for len(queue) > 0 && limit > 0 {
		limit--
		e := queue[0]
		queue = queue[1:]
		if visited[e] {
			continue
		}
		visited[e] = true
		if pool.IsGhostEdge(e) {
			return pool.F(e)
		}
		queue = append(queue, pool.F(e), pool.Dual(e))
	}
	return quadedge.NilEdge
}

// GetContainingTriangle locates the non-ghost face containing (x, y), if
// any (spec §6 "get_containing_triangle(x, y) -> triangle | none").
func (m *Mesh) GetContainingTriangle(x, y float64) (Triangle, bool, error) {
	loc, err := m.tri.Locate(predicates.Point{X: x, Y: y})
	if err != nil {
		return Triangle{}, false, err
	}
	if loc.IsGhost {
		return Triangle{}, false, nil
	}
	tr, _, _ := faceAt(m.tri.Pool, loc.Edge)
	return tr, true, nil
}

// GetNeighborEdge locates the half-edge of the face containing (x, y)
// whose origin is nearest that point -- real or ghost (spec §6
// "get_neighbor_edge(x, y) -> half-edge | ghost edge").
func (m *Mesh) GetNeighborEdge(x, y float64) (quadedge.EdgeID, error) {
	loc, err := m.tri.Locate(predicates.Point{X: x, Y: y})
	if err != nil {
		return quadedge.NilEdge, err
	}
	if loc.IsGhost || loc.OnEdge {
		return loc.Edge, nil
	}
	pool := m.tri.Pool
	e0 := loc.Edge
	e1 := pool.F(e0)
	e2 := pool.F(e1)
	best := e0
	bestD := vertexDist2(m.tri, e0, x, y)
	for _, e := range [2]quadedge.EdgeID{e1, e2} {
		if d := vertexDist2(m.tri, e, x, y); d < bestD {
			best, bestD = e, d
		}
	}
	return best, nil
}

func vertexDist2(tri *delaunay.Triangulation, e quadedge.EdgeID, x, y float64) float64 {
	idx := tri.Pool.Origin(e)
	if idx == vertex.NullIndex {
		return math.Inf(1)
	}
	p := tri.Pos(idx)
	dx, dy := p.X-x, p.Y-y
	return dx*dx + dy*dy
}

// GetNearestVertex returns the vertex nearest (x, y) among all real
// (non-null) vertex-object entries, or false if the mesh has none yet
// (spec §6 "get_nearest_vertex(x, y) -> vertex | none"). It searches
// m.grid (a uniform spatial hash, adapted from spatial.HashGrid) outward
// in doubling rings, each ring wide enough to
// guarantee no unseen cell could hold a closer vertex, falling back to a
// full table scan only if the grid search exhausts its step budget
// without ever finding a candidate (an empty or pathologically sparse
// mesh).
func (m *Mesh) GetNearestVertex(x, y float64) (vertex.Index, bool) {
	p := predicates.Point{X: x, Y: y}
	radius := m.grid.cellSize
	for step := 0; step < 40; step++ {
		candidates := m.grid.near(p, radius)
		if len(candidates) > 0 {
			best := vertex.NullIndex
			bestD := math.Inf(1)
			for _, idx := range candidates {
				o := m.tri.Verts.Get(idx)
				if o.IsNull() {
					continue
				}
				d := o.DistanceSquared(x, y)
				if d < bestD {
					best, bestD = idx, d
				}
			}
			if best != vertex.NullIndex && math.Sqrt(bestD) <= radius {
				return best, true
			}
		}
		radius *= 2
	}
	return m.scanNearestVertex(x, y)
}

func (m *Mesh) scanNearestVertex(x, y float64) (vertex.Index, bool) {
	best := vertex.NullIndex
	bestD := math.Inf(1)
	m.tri.Verts.Each(func(idx vertex.Index, o vertex.Object) {
		if o.IsNull() {
			return
		}
		d := o.DistanceSquared(x, y)
		if d < bestD {
			best, bestD = idx, d
		}
	})
	if best == vertex.NullIndex {
		return vertex.NullIndex, false
	}
	return best, true
}
