package constraint

import (
	"fmt"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// forceSegment returns a half-edge from 'from' to 'to' that is present in
// the mesh, forcing it in by removing crossing edges and retriangulating
// if it is not already there (spec §4.7 step 2).
func (p *Processor) forceSegment(from, to vertex.Index) (quadedge.EdgeID, error) {
	if from == to {
		return quadedge.NilEdge, ErrDegenerateSegment
	}
	if e, ok := p.findOutgoingEdge(from, to); ok {
		return e, nil
	}
	return p.forceCrossingEdges(from, to)
}

// findOutgoingEdge scans the edges incident to v (via VertexEdges) for one
// whose destination is target, spec §4.7 step 2b "walk along the edges
// incident to p".
func (p *Processor) findOutgoingEdge(v, target vertex.Index) (quadedge.EdgeID, bool) {
	pool := p.tri.Pool
	seed := p.anyEdgeFrom(v)
	if seed == quadedge.NilEdge {
		return quadedge.NilEdge, false
	}
	ring, err := pool.VertexEdges(seed, 2*int(pool.Allocated())+64)
	if err != nil {
		return quadedge.NilEdge, false
	}
	for _, e := range ring {
		if pool.Origin(pool.F(e)) == target {
			return e, true
		}
	}
	return quadedge.NilEdge, false
}

// anyEdgeFrom finds some live half-edge whose origin is v by scanning live
// pairs; used to seed VertexEdges the first time for a given vertex (the
// triangulation does not index edges by vertex).
func (p *Processor) anyEdgeFrom(v vertex.Index) quadedge.EdgeID {
	pool := p.tri.Pool
	found := quadedge.NilEdge
	pool.LivePairs(func(base quadedge.EdgeID) {
		if found != quadedge.NilEdge {
			return
		}
		if pool.Origin(base) == v {
			found = base
		} else if pool.Origin(pool.Dual(base)) == v {
			found = pool.Dual(base)
		}
	})
	return found
}

// forceCrossingEdges implements Sloan's "insert then flip" construction
// (spec §4.7 step 2d, first alternative): trace the edges segment pq
// crosses, repeatedly flip them out of the way (a flip refused because the
// local quad is non-convex is retried later), until pq itself is an edge of
// the mesh. A crossing edge that is itself constrained is dropped unflipped;
// pq then cannot appear and the function fails with ErrForceEdgeGaveUp.
func (p *Processor) forceCrossingEdges(from, to vertex.Index) (quadedge.EdgeID, error) {
	tri := p.tri
	pool := tri.Pool
	pp, qp := tri.Pos(from), tri.Pos(to)

	crossing, err := p.traceCrossingEdges(from, to)
	if err != nil {
		return quadedge.NilEdge, err
	}

	maxRounds := 4*len(crossing) + 64
	for round := 0; len(crossing) > 0; round++ {
		if round > maxRounds {
			return quadedge.NilEdge, fmt.Errorf("%w: %d edges still crossing after %d rounds", ErrForceEdgeGaveUp, len(crossing), round)
		}
		e := crossing[0]
		crossing = crossing[1:]

		if !pool.IsLive(e) || pool.IsConstrained(e) {
			continue
		}
		if stillCrosses(pool, tri, e, pp, qp) {
			ok, _ := quadedge.Flip(pool, e, tri.Pos)
			if !ok {
				crossing = append(crossing, e)
				continue
			}
			if stillCrosses(pool, tri, e, pp, qp) {
				crossing = append(crossing, e)
			}
		}
	}

	if e, ok := p.findOutgoingEdge(from, to); ok {
		return e, nil
	}
	return quadedge.NilEdge, fmt.Errorf("%w: pq edge missing after all crossings cleared", ErrForceEdgeGaveUp)
}

// stillCrosses reports whether e's two endpoints straddle the line through
// pp/qp and e's segment properly intersects segment pq.
func stillCrosses(pool *quadedge.Pool, tri *delaunay.Triangulation, e quadedge.EdgeID, pp, qp predicates.Point) bool {
	a := pool.Origin(e)
	b := pool.Origin(pool.F(e))
	if a == vertex.NullIndex || b == vertex.NullIndex {
		return false
	}
	ap, bp := tri.Pos(a), tri.Pos(b)
	s1 := predicates.Orient(pp, qp, ap)
	s2 := predicates.Orient(pp, qp, bp)
	if s1 == 0 || s2 == 0 || (s1 > 0) == (s2 > 0) {
		return false
	}
	t1 := predicates.Orient(ap, bp, pp)
	t2 := predicates.Orient(ap, bp, qp)
	return t1 != 0 && t2 != 0 && (t1 > 0) != (t2 > 0)
}

// traceCrossingEdges walks the chain of triangles from the vertex 'from'
// toward 'to', collecting every edge strictly crossed by segment pq. It
// starts at the wedge of triangles around 'from' that contains the
// direction to 'to', then repeatedly crosses into the next triangle over
// the edge opposite the advancing apex until the triangle containing 'to'
// is reached.
func (p *Processor) traceCrossingEdges(from, to vertex.Index) ([]quadedge.EdgeID, error) {
	tri := p.tri
	pool := tri.Pool
	pp, qp := tri.Pos(from), tri.Pos(to)

	seed := p.anyEdgeFrom(from)
	if seed == quadedge.NilEdge {
		return nil, fmt.Errorf("%w: no edge incident to constraint endpoint", ErrForceEdgeGaveUp)
	}
	ring, err := pool.VertexEdges(seed, 2*int(pool.Allocated())+64)
	if err != nil {
		return nil, err
	}

	// Find the opposite edge of the triangle fan at 'from' that segment pq
	// passes through: the edge e in the ring such that to lies strictly
	// between e's direction and Onext(e)'s direction (CCW).
	var entry quadedge.EdgeID = quadedge.NilEdge
	for _, e := range ring {
		if pool.IsGhostTriangle(e) {
			continue
		}
		b := pool.Origin(pool.F(e))
		c := pool.Origin(pool.F(pool.F(e)))
		if b == vertex.NullIndex || c == vertex.NullIndex {
			continue
		}
		bp, cp := tri.Pos(b), tri.Pos(c)
		// b on or right of pq and c on or left of it: the direction from
		// 'from' to 'to' lies inside this face's wedge at 'from'.
		if predicates.Orient(pp, qp, bp) <= 0 && predicates.Orient(pp, qp, cp) >= 0 {
			opp := pool.F(e)
			entry = opp
			break
		}
	}
	if entry == quadedge.NilEdge {
		return nil, nil
	}

	var crossing []quadedge.EdgeID
	cur := entry
	for step := 0; ; step++ {
		if step > 2*int(pool.Allocated())+64 {
			return nil, fmt.Errorf("%w: crossing trace did not reach the far endpoint", ErrForceEdgeGaveUp)
		}
		a := pool.Origin(cur)
		b := pool.Origin(pool.F(cur))
		if a == to || b == to {
			return crossing, nil
		}
		crossing = append(crossing, cur)

		// Cross into the adjacent triangle over cur, then pick whichever
		// of its other two sides pq still crosses.
		de := pool.Dual(cur)
		apex := pool.Origin(pool.F(pool.F(de)))
		if apex == vertex.NullIndex {
			return crossing, nil
		}
		apexP := tri.Pos(apex)
		side := predicates.Orient(pp, qp, apexP)
		if side == 0 {
			// pq passes exactly through apex: done at this vertex.
			return crossing, nil
		}
		// Apex left of pq: pq leaves over the side from cur's origin to the
		// apex; apex right: over the side from the apex to cur's far end.
		if side > 0 {
			cur = pool.F(de)
		} else {
			cur = pool.F(pool.F(de))
		}
	}
}
