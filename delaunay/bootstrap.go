package delaunay

import (
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// tryBootstrap attempts to build the initial triangle plus its three
// surrounding ghost triangles from the buffered pre-triangulation vertices
// (spec §4.5 "Bootstrap"). It succeeds as soon as three mutually
// non-collinear buffered vertices are found; any other buffered vertices
// are then inserted in order via the normal insertion path. Returns the
// edge seeded by the last point processed (bootstrap's three points, or
// the final remaining buffered point) and whether bootstrap completed.
func (t *Triangulation) tryBootstrap() (quadedge.EdgeID, bool) {
	if len(t.pending) < 3 {
		return quadedge.NilEdge, false
	}

	i0, i1, i2, found := findNonCollinearTriple(t.pending, t.pos)
	if !found {
		return quadedge.NilEdge, false
	}

	a, b, c := t.pending[i0], t.pending[i1], t.pending[i2]
	pa, pb, pc := t.pos(a), t.pos(b), t.pos(c)
	if predicates.Orient(pa, pb, pc) < 0 {
		b, c = c, b
		pb, pc = pc, pb
	}

	edge := t.buildInitialTriangle(a, b, c)
	t.growBounds(pa.X, pa.Y)
	t.growBounds(pb.X, pb.Y)
	t.growBounds(pc.X, pc.Y)
	t.searchEdge = edge
	t.bootstrapped = true

	rest := make([]vertex.Index, 0, len(t.pending)-3)
	for i, idx := range t.pending {
		if i == i0 || i == i1 || i == i2 {
			continue
		}
		rest = append(rest, idx)
	}
	t.pending = nil

	for _, idx := range rest {
		obj := t.Verts.Get(idx)
		_, e, _, _ := t.insertExistingVertex(idx, obj.X, obj.Y)
		if e != quadedge.NilEdge {
			edge = e
		}
	}
	return edge, true
}

// findNonCollinearTriple scans candidates for the first triple that is not
// collinear (and not coincident), returning their positions in the slice.
func findNonCollinearTriple(candidates []vertex.Index, pos func(vertex.Index) predicates.Point) (i0, i1, i2 int, found bool) {
	n := len(candidates)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if pos(candidates[i]) == pos(candidates[j]) {
				continue
			}
			for k := j + 1; k < n; k++ {
				if predicates.Orient(pos(candidates[i]), pos(candidates[j]), pos(candidates[k])) != 0 {
					return i, j, k, true
				}
			}
		}
	}
	return 0, 0, 0, false
}

// buildInitialTriangle wires the first real triangle (a, b, c in CCW
// order) plus its three ghost neighbors radiating to the null vertex, and
// returns an edge whose origin is c.
func (t *Triangulation) buildInitialTriangle(a, b, c vertex.Index) quadedge.EdgeID {
	p := t.Pool

	abPair := p.AllocatePair()
	bcPair := p.AllocatePair()
	caPair := p.AllocatePair()

	eAB, deAB := abPair, p.Dual(abPair)
	eBC, deBC := bcPair, p.Dual(bcPair)
	eCA, deCA := caPair, p.Dual(caPair)

	p.SetOrigin(eAB, a)
	p.SetOrigin(deAB, b)
	p.SetOrigin(eBC, b)
	p.SetOrigin(deBC, c)
	p.SetOrigin(eCA, c)
	p.SetOrigin(deCA, a)
	relinkFace(p, eAB, eBC, eCA)

	spokeAN := p.AllocatePair()
	spokeBN := p.AllocatePair()
	spokeCN := p.AllocatePair()

	g1, g6 := spokeAN, p.Dual(spokeAN) // A->N, N->A
	g3, g2 := spokeBN, p.Dual(spokeBN) // B->N, N->B
	g5, g4 := spokeCN, p.Dual(spokeCN) // C->N, N->C

	p.SetOrigin(g1, a)
	p.SetOrigin(g6, vertex.NullIndex)
	p.SetOrigin(g3, b)
	p.SetOrigin(g2, vertex.NullIndex)
	p.SetOrigin(g5, c)
	p.SetOrigin(g4, vertex.NullIndex)

	// Ghost triangle on AB: (B, A, N).
	relinkFace(p, deAB, g1, g2)
	// Ghost triangle on BC: (C, B, N).
	relinkFace(p, deBC, g3, g4)
	// Ghost triangle on CA: (A, C, N).
	relinkFace(p, deCA, g5, g6)

	return eCA
}

// relinkFace sets F around a CCW cycle of half-edges, then R = F∘F for
// each, through the pool's exported setters.
func relinkFace(p *quadedge.Pool, cycle ...quadedge.EdgeID) {
	n := len(cycle)
	for i, e := range cycle {
		p.SetF(e, cycle[(i+1)%n])
	}
	for _, e := range cycle {
		p.SetR(e, p.F(p.F(e)))
	}
}
