package quadedge

// Onext returns the next half-edge CCW around e's origin vertex: the edge
// reached by crossing into the adjacent face over e.r and taking its dual.
// This is a direct consequence of invariants I1/I3 (no extra field is
// stored for it) -- for e: A->B, r(e) is the edge arriving at A from the
// same face, so dual(r(e)) is the reverse-direction view of that arriving
// edge, i.e. another edge leaving A, one face over from e.
func (p *Pool) Onext(e EdgeID) EdgeID {
	return p.Dual(p.R(e))
}

// Oprev returns the previous half-edge CW around e's origin vertex, the
// inverse of Onext (Onext(Oprev(e)) == e, given I1/I3).
func (p *Pool) Oprev(e EdgeID) EdgeID {
	return p.F(p.Dual(e))
}

// VertexEdges enumerates every half-edge whose origin is the common vertex
// of start, in CCW order starting at start, by repeated Onext. It stops
// after a full turn (Onext back to start) or maxSteps, whichever comes
// first -- a corrupted mesh around a single vertex should not spin forever.
func (p *Pool) VertexEdges(start EdgeID, maxSteps int) ([]EdgeID, error) {
	out := []EdgeID{start}
	cur := start
	for i := 0; i < maxSteps; i++ {
		cur = p.Onext(cur)
		if cur == start {
			return out, nil
		}
		out = append(out, cur)
	}
	return nil, &TopologyError{Op: "VertexEdges", Msg: "vertex ring did not close within maxSteps"}
}
