package quadedge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceisfun/tinmesh/vertex"
)

// buildTriangleWithGhosts wires one real triangle (A,B,C) plus its three
// ghost neighbors radiating to the null vertex -- the same shape
// delaunay's bootstrap produces, and (unlike buildSquareQuad, which only
// wires its two inner faces) fully links every half-edge so vertex
// rotation around any of A, B, C is well-defined all the way around.
func buildTriangleWithGhosts(t *testing.T) (p *Pool, eAB EdgeID, a, b, c vertex.Index) {
	t.Helper()
	p = NewPool()
	a, b, c = 0, 1, 2

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
	p.relinkFace(eAB, eBC, eCA)

	spokeAN := p.AllocatePair()
	spokeBN := p.AllocatePair()
	spokeCN := p.AllocatePair()
	g1, g6 := spokeAN, p.Dual(spokeAN)
	g3, g2 := spokeBN, p.Dual(spokeBN)
	g5, g4 := spokeCN, p.Dual(spokeCN)

	p.SetOrigin(g1, a)
	p.SetOrigin(g6, vertex.NullIndex)
	p.SetOrigin(g3, b)
	p.SetOrigin(g2, vertex.NullIndex)
	p.SetOrigin(g5, c)
	p.SetOrigin(g4, vertex.NullIndex)

	p.relinkFace(deAB, g1, g2)
	p.relinkFace(deBC, g3, g4)
	p.relinkFace(deCA, g5, g6)

	return p, eAB, a, b, c
}

func TestOnextWalksTriangleFan(t *testing.T) {
	p, eAB, a, _, _ := buildTriangleWithGhosts(t)

	ring, err := p.VertexEdges(eAB, 8)
	require.NoError(t, err)
	require.Len(t, ring, 3, "A has exactly 3 incident edges: to B, to C, to the null vertex")
	for _, r := range ring {
		require.Equal(t, a, p.Origin(r))
	}
}

func TestOprevIsOnextInverse(t *testing.T) {
	p, e, _, _, _, _, _ := buildSquareQuad(t)
	require.Equal(t, e, p.Onext(p.Oprev(e)))
	require.Equal(t, e, p.Oprev(p.Onext(e)))
}

func TestVertexEdgesDetectsNonClosingRing(t *testing.T) {
	p := NewPool()
	a0 := p.AllocatePair()
	b0 := p.AllocatePair()
	p.SetOrigin(a0, 0)
	p.SetOrigin(b0, 0)
	// Wire a broken ring: Onext(a0) = R(a0) should route somewhere that
	// never returns to a0.
	p.SetR(a0, b0)
	p.SetR(p.Dual(b0), b0)

	_, err := p.VertexEdges(a0, 3)
	require.Error(t, err)
	_ = vertex.NullIndex
}
