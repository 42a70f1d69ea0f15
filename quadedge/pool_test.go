package quadedge

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceisfun/tinmesh/vertex"
)

func TestAllocateDeallocateRecycles(t *testing.T) {
	p := NewPool()
	a := p.AllocatePair()
	require.True(t, p.IsLive(a))
	require.True(t, p.IsLive(p.Dual(a)))

	p.SetOrigin(a, 3)
	p.DeallocatePair(a)
	require.False(t, p.IsLive(a))
	require.Equal(t, vertex.NullIndex, p.Origin(a))

	b := p.AllocatePair()
	require.Equal(t, a, b, "freed pair should be recycled before growing")
}

func TestPreAllocateGrowsPages(t *testing.T) {
	p := NewPool()
	p.PreAllocate(5000)
	require.GreaterOrEqual(t, p.capacity(), EdgeID(10000))
}

func TestDualIsXOR(t *testing.T) {
	p := NewPool()
	base := p.AllocatePair()
	require.True(t, p.IsBase(base))
	require.False(t, p.IsBase(p.Dual(base)))
	require.Equal(t, base, p.Dual(p.Dual(base)))
	require.Equal(t, p.Dual(base), p.Partner(base))
	require.Equal(t, p.Dual(base), p.Partner(p.Dual(base)))
}

func TestLivePairsInAllocationOrder(t *testing.T) {
	p := NewPool()
	a := p.AllocatePair()
	b := p.AllocatePair()
	c := p.AllocatePair()
	p.DeallocatePair(b)

	var seen []EdgeID
	p.LivePairs(func(base EdgeID) { seen = append(seen, base) })
	require.Equal(t, []EdgeID{a, c}, seen)
}
