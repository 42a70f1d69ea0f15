// Package quadedge implements the paged quad-edge pool (spec §3 "Edge pair
// (quad-edge)", §4.3 C3) and the three mesh-mutation primitives built on top
// of it: flip, split, and fan-insertion (§4.4 C4).
//
// A geometric edge is two half-edges, base (even index) and partner (odd
// index), allocated and freed together. Each half-edge stores its origin
// vertex and a forward link `f`; the reverse link `r` is stored explicitly
// too (redundant with f under the face's 3-cycle invariant, but kept
// in sync by every mutator here so it always equals f(f(e)), matching the
// wire format in spec §4.9 which serializes both). The dual (base<->partner)
// is never stored -- it is always `e ^ 1`.
package quadedge

import (
	"github.com/iceisfun/tinmesh/vertex"
)

// EdgeID identifies a half-edge: an index into the pool. Base half-edges
// are even, partners are odd (spec I6).
type EdgeID int32

// NilEdge is the sentinel for "no edge".
const NilEdge EdgeID = -1

// pageHalfEdges is the number of half-edges (2 * pairs) per allocator page.
// Spec §4.3 names 1024 pairs = 2048 indices per page.
const pageHalfEdges = 2048

type halfEdge struct {
	origin vertex.Index
	f, r   EdgeID
	meta   uint32 // meaningful only on odd (partner) half-edges
}

// Pool is the paged quad-edge allocator. A free list threads through
// deallocated pairs; the implementer's note in spec §4.3 permits (but does
// not require) swap-in compaction on deallocation -- this pool instead
// keeps slots stable for the lifetime of the mesh and simply recycles
// freed base indices via the free list, which keeps "enumerate live edges
// in allocation order" (needed for serialization, §4.9) trivial: it is
// just "enumerate base indices in increasing order, skipping dead ones".
type Pool struct {
	pages     [][]halfEdge
	dead      []bool
	free      []EdgeID
	allocated EdgeID

	// lineIndex accelerates "edge index -> linear constraint" lookups
	// (spec §3 "Edge pool"). Keyed by base index.
	lineIndex map[EdgeID]int
}

// NewPool creates an empty quad-edge pool.
func NewPool() *Pool {
	return &Pool{lineIndex: make(map[EdgeID]int)}
}

// PreAllocate grows the pool's backing pages to accommodate at least
// nPairs edge pairs without further page growth, per spec §4.6
// "pre_allocate(n_expected_vertices)" (~3 edges per vertex).
func (p *Pool) PreAllocate(nPairs int) {
	want := EdgeID(nPairs * 2)
	for p.capacity() < want {
		p.addPage()
	}
}

func (p *Pool) capacity() EdgeID {
	return EdgeID(len(p.pages)) * pageHalfEdges
}

func (p *Pool) addPage() {
	p.pages = append(p.pages, make([]halfEdge, pageHalfEdges))
}

func (p *Pool) at(e EdgeID) *halfEdge {
	page := int(e) / pageHalfEdges
	slot := int(e) % pageHalfEdges
	return &p.pages[page][slot]
}

// AllocatePair reserves a new base/partner pair and returns the base
// (even) index.
func (p *Pool) AllocatePair() EdgeID {
	var base EdgeID
	if n := len(p.free); n > 0 {
		base = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		base = p.allocated
		for p.capacity() < base+2 {
			p.addPage()
		}
		p.dead = append(p.dead, false, false)
		p.allocated += 2
	}
	p.dead[base] = false
	p.dead[base+1] = false
	*p.at(base) = halfEdge{origin: vertex.NullIndex, f: NilEdge, r: NilEdge}
	*p.at(base + 1) = halfEdge{origin: vertex.NullIndex, f: NilEdge, r: NilEdge}
	return base
}

// DeallocatePair frees a base/partner pair, pushing it onto the free list.
func (p *Pool) DeallocatePair(base EdgeID) {
	base = base &^ 1
	p.dead[base] = true
	p.dead[base+1] = true
	*p.at(base) = halfEdge{origin: vertex.NullIndex, f: NilEdge, r: NilEdge}
	*p.at(base + 1) = halfEdge{origin: vertex.NullIndex, f: NilEdge, r: NilEdge}
	delete(p.lineIndex, base)
	p.free = append(p.free, base)
}

// AllocatePairAt reserves the base/partner pair at exactly the given base
// index, extending the pool and marking any skipped lower indices
// dead-and-free as needed. Used only by the serialization reader (spec
// §4.9 steps 5-6), which must reproduce the exact base indices a writer
// recorded so every stored `f`/`r`/edge-table cross-reference remains a
// valid EdgeID without translation.
func (p *Pool) AllocatePairAt(base EdgeID) {
	for next := p.allocated; next <= base; next += 2 {
		for p.capacity() < next+2 {
			p.addPage()
		}
		p.dead = append(p.dead, true, true)
		p.allocated += 2
		if next != base {
			p.free = append(p.free, next)
		}
	}
	p.dead[base] = false
	p.dead[base+1] = false
	*p.at(base) = halfEdge{origin: vertex.NullIndex, f: NilEdge, r: NilEdge}
	*p.at(base + 1) = halfEdge{origin: vertex.NullIndex, f: NilEdge, r: NilEdge}
}

// IsLive reports whether e refers to a currently-allocated half-edge.
func (p *Pool) IsLive(e EdgeID) bool {
	return e >= 0 && e < p.allocated && !p.dead[e]
}

// Allocated returns the number of half-edge slots ever handed out
// (including currently-freed ones); it is an upper bound on live EdgeIDs,
// used by serialization to size the vertex-independent edge table.
func (p *Pool) Allocated() EdgeID { return p.allocated }

// LivePairs calls fn once for every live base index, in increasing
// (allocation-stable) order.
func (p *Pool) LivePairs(fn func(base EdgeID)) {
	for e := EdgeID(0); e < p.allocated; e += 2 {
		if !p.dead[e] {
			fn(e)
		}
	}
}

// Origin returns e's origin vertex.
func (p *Pool) Origin(e EdgeID) vertex.Index { return p.at(e).origin }

// SetOrigin sets e's origin vertex.
func (p *Pool) SetOrigin(e EdgeID, v vertex.Index) { p.at(e).origin = v }

// F returns e's forward link.
func (p *Pool) F(e EdgeID) EdgeID { return p.at(e).f }

// SetF sets e's forward link.
func (p *Pool) SetF(e, v EdgeID) { p.at(e).f = v }

// R returns e's reverse link.
func (p *Pool) R(e EdgeID) EdgeID { return p.at(e).r }

// SetR sets e's reverse link.
func (p *Pool) SetR(e, v EdgeID) { p.at(e).r = v }

// Dual returns e's base/partner counterpart: e^1.
func (p *Pool) Dual(e EdgeID) EdgeID { return e ^ 1 }

// IsBase reports whether e is a base (even) half-edge.
func (p *Pool) IsBase(e EdgeID) bool { return e&1 == 0 }

// Partner is an alias for Dual using the spec's vocabulary -- the
// odd-indexed half-edge of e's pair, which carries the packed constraint
// word regardless of whether e itself is base or partner.
func (p *Pool) Partner(e EdgeID) EdgeID { return e | 1 }

// relinkFace sets F for a cycle of half-edges given in CCW order, then
// derives R = F(F(.)) for each, matching spec I1 (e.f.r = e.r.f = e).
func (p *Pool) relinkFace(cycle ...EdgeID) {
	n := len(cycle)
	for i, e := range cycle {
		p.SetF(e, cycle[(i+1)%n])
	}
	for _, e := range cycle {
		p.SetR(e, p.F(p.F(e)))
	}
}
