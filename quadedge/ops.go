package quadedge

import (
	"fmt"

	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/vertex"
)

// PosFunc resolves a vertex's plane coordinates. Flip and fan-insertion use
// it for the orientation checks that guard against flipping a non-convex
// quad; SplitEdge never needs positions (it is a pure topology rewrite).
type PosFunc func(vertex.Index) predicates.Point

// TopologyError reports mesh-structure corruption detected while walking
// or rewiring quad-edge links -- it should never occur outside a bug, and
// every caller that can receive one treats it as fatal to the operation in
// progress (spec §4.3 "an invariant violation anywhere ... is a defect").
type TopologyError struct {
	Op  string
	Msg string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("quadedge: %s: %s", e.Op, e.Msg)
}

// IsGhostEdge reports whether e's origin is the null-vertex sentinel.
func (p *Pool) IsGhostEdge(e EdgeID) bool {
	return p.Origin(e) == vertex.NullIndex
}

// IsGhostTriangle reports whether any of e's face's three vertices is the
// null-vertex sentinel (spec "a ghost triangle ... distinguished only by
// b.is_null()").
func (p *Pool) IsGhostTriangle(e EdgeID) bool {
	b := p.F(e)
	c := p.F(b)
	return p.Origin(e) == vertex.NullIndex ||
		p.Origin(b) == vertex.NullIndex ||
		p.Origin(c) == vertex.NullIndex
}

// PerimeterNext returns the next ghost base edge around the hull, walking
// s.f.f.dual.r as named by invariant I5.
func (p *Pool) PerimeterNext(s EdgeID) EdgeID {
	return p.R(p.Dual(p.F(p.F(s))))
}

// WalkPerimeter enumerates the hull by repeated PerimeterNext starting from
// a ghost base edge, stopping when it returns to start or maxSteps is
// exceeded (the latter signals corruption, per I5/P12).
func (p *Pool) WalkPerimeter(start EdgeID, maxSteps int) ([]EdgeID, error) {
	out := []EdgeID{start}
	cur := start
	for i := 0; i < maxSteps; i++ {
		cur = p.PerimeterNext(cur)
		if cur == start {
			return out, nil
		}
		out = append(out, cur)
	}
	return nil, &TopologyError{Op: "WalkPerimeter", Msg: "perimeter did not close within maxSteps"}
}

// Flip replaces the diagonal e (shared by two adjacent triangles) with the
// opposite diagonal of their quadrilateral, in place: e and its dual are
// reused as the new diagonal rather than reallocated, which is also how a
// flipped edge keeps whatever region/line flags it carried (spec: "a
// flipped edge retains its constraint region flags").
//
// Flip refuses (returns false, no mutation) when e is constrained, when
// either adjacent face is a ghost triangle, or when the quadrilateral
// formed by the two faces is not convex.
//
// On success, requeue holds the quad's four original non-diagonal sides
// (in the order ec, ed, eda, eb from the pre-flip quad), which the caller
// passes back through ShouldFlip/Flip to continue flip propagation --
// spec's "push the two newly-exposed opposite edges" generalizes cleanly
// to "retest all four former sides", since the two that do not border the
// new diagonal simply fail their retest and no-op.
func Flip(p *Pool, e EdgeID, pos PosFunc) (ok bool, requeue [4]EdgeID) {
	if p.IsConstrained(e) {
		return false, requeue
	}

	de := p.Dual(e)
	eb := p.F(e)
	ec := p.F(eb)
	ed := p.F(de)
	eda := p.F(ed)

	a := p.Origin(e)
	b := p.Origin(eb)
	c := p.Origin(ec)
	d := p.Origin(eda)
	if a == vertex.NullIndex || b == vertex.NullIndex || c == vertex.NullIndex || d == vertex.NullIndex {
		return false, requeue
	}

	pa, pb, pc, pd := pos(a), pos(b), pos(c), pos(d)
	if predicates.Orient(pa, pd, pc) <= 0 || predicates.Orient(pc, pd, pb) <= 0 {
		return false, requeue
	}

	requeue = [4]EdgeID{ec, ed, eda, eb}
	p.SetOrigin(e, c)
	p.SetOrigin(de, d)

	p.relinkFace(ec, ed, de)
	p.relinkFace(eda, eb, e)
	return true, requeue
}

// ShouldFlip reports whether e violates the Delaunay in-circle criterion:
// the apex of e.dual's face lies strictly inside the circumcircle of e's
// own face (equivalently the reverse), and e is not constrained. Ties
// (in-circle returns exactly 0) are not flipped, matching classic
// Guibas/Stolfi behavior (spec §4.6).
func ShouldFlip(p *Pool, e EdgeID, pos PosFunc) bool {
	if p.IsConstrained(e) {
		return false
	}
	de := p.Dual(e)
	a := p.Origin(e)
	b := p.Origin(p.F(e))
	apexSelf := p.Origin(p.F(p.F(e)))
	apexOther := p.Origin(p.F(p.F(de)))
	if a == vertex.NullIndex || b == vertex.NullIndex || apexSelf == vertex.NullIndex || apexOther == vertex.NullIndex {
		return false
	}
	return predicates.InCircle(pos(b), pos(a), pos(apexOther), pos(apexSelf)) > 0
}

// SplitResult carries the edges a caller needs to resume flip-propagation
// after a split.
type SplitResult struct {
	AM, MB EdgeID   // the two half-edges replacing the original A->B edge
	Legalize [4]EdgeID // the four "opposite" sides of the original two faces
}

// SplitEdge inserts vertex m strictly in the interior of edge e = (A, B),
// replacing the single edge with A-m and m-B and fanning both adjacent
// faces (real or ghost) into two. It is the uniform primitive for both an
// interior edge split and a perimeter-edge split, since ghost triangles
// participate in the same link algebra as real ones (spec C4 Split: "If e
// is a perimeter edge ... the ghost triangle is split into two ghost
// triangles").
func SplitEdge(p *Pool, e EdgeID, m vertex.Index) SplitResult {
	de := p.Dual(e)
	eb := p.F(e)
	ec := p.F(eb)
	ed := p.F(de)
	eda := p.F(ed)

	mbPair := p.AllocatePair()
	mcPair := p.AllocatePair()
	mdPair := p.AllocatePair()

	mb, bm := mbPair, p.Dual(mbPair)
	mc, cm := mcPair, p.Dual(mcPair)
	md, dm := mdPair, p.Dual(mdPair)

	b := p.Origin(eb)
	c := p.Origin(ec)
	d := p.Origin(eda)

	p.SetOrigin(mb, m)
	p.SetOrigin(bm, b)
	p.SetOrigin(mc, m)
	p.SetOrigin(cm, c)
	p.SetOrigin(md, m)
	p.SetOrigin(dm, d)

	// e keeps origin A; de (dual of e) moves from B to m.
	p.SetOrigin(de, m)

	p.relinkFace(e, mc, ec)
	p.relinkFace(mb, eb, cm)
	p.relinkFace(bm, md, eda)
	p.relinkFace(de, ed, dm)

	return SplitResult{
		AM:       e,
		MB:       mb,
		Legalize: [4]EdgeID{ec, eb, ed, eda},
	}
}

// InsertResult carries the edges a caller needs to resume flip-propagation
// after a fan-insertion.
type InsertResult struct {
	Legalize [3]EdgeID
	Seed     EdgeID // a half-edge whose origin is the inserted vertex v
}

// InsertInFace inserts vertex v strictly inside the triangular face whose
// CCW boundary starts at e, fanning it into three new faces around v.
func InsertInFace(p *Pool, e EdgeID, v vertex.Index) InsertResult {
	eb := p.F(e)
	ec := p.F(eb)

	avPair := p.AllocatePair()
	bvPair := p.AllocatePair()
	cvPair := p.AllocatePair()

	av, va := avPair, p.Dual(avPair)
	bv, vb := bvPair, p.Dual(bvPair)
	cv, vc := cvPair, p.Dual(cvPair)

	a := p.Origin(e)
	b := p.Origin(eb)
	c := p.Origin(ec)

	p.SetOrigin(av, a)
	p.SetOrigin(va, v)
	p.SetOrigin(bv, b)
	p.SetOrigin(vb, v)
	p.SetOrigin(cv, c)
	p.SetOrigin(vc, v)

	p.relinkFace(e, bv, va)
	p.relinkFace(eb, cv, vb)
	p.relinkFace(ec, av, vc)

	return InsertResult{Legalize: [3]EdgeID{e, eb, ec}, Seed: va}
}
