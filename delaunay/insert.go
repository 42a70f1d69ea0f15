package delaunay

import (
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// insert creates a brand-new vertex object and runs the full insertion
// algorithm (spec §4.4 Insert, C4/C6).
func (t *Triangulation) insert(x, y float64, z float32) (vertex.Index, quadedge.EdgeID, bool, error) {
	idx := t.Verts.Add(vertex.New(x, y, z, 0))
	return t.insertExistingVertex(idx, x, y)
}

// insertExistingVertex runs the insertion algorithm for a vertex object
// that already has a Store slot (used both by ordinary insertion and by
// bootstrap's replay of leftover buffered points).
func (t *Triangulation) insertExistingVertex(idx vertex.Index, x, y float64) (vertex.Index, quadedge.EdgeID, bool, error) {
	if !t.bootstrapped {
		return idx, quadedge.NilEdge, false, ErrEmptyMesh
	}

	seed := t.searchEdge
	if seed == quadedge.NilEdge || !t.Pool.IsLive(seed) {
		seed = t.anyLiveEdge()
	}

	p := predicates.Point{X: x, Y: y}
	loc, err := t.locate(p, seed)
	if err != nil {
		return idx, quadedge.NilEdge, false, err
	}

	if existing, ok := t.findCoincidentVertex(loc.Edge, x, y, idx); ok {
		t.mergeInto(existing, idx)
		e := loc.Edge
		for t.Pool.Origin(e) != existing {
			e = t.Pool.F(e)
		}
		return existing, e, false, nil
	}

	var seedEdge quadedge.EdgeID
	var legalize []quadedge.EdgeID

	if loc.OnEdge {
		res := quadedge.SplitEdge(t.Pool, loc.Edge, idx)
		seedEdge = res.MB
		legalize = res.Legalize[:]
	} else {
		res := quadedge.InsertInFace(t.Pool, loc.Edge, idx)
		seedEdge = res.Seed
		legalize = res.Legalize[:]
	}

	t.legalize(legalize)

	t.growBounds(x, y)
	t.searchEdge = seedEdge
	return idx, seedEdge, true, nil
}

// legalize runs flip propagation (spec §4.4 Insert step 6 / §4.6): push
// the seed edges, pop and test each with ShouldFlip, and on a successful
// flip push its four former sides back for retesting. There is no dedup:
// an edge may be pushed, and retested, more than once.
func (t *Triangulation) legalize(seed []quadedge.EdgeID) {
	stack := append([]quadedge.EdgeID(nil), seed...)
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !t.Pool.IsLive(e) {
			continue
		}
		if !quadedge.ShouldFlip(t.Pool, e, t.pos) {
			continue
		}
		ok, requeue := quadedge.Flip(t.Pool, e, t.pos)
		if !ok {
			continue
		}
		stack = append(stack, requeue[:]...)
	}
}

// anyLiveEdge returns an arbitrary live edge to seed a walk when
// search_edge is unset or stale.
func (t *Triangulation) anyLiveEdge() quadedge.EdgeID {
	found := quadedge.NilEdge
	t.Pool.LivePairs(func(base quadedge.EdgeID) {
		if found == quadedge.NilEdge {
			found = base
		}
	})
	return found
}

// findCoincidentVertex checks the located face's real (non-null, non-self)
// vertices for one within vertex_tolerance of (x, y), per spec §4.4 Insert
// step 3.
func (t *Triangulation) findCoincidentVertex(faceEdge quadedge.EdgeID, x, y float64, self vertex.Index) (vertex.Index, bool) {
	e0 := faceEdge
	e1 := t.Pool.F(e0)
	e2 := t.Pool.F(e1)
	for _, e := range [3]quadedge.EdgeID{e0, e1, e2} {
		v := t.Pool.Origin(e)
		if v == vertex.NullIndex || v == self {
			continue
		}
		if t.Verts.Get(v).DistanceSquared(x, y) <= t.Thresh.VertexToleranceSquared {
			return v, true
		}
	}
	return vertex.NullIndex, false
}

// mergeInto folds the vertex at newIdx into existing as a merger-group
// member, converting existing's object to a merger group on first use
// (spec §4.2 "Merger groups").
func (t *Triangulation) mergeInto(existing, newIdx vertex.Index) {
	obj := t.Verts.Get(existing)
	if obj.Kind != vertex.KindMerger {
		original := t.Verts.Add(vertex.New(obj.X, obj.Y, obj.Z, 0))
		merged := vertex.NewMerger(obj.X, obj.Y, existing, vertex.ResolutionMean, []vertex.Index{original, newIdx})
		merged.Status = obj.Status
		t.Verts.Set(existing, merged)
		return
	}
	obj.AddMember(newIdx)
	t.Verts.Set(existing, obj)
}
