// Package delaunay implements incremental Delaunay insertion (spec §4.6,
// C6) on top of the quad-edge pool, including bootstrap of the initial
// triangle and stochastic-walk point location (§4.5, C5, folded in here to
// avoid a locate<->insert import cycle: location needs to walk edges the
// insertion loop owns, and insertion needs to call location on every call).
package delaunay

import (
	"math/rand"

	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// Bounds is the mesh's running bounding box over inserted (non-ghost)
// vertices.
type Bounds struct {
	MinX, MaxX, MinY, MaxY float64
}

// Triangulation owns the quad-edge pool, the vertex table, and the
// incremental-insertion state named in spec §3 "Mesh-global state":
// bounds, thresholds, search_edge, counters, and flags.
type Triangulation struct {
	Pool   *quadedge.Pool
	Verts  *vertex.Store
	Thresh predicates.Thresholds

	rng *rand.Rand

	bounds    Bounds
	hasBounds bool

	bootstrapped bool
	pending      []vertex.Index

	searchEdge quadedge.EdgeID

	syntheticCount int
	maxFloodQueue  int

	locked                 bool
	lockedDueToConstraints bool
	conformant             bool

	constraints []ConstraintRecord
}

// ConstraintRecord is a persisted summary of one constraint processed by
// add_constraints, kept on the triangulation so the serializer can write
// the constraint table (spec §4.9 item 4) and the façade can expose
// constraints() (spec §6 "Constraint objects") without the constraint
// package needing to stay alive past its Run call. Kind mirrors
// constraint.Kind (0 = polygon, 1 = linear) without importing that
// package, since constraint already imports delaunay.
type ConstraintRecord struct {
	Kind          byte
	Index         int
	DefinesRegion bool
	IsHole        bool
	Vertices      []vertex.Index
	LinkEdge      quadedge.EdgeID
}

// New creates an empty triangulation. seed makes the stochastic walk's
// tie-breaking reproducible (spec §5 "Random choices inside point location
// use a seedable PRNG so test runs are reproducible with a fixed seed").
func New(th predicates.Thresholds, seed int64) *Triangulation {
	return &Triangulation{
		Pool:       quadedge.NewPool(),
		Verts:      vertex.NewStore(),
		Thresh:     th,
		rng:        rand.New(rand.NewSource(seed)),
		searchEdge: quadedge.NilEdge,
	}
}

// PreAllocate sizes the edge pool for an expected vertex count, at roughly
// three edges per vertex (spec §4.6 "pre_allocate(n_expected_vertices)").
func (t *Triangulation) PreAllocate(nExpectedVertices int) {
	t.Pool.PreAllocate(nExpectedVertices * 3)
}

// Bounds returns the running bounding box, and whether any vertex has been
// inserted yet.
func (t *Triangulation) Bounds() (Bounds, bool) { return t.bounds, t.hasBounds }

// IsBootstrapped reports whether the initial triangle has been built.
func (t *Triangulation) IsBootstrapped() bool { return t.bootstrapped }

// SyntheticCount returns the number of synthetic (Steiner/split) vertices
// created so far.
func (t *Triangulation) SyntheticCount() int { return t.syntheticCount }

// MaxFloodQueueSeen returns the largest region flood-fill queue length
// observed so far (spec §4.7 step 3 "Record the peak queue size").
func (t *Triangulation) MaxFloodQueueSeen() int { return t.maxFloodQueue }

// NoteFloodQueueSize updates the peak-queue-size counter; called by the
// constraint package's flood fill.
func (t *Triangulation) NoteFloodQueueSize(n int) {
	if n > t.maxFloodQueue {
		t.maxFloodQueue = n
	}
}

func (t *Triangulation) growBounds(x, y float64) {
	if !t.hasBounds {
		t.bounds = Bounds{MinX: x, MaxX: x, MinY: y, MaxY: y}
		t.hasBounds = true
		return
	}
	if x < t.bounds.MinX {
		t.bounds.MinX = x
	}
	if x > t.bounds.MaxX {
		t.bounds.MaxX = x
	}
	if y < t.bounds.MinY {
		t.bounds.MinY = y
	}
	if y > t.bounds.MaxY {
		t.bounds.MaxY = y
	}
}

// pos resolves a vertex's plane coordinates for predicate evaluation.
func (t *Triangulation) pos(idx vertex.Index) predicates.Point {
	x, y := t.Verts.Get(idx).Pos()
	return predicates.Point{X: x, Y: y}
}

// Pos exposes pos to other packages in this module (constraint, refine)
// that need the same position lookup without duplicating it.
func (t *Triangulation) Pos(idx vertex.Index) predicates.Point { return t.pos(idx) }

// Legalize exposes the flip-propagation worklist to constraint/refine, so
// an edge force or a Steiner-point split can restore the Delaunay property
// of the triangles it disturbed the same way ordinary insertion does.
func (t *Triangulation) Legalize(seed []quadedge.EdgeID) { t.legalize(seed) }

// SearchEdge returns the current walk seed.
func (t *Triangulation) SearchEdge() quadedge.EdgeID { return t.searchEdge }

// SetSearchEdge updates the walk seed, ignoring a dead edge (a stale seed
// falls back to anyLiveEdge on the next locate anyway).
func (t *Triangulation) SetSearchEdge(e quadedge.EdgeID) {
	if t.Pool.IsLive(e) {
		t.searchEdge = e
	}
}

// InvalidateSearchEdge drops the cached walk seed outright, forcing the
// next Locate to fall back to anyLiveEdge (spec §4.10
// "reset_navigation... invalidates the interpolators' cached walk-seeds").
func (t *Triangulation) InvalidateSearchEdge() { t.searchEdge = quadedge.NilEdge }

// GrowBounds folds a point into the running bounding box; exported so
// constraint/refine Steiner insertions that bypass Add still keep bounds
// current.
func (t *Triangulation) GrowBounds(x, y float64) { t.growBounds(x, y) }

// Locate exposes the stochastic walk to refine, which needs to classify a
// candidate Steiner point (ghost face => outside the hull) before
// deciding whether to insert it or treat it as a hull-boundary
// encroachment (spec §4.8 "outside-hull-as-encroachment").
func (t *Triangulation) Locate(p predicates.Point) (Location, error) {
	seed := t.searchEdge
	if seed == quadedge.NilEdge || !t.Pool.IsLive(seed) {
		seed = t.anyLiveEdge()
	}
	return t.locate(p, seed)
}

// NewSyntheticVertex allocates a vertex-object slot for a Steiner/split
// point and bumps the synthetic-vertex counter (spec §3 "synthetic-vertex
// count").
func (t *Triangulation) NewSyntheticVertex(x, y float64, z float32) vertex.Index {
	idx := t.Verts.Add(vertex.New(x, y, z, 0))
	t.syntheticCount++
	return idx
}

// Locked reports whether add_constraints has already run (spec §4.7: "may
// be called at most once per mesh").
func (t *Triangulation) Locked() bool { return t.locked }

// LockForConstraints marks the mesh as constraint-locked; add_constraints
// (constraint.Processor.Run) calls this deferred, so the lock is in place
// once Run returns, whether or not it succeeded, and a second call is
// rejected.
func (t *Triangulation) LockForConstraints() {
	t.locked = true
	t.lockedDueToConstraints = true
}

// SetConformant records whether Restore-Conformity left the mesh fully
// conformant (spec §4.9 TIN-state flag bit 2).
func (t *Triangulation) SetConformant(v bool) { t.conformant = v }

// Conformant reports the last Restore-Conformity outcome.
func (t *Triangulation) Conformant() bool { return t.conformant }

// LockedDueToConstraints reports whether the lock in Locked came from
// add_constraints specifically (spec §4.9 TIN-state flag bit 1), as
// opposed to some future other locking reason.
func (t *Triangulation) LockedDueToConstraints() bool { return t.lockedDueToConstraints }

// RecordConstraint appends rec to the mesh's constraint table. Called by
// constraint.Processor once per processed constraint.
func (t *Triangulation) RecordConstraint(rec ConstraintRecord) {
	t.constraints = append(t.constraints, rec)
}

// ConstraintRecords returns every constraint processed so far, in
// processing order.
func (t *Triangulation) ConstraintRecords() []ConstraintRecord { return t.constraints }

// SetConstraintRecords replaces the constraint table outright; used only
// by the serialization reader.
func (t *Triangulation) SetConstraintRecords(recs []ConstraintRecord) {
	t.constraints = recs
}

// RestoreState is used only by the serialization reader to put a freshly
// constructed Triangulation back into the exact state a writer captured.
func (t *Triangulation) RestoreState(b Bounds, hasBounds bool, synthetic, maxFlood int, searchEdge quadedge.EdgeID, locked, lockedDueToConstraints, conformant, bootstrapped bool) {
	t.bounds = b
	t.hasBounds = hasBounds
	t.syntheticCount = synthetic
	t.maxFloodQueue = maxFlood
	t.searchEdge = searchEdge
	t.locked = locked
	t.lockedDueToConstraints = lockedDueToConstraints
	t.conformant = conformant
	t.bootstrapped = bootstrapped
}

// Add inserts a point, returning the vertex index it was assigned (a fresh
// index, or an existing merger-group index if it coincided with one) and
// whether a topologically distinct site was created (false when merged).
func (t *Triangulation) Add(x, y float64, z float32) (vertex.Index, bool, error) {
	idx, _, inserted, err := t.AddAndReturnEdge(x, y, z)
	return idx, inserted, err
}

// AddSorted expects Hilbert/Z-curve-ordered input so each walk starts near
// the previous insertion point (spec §4.6 "big locality win").
func (t *Triangulation) AddSorted(points [][3]float64) error {
	for _, p := range points {
		if _, _, err := t.Add(p[0], p[1], float32(p[2])); err != nil {
			return err
		}
	}
	return nil
}

// AddAndReturnEdge inserts a point and also returns a half-edge whose
// origin is the resulting vertex, so callers (constraint processing,
// Ruppert refinement) can resume from it without re-walking (spec §4.6
// "Insertion-result contract"). While the mesh is not yet bootstrapped the
// point is only buffered and the returned edge is NilEdge.
func (t *Triangulation) AddAndReturnEdge(x, y float64, z float32) (vertex.Index, quadedge.EdgeID, bool, error) {
	if !t.bootstrapped {
		idx := t.Verts.Add(vertex.New(x, y, z, 0))
		t.pending = append(t.pending, idx)
		if edge, ok := t.tryBootstrap(); ok {
			t.Pool.LivePairs(func(base quadedge.EdgeID) {
				for _, e := range [2]quadedge.EdgeID{base, t.Pool.Dual(base)} {
					if t.Pool.Origin(e) == idx {
						edge = e
					}
				}
			})
			return idx, edge, true, nil
		}
		return idx, quadedge.NilEdge, true, nil
	}
	return t.insert(x, y, z)
}
