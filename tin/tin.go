// Package tin implements the mesh façade (spec §4.10, C10): the public
// surface external collaborators (interpolators, contour extractors,
// rasterizers, benchmarks) drive a triangulation through. It owns nothing
// geometric itself -- every operation delegates to delaunay, constraint,
// refine, or serialize -- and exists to present one coherent entry point
// with the ambient concerns (logging, cancellation, diagnostics) wired in
// uniformly, mirroring how cdt.Build wraps PSLG normalization, insertion,
// and classification behind one call.
package tin

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/iceisfun/tinmesh/constraint"
	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/formatting"
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/refine"
	"github.com/iceisfun/tinmesh/serialize"
	"github.com/iceisfun/tinmesh/vertex"
)

// Mesh is the façade handle external collaborators hold. It wraps a
// *delaunay.Triangulation and tracks the mesh-global diagnostics and
// navigation-invalidation state spec §5/§6 name as part of this surface.
type Mesh struct {
	tri  *delaunay.Triangulation
	opts config
	grid *hashGrid

	diag   Diagnostics
	frozen bool
}

// New constructs an empty mesh. seed makes point-location tie-breaking
// reproducible (spec §5 "seedable PRNG").
func New(seed int64, opts ...Option) *Mesh {
	c := defaultConfig()
	for _, fn := range opts {
		fn(&c)
	}
	return &Mesh{
		tri:  delaunay.New(predicates.NewThresholds(c.nominalSpacing), seed),
		opts: c,
		grid: newHashGrid(c.nominalSpacing * 4),
	}
}

// Bounds returns the running bounding box over inserted vertices, and
// whether any have been inserted yet.
func (m *Mesh) Bounds() (delaunay.Bounds, bool) { return m.tri.Bounds() }

// IsBootstrapped reports whether the initial triangle has been built.
func (m *Mesh) IsBootstrapped() bool { return m.tri.IsBootstrapped() }

// PreAllocate sizes the edge pool ahead of bulk insertion (spec §4.6
// "pre_allocate(n_expected_vertices)").
func (m *Mesh) PreAllocate(nExpectedVertices int) { m.tri.PreAllocate(nExpectedVertices) }

func finite(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}

// Add inserts a point, returning the vertex index it was assigned and
// whether a topologically distinct site was created (false when merged
// into an existing vertex). Returns an *InsertionError if the coordinate
// is not finite (spec §7 category 1 "Input violations").
func (m *Mesh) Add(x, y float64, z float32) (vertex.Index, bool, error) {
	if m.frozen {
		return vertex.NullIndex, false, ErrMeshFrozen
	}
	if !finite(x, y) {
		msg := fmt.Sprintf("coordinate %s is not finite", formatting.PointString(predicates.Point{X: x, Y: y}))
		return vertex.NullIndex, false, &InsertionError{Op: "Add", Msg: msg}
	}
	idx, inserted, err := m.tri.Add(x, y, z)
	if err == nil && inserted {
		m.grid.add(idx, predicates.Point{X: x, Y: y})
	}
	return idx, inserted, err
}

// AddAndReturnEdge inserts a point and also returns a half-edge whose
// origin is the resulting vertex (spec §4.6 "insertion-result contract").
// While the mesh is not yet bootstrapped the returned edge is NilEdge.
func (m *Mesh) AddAndReturnEdge(x, y float64, z float32) (vertex.Index, quadedge.EdgeID, bool, error) {
	if m.frozen {
		return vertex.NullIndex, quadedge.NilEdge, false, ErrMeshFrozen
	}
	if !finite(x, y) {
		msg := fmt.Sprintf("coordinate %s is not finite", formatting.PointString(predicates.Point{X: x, Y: y}))
		return vertex.NullIndex, quadedge.NilEdge, false, &InsertionError{Op: "AddAndReturnEdge", Msg: msg}
	}
	idx, edge, inserted, err := m.tri.AddAndReturnEdge(x, y, z)
	if err == nil && inserted {
		m.grid.add(idx, predicates.Point{X: x, Y: y})
	}
	return idx, edge, inserted, err
}

// AddSorted bulk-inserts Hilbert/Z-curve-ordered points (spec §4.6 "big
// locality win"), checking ctx for cancellation every 4096 points (spec §5
// "checked at coarse intervals ... after each N vertices").
func (m *Mesh) AddSorted(ctx context.Context, points [][3]float64) error {
	if m.frozen {
		return ErrMeshFrozen
	}
	const checkEvery = 4096
	for i, p := range points {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if !finite(p[0], p[1]) {
			return &InsertionError{Op: "AddSorted", Msg: fmt.Sprintf("point %d has a non-finite coordinate", i)}
		}
		idx, inserted, err := m.tri.Add(p[0], p[1], float32(p[2]))
		if err != nil {
			return err
		}
		if inserted {
			m.grid.add(idx, predicates.Point{X: p[0], Y: p[1]})
		}
	}
	return nil
}

// AddConstraints forces the given constraints into the mesh and locks it
// against a second call (spec §4.7, C7). restoreConformity additionally
// runs Restore-Conformity once every constraint has been forced.
func (m *Mesh) AddConstraints(list []constraint.Spec, restoreConformity bool) (constraint.Result, error) {
	if m.frozen {
		return constraint.Result{}, ErrMeshFrozen
	}
	res, err := constraint.NewProcessor(m.tri, m.opts.restoreRecursionBudget).Run(list, restoreConformity)
	if err != nil {
		return res, err
	}
	m.diag.MaxFloodQueueDepth = res.MaxFloodQueueSeen
	m.diag.RestoreConformitySplits = res.RestoreConformitySplits
	return res, nil
}

// Refine runs Ruppert refinement (spec §4.8, C8) to convergence or until a
// configured termination budget is reached.
func (m *Mesh) Refine(ctx context.Context, opts ...refine.Option) (refine.Result, error) {
	if m.frozen {
		return refine.Result{}, ErrMeshFrozen
	}
	runner := refine.New(m.tri, append([]refine.Option{refine.WithLogger(m.opts.logger)}, opts...)...)
	res, err := runner.Run(ctx)
	m.diag.RefinementIterations = res.Iterations
	m.diag.AbandonedTriangles = res.AbandonedCount
	if err != nil {
		return res, err
	}
	return res, nil
}

// Constraints returns every constraint processed so far, in processing
// order (spec §6 "Constraint objects").
func (m *Mesh) Constraints() []delaunay.ConstraintRecord { return m.tri.ConstraintRecords() }

// ResetNavigation drops this mesh's own cached walk seed (spec §4.10
// "invalidates the interpolators' cached walk-seeds"), forcing the next
// location query to restart its stochastic walk from scratch instead of a
// possibly-stale edge. Any Navigator obtained from a prior Freeze is
// unaffected; callers holding one must call its own ResetForChangeToTIN
// after re-freezing.
func (m *Mesh) ResetNavigation() { m.tri.InvalidateSearchEdge() }

// Write serializes the mesh in the TINS format (spec §4.9, C9).
func (m *Mesh) Write(w io.Writer, compress bool) error {
	return serialize.Write(w, m.tri, compress)
}

// Load deserializes a TINS file into a fresh Mesh.
func Load(r io.Reader, opts ...Option) (*Mesh, error) {
	tri, err := serialize.Read(r)
	if err != nil {
		return nil, err
	}
	c := defaultConfig()
	for _, fn := range opts {
		fn(&c)
	}
	grid := newHashGrid(c.nominalSpacing * 4)
	tri.Verts.Each(func(idx vertex.Index, o vertex.Object) {
		if !o.IsNull() {
			grid.add(idx, predicates.Point{X: o.X, Y: o.Y})
		}
	})
	return &Mesh{tri: tri, opts: c, grid: grid}, nil
}

// Freeze returns an immutable handle for the reader-concurrency model of
// spec §5: once frozen, m must not be mutated again, but any number of
// Navigators may query the returned *Frozen concurrently, each carrying
// its own walk seed.
func (m *Mesh) Freeze() *Frozen {
	m.frozen = true
	return &Frozen{tri: m.tri}
}
