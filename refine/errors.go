package refine

import "errors"

var (
	// ErrNotLocked is returned when Run is called before add_constraints
	// has locked the mesh (spec §4.8 "refinement assumes constraint
	// integration has already run, even if the constraint list was
	// empty").
	ErrNotLocked = errors.New("refine: triangulation has not been locked via add_constraints")

	// ErrMaxIterationsReached is returned (alongside whatever partial
	// refinement was achieved) when the configured iteration budget is
	// exhausted before the mesh converged.
	ErrMaxIterationsReached = errors.New("refine: max_iterations reached before convergence")

	// ErrMaxVerticesReached is returned when the Steiner-point budget
	// (max_inserted_vertices) is exhausted before convergence.
	ErrMaxVerticesReached = errors.New("refine: max_inserted_vertices reached before convergence")

	// ErrPerimeterWalkOverflow guards the perimeter-traversal safeguard
	// (2*edge_pool_size+1000) against an unexpectedly unclosed hull walk.
	ErrPerimeterWalkOverflow = errors.New("refine: perimeter walk exceeded safety bound")
)

// Result summarizes one refinement run.
type Result struct {
	Iterations       int
	InsertedVertices int
	SegmentSplits    int
	AbandonedCount   int
	Converged        bool
}
