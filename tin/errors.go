package tin

import "fmt"

// InsertionError reports a spec §7 category-1 "Input violation" caught at
// the façade before it ever reaches delaunay -- currently just the
// non-finite-coordinate check (the other listed violations -- duplicate
// constraint, constraint count over capacity, add_constraints called
// twice -- already surface as constraint package sentinels, which this
// façade passes through unwrapped).
type InsertionError struct {
	Op  string
	Msg string
}

func (e *InsertionError) Error() string {
	return fmt.Sprintf("tin: %s: %s", e.Op, e.Msg)
}

// ErrMeshFrozen is returned by every mutating method once Freeze has been
// called (spec §5: "once frozen, m must not be mutated again").
var ErrMeshFrozen = fmt.Errorf("tin: mesh is frozen")
