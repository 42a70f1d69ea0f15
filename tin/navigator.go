package tin

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
)

// Frozen is an immutable handle to a mesh that has been frozen via
// Mesh.Freeze (spec §5 "Read concurrency"). Multiple Navigators may query
// the same *Frozen concurrently; none of them mutate it.
type Frozen struct {
	tri *delaunay.Triangulation
}

// NewNavigator creates a Navigator over f, seeded with the mesh's current
// search edge. A Navigator is not itself safe for concurrent use -- each caller
// (e.g. each rasterizer worker) must hold its own instance, exactly as
// spec §5 requires of interpolators: "a rasterizer may instantiate one
// interpolator per worker thread, each driving an independent walk over
// the same frozen mesh."
func (f *Frozen) NewNavigator() *Navigator {
	return &Navigator{tri: f.tri, seed: f.tri.SearchEdge()}
}

// Navigator is one reader's mutable walk state over a Frozen mesh (spec
// §6 "Navigator: get_neighbor_edge, get_containing_triangle,
// get_nearest_vertex, reset_for_change_to_tin").
type Navigator struct {
	tri  *delaunay.Triangulation
	seed quadedge.EdgeID
}

// GetContainingTriangle locates the non-ghost face containing (x, y) and
// records the located edge as this Navigator's seed. The walk starts from
// the mesh's shared search edge; the recorded seed does not change where
// any walk begins.
func (n *Navigator) GetContainingTriangle(x, y float64) (Triangle, bool, error) {
	loc, err := n.tri.Locate(predicates.Point{X: x, Y: y})
	if err != nil {
		return Triangle{}, false, err
	}
	n.seed = loc.Edge
	if loc.IsGhost {
		return Triangle{}, false, nil
	}
	tr, _, _ := faceAt(n.tri.Pool, loc.Edge)
	return tr, true, nil
}

// GetNeighborEdge mirrors Mesh.GetNeighborEdge against this Navigator's
// own Frozen mesh, recording the located edge as its seed.
func (n *Navigator) GetNeighborEdge(x, y float64) (quadedge.EdgeID, error) {
	loc, err := n.tri.Locate(predicates.Point{X: x, Y: y})
	if err != nil {
		return quadedge.NilEdge, err
	}
	n.seed = loc.Edge
	if loc.IsGhost || loc.OnEdge {
		return loc.Edge, nil
	}
	pool := n.tri.Pool
	e0 := loc.Edge
	e1 := pool.F(e0)
	e2 := pool.F(e1)
	best := e0
	bestD := vertexDist2(n.tri, e0, x, y)
	for _, e := range [2]quadedge.EdgeID{e1, e2} {
		if d := vertexDist2(n.tri, e, x, y); d < bestD {
			best, bestD = e, d
		}
	}
	return best, nil
}

// ResetForChangeToTIN drops the recorded seed (spec §6). Queries do not
// start from that seed, so this does not change where the next walk
// begins.
func (n *Navigator) ResetForChangeToTIN() { n.seed = quadedge.NilEdge }

// ParallelQuery runs fn once per point in points across a pool of
// goroutines, each driving its own Navigator over f, and returns the
// results in input order (or the first error, cancelling the rest). This
// is the concrete reader-concurrency model spec §5 describes but leaves
// to the host language's concurrency primitives; golang.org/x/sync/errgroup
// is the declared dependency for exactly this fan-out-and-collect shape.
func ParallelQuery(ctx context.Context, f *Frozen, points [][2]float64, fn func(nav *Navigator, x, y float64) (Triangle, bool, error)) ([]Triangle, []bool, error) {
	results := make([]Triangle, len(points))
	found := make([]bool, len(points))

	g, ctx := errgroup.WithContext(ctx)
	workers := 1
	if n := len(points); n > 1 {
		workers = n
		if workers > 16 {
			workers = 16
		}
	}
	chunks := chunkIndices(len(points), workers)
	for _, chunk := range chunks {
		chunk := chunk
		g.Go(func() error {
			nav := f.NewNavigator()
			for _, i := range chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				tr, ok, err := fn(nav, points[i][0], points[i][1])
				if err != nil {
					return err
				}
				results[i], found[i] = tr, ok
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, found, nil
}

func chunkIndices(n, workers int) [][]int {
	if workers <= 0 {
		workers = 1
	}
	chunks := make([][]int, 0, workers)
	size := (n + workers - 1) / workers
	if size < 1 {
		size = 1
	}
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		idx := make([]int, end-start)
		for i := range idx {
			idx[i] = start + i
		}
		chunks = append(chunks, idx)
	}
	return chunks
}
