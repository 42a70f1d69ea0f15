package refine

import (
	"context"
	"math"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/quadedge"
)

// Runner drives Ruppert refinement over a locked triangulation (spec
// §4.8). Construct one with New and call Run once.
type Runner struct {
	tri  *delaunay.Triangulation
	opts Options

	minArea float64
	queue   *triangleQueue

	attemptCounts map[quadedge.EdgeID]int
	abandoned     map[quadedge.EdgeID]bool

	maxInserted int
}

// New builds a Runner for tri with the given options.
func New(tri *delaunay.Triangulation, opts ...Option) *Runner {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Runner{
		tri:           tri,
		opts:          o,
		attemptCounts: make(map[quadedge.EdgeID]int),
		abandoned:     make(map[quadedge.EdgeID]bool),
		queue:         newTriangleQueue(),
	}
}

func (r *Runner) resolveMinArea() {
	if r.opts.MinTriangleArea > 0 {
		r.minArea = r.opts.MinTriangleArea
		return
	}
	b, ok := r.tri.Bounds()
	if !ok {
		r.minArea = 0
		return
	}
	dim := math.Max(b.MaxX-b.MinX, b.MaxY-b.MinY)
	if dim <= 0 {
		r.minArea = 0
		return
	}
	side := dim / 2000
	r.minArea = (side * side) / 2
}

// Run executes Ruppert refinement to convergence or until a termination
// budget is reached (spec §4.8 "main loop").
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if !r.tri.Locked() {
		return Result{}, ErrNotLocked
	}
	r.resolveMinArea()

	if r.opts.MaxInsertedVertices > 0 {
		r.maxInserted = r.opts.MaxInsertedVertices
	} else {
		r.maxInserted = 50 * r.tri.Verts.Len()
	}

	r.scanAllBadTriangles()

	var res Result
	maxIter := r.opts.MaxIterations
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if maxIter > 0 && res.Iterations >= maxIter {
			r.tri.SetConformant(false)
			return res, ErrMaxIterationsReached
		}
		if r.maxInserted > 0 && res.InsertedVertices >= r.maxInserted {
			r.tri.SetConformant(false)
			return res, ErrMaxVerticesReached
		}

		rep, _, ok := r.queue.Pop()
		if !ok {
			break
		}
		res.Iterations++

		if !r.tri.Pool.IsLive(rep) {
			continue
		}
		tr := triangleAt(r.tri.Pool, rep)
		badness, bad := r.isBad(tr)
		if !bad {
			continue
		}

		if r.abandoned[rep] {
			continue
		}

		if r.attemptCounts[rep] >= r.opts.MaxTriangleAttempts {
			r.abandoned[rep] = true
			res.AbandonedCount++
			r.opts.Logger.V(1).Info("abandoning seditious bad triangle",
				"edge", rep, "badness", badness, "attempts", r.attemptCounts[rep])
			continue
		}
		r.attemptCounts[rep]++

		if r.processOne(tr, &res) {
			continue
		}
		// Could not resolve this round (e.g. point rejected as
		// coincident); requeue at a demoted priority so other bad
		// triangles get a turn before this one is retried.
		if badness2, bad2 := r.isBad(triangleAt(r.tri.Pool, rep)); bad2 && r.tri.Pool.IsLive(rep) {
			r.queue.Push(rep, badness2*0.99)
		}
	}

	conformant := r.queue.Len() == 0
	r.tri.SetConformant(conformant)
	res.Converged = conformant
	return res, nil
}

// processOne computes and attempts to insert a Steiner point for tr,
// returning true once the round made forward progress (an insertion or a
// segment split happened).
func (r *Runner) processOne(tr triangle, res *Result) bool {
	pa, pb, pc := r.tri.Pos(tr.a), r.tri.Pos(tr.b), r.tri.Pos(tr.c)
	p, ok := steinerPoint(pa, pb, pc, r.opts.EnforceSqrt2Guard)
	if !ok {
		return false
	}

	if e, found := findEncroachedSegment(r.tri, p.X, p.Y); found {
		sr := splitSegment(r.tri, e)
		res.SegmentSplits++
		r.requeueAround(sr.newVertexEdge)
		return true
	}

	loc, err := r.tri.Locate(p)
	if err != nil {
		return false
	}
	if loc.IsGhost {
		// Outside the hull: treat the nearest perimeter edge as
		// encroached and split it instead of inserting outside the
		// domain (spec §4.8 "outside-hull-as-encroachment").
		perim := r.nearestPerimeterEdge(loc.Edge)
		if perim == quadedge.NilEdge {
			return false
		}
		sr := splitSegment(r.tri, perim)
		res.SegmentSplits++
		r.requeueAround(sr.newVertexEdge)
		return true
	}

	idx, edge, inserted, err := r.tri.AddAndReturnEdge(p.X, p.Y, 0)
	if err != nil {
		return false
	}
	if !inserted {
		// Coincidence-tolerance rejection: the candidate point merged
		// into an existing vertex instead of creating a new site. The
		// triangle cannot be split this way; abandon this attempt.
		return false
	}
	z := elevate(r.tri, r.opts, tr.a, tr.b, tr.c, p.X, p.Y)
	obj := r.tri.Verts.Get(idx)
	obj.Z = float32(z)
	r.tri.Verts.Set(idx, obj)

	res.InsertedVertices++
	r.requeueAround(edge)
	return true
}

// nearestPerimeterEdge finds a hull-boundary half-edge adjacent to the
// ghost face at gf, to use as the encroached-segment stand-in for a
// Steiner point that landed outside the hull.
func (r *Runner) nearestPerimeterEdge(gf quadedge.EdgeID) quadedge.EdgeID {
	pool := r.tri.Pool
	e0 := gf
	e1 := pool.F(e0)
	e2 := pool.F(e1)
	for _, e := range [3]quadedge.EdgeID{e0, e1, e2} {
		if !pool.IsGhostEdge(e) {
			return e
		}
	}
	return quadedge.NilEdge
}

// requeueAround re-derives badness for every triangle in the pinwheel
// around seed's origin vertex and pushes the bad ones (spec §4.8 step g
// "insertion + pinwheel bad-triangle re-enqueue").
func (r *Runner) requeueAround(seed quadedge.EdgeID) {
	pool := r.tri.Pool
	spokes, err := pool.VertexEdges(seed, 2*int(pool.Allocated())+1000)
	if err != nil {
		// Ring did not close within the safety bound; fall back to a
		// full rescan rather than leaving newly bad triangles unqueued.
		r.scanAllBadTriangles()
		return
	}
	for _, s := range spokes {
		tr := triangleAt(pool, s)
		rep := representativeEdge(tr)
		if r.abandoned[rep] {
			continue
		}
		if badness, bad := r.isBad(tr); bad {
			r.queue.Push(rep, badness)
		}
	}
}

func (r *Runner) scanAllBadTriangles() {
	pool := r.tri.Pool
	seen := make(map[quadedge.EdgeID]bool)
	pool.LivePairs(func(base quadedge.EdgeID) {
		for _, e := range [2]quadedge.EdgeID{base, pool.Dual(base)} {
			tr := triangleAt(pool, e)
			rep := representativeEdge(tr)
			if seen[rep] {
				continue
			}
			seen[rep] = true
			if r.abandoned[rep] {
				continue
			}
			if badness, bad := r.isBad(tr); bad {
				r.queue.Push(rep, badness)
			}
		}
	})
}
