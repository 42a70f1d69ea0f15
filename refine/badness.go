package refine

import (
	"math"
	"sort"

	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// triangle names the three half-edges of one face, each edge's origin
// being one corner, in CCW order (I3).
type triangle struct {
	e0, e1, e2 quadedge.EdgeID
	a, b, c    vertex.Index
}

func triangleAt(pool *quadedge.Pool, e quadedge.EdgeID) triangle {
	e1 := pool.F(e)
	e2 := pool.F(e1)
	return triangle{
		e0: e, e1: e1, e2: e2,
		a: pool.Origin(e), b: pool.Origin(e1), c: pool.Origin(e2),
	}
}

// representativeEdge picks a stable dedup key for a face: the
// smallest-numbered of its three half-edges.
func representativeEdge(tr triangle) quadedge.EdgeID {
	rep := tr.e0
	if tr.e1 < rep {
		rep = tr.e1
	}
	if tr.e2 < rep {
		rep = tr.e2
	}
	return rep
}

func dist2(a, b predicates.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dx*dx + dy*dy
}

func triangleArea(a, b, c predicates.Point) float64 {
	return math.Abs((b.X-a.X)*(c.Y-a.Y)-(c.X-a.X)*(b.Y-a.Y)) / 2
}

// badnessRatio returns sin²(minAngle) / sin²(θ), where θ is the triangle's
// smallest interior angle (opposite its shortest edge, so sin θ is twice
// the area over the product of the two longer edges). A value greater
// than 1 means the triangle violates the configured minimum-angle bound;
// an equilateral triangle (60 degree angles) scores at or below 1 for any
// bound up to 60 degrees. A zero-area triangle scores +Inf.
func badnessRatio(pa, pb, pc predicates.Point, minAngleRad float64) float64 {
	lens := []float64{dist2(pa, pb), dist2(pb, pc), dist2(pc, pa)}
	sort.Float64s(lens)
	midSq, longestSq := lens[1], lens[2]
	if longestSq <= 0 {
		return 0
	}
	area := triangleArea(pa, pb, pc)
	if area <= 0 {
		return math.Inf(1)
	}
	sinMinSq := 4 * area * area / (midSq * longestSq)
	return math.Pow(math.Sin(minAngleRad), 2) / sinMinSq
}

// isBad reports whether the triangle at e violates the minimum-angle
// ratio. A triangle whose area is below the minimum-area floor is never
// bad, and neither are ghost triangles (touching the null vertex).
func (r *Runner) isBad(tr triangle) (badness float64, bad bool) {
	if tr.a == vertex.NullIndex || tr.b == vertex.NullIndex || tr.c == vertex.NullIndex {
		return 0, false
	}
	pa, pb, pc := r.tri.Pos(tr.a), r.tri.Pos(tr.b), r.tri.Pos(tr.c)
	badness = badnessRatio(pa, pb, pc, r.opts.minAngleRadians())
	if badness <= 1 {
		return badness, false
	}
	if r.minArea > 0 && triangleArea(pa, pb, pc) < r.minArea {
		return badness, false
	}
	return badness, true
}
