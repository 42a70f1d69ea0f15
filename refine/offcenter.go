package refine

import (
	"math"

	"github.com/iceisfun/tinmesh/predicates"
)

// steinerPoint computes the Steiner point used to split a bad triangle
// (spec §4.8 step b): the circumcenter, or -- when the sqrt2 guard is
// enabled -- the nearest point on the segment from the shortest edge's
// midpoint toward the circumcenter whose distance from that midpoint is
// either the circumcenter's own distance or sqrt(2) times half the
// shortest edge length, whichever is smaller (Üngör's off-center rule,
// which avoids reinserting a new point arbitrarily close to an existing
// short edge and re-triggering the same split).
func steinerPoint(pa, pb, pc predicates.Point, guard bool) (predicates.Point, bool) {
	center, _, ok := predicates.Circumcenter(pa, pb, pc)
	if !ok {
		return predicates.Point{}, false
	}
	if !guard {
		return center, true
	}

	type edge struct{ p, q predicates.Point }
	edges := [3]edge{{pa, pb}, {pb, pc}, {pc, pa}}
	shortIdx := 0
	shortLen2 := dist2(pa, pb)
	if l := dist2(pb, pc); l < shortLen2 {
		shortLen2, shortIdx = l, 1
	}
	if l := dist2(pc, pa); l < shortLen2 {
		shortLen2, shortIdx = l, 2
	}
	e := edges[shortIdx]
	mx, my := (e.p.X+e.q.X)/2, (e.p.Y+e.q.Y)/2
	mid := predicates.Point{X: mx, Y: my}

	dx, dy := center.X-mid.X, center.Y-mid.Y
	distToCenter := math.Hypot(dx, dy)
	if distToCenter == 0 {
		return center, true
	}
	target := math.Sqrt2 * math.Sqrt(shortLen2) / 2
	d := math.Min(target, distToCenter)
	ux, uy := dx/distToCenter, dy/distToCenter
	return predicates.Point{X: mid.X + ux*d, Y: mid.Y + uy*d}, true
}
