package constraint

import "github.com/iceisfun/tinmesh/predicates"

// segmentsProperlyCross reports whether segment pq straddles segment rs
// (each endpoint of one segment lies on opposite sides of the other),
// following the same `o1*o2 < 0 && o3*o4 < 0` proper-crossing test as
// algorithm/robust/predicates.go's SegmentIntersect.
func segmentsProperlyCross(p, q, r, s predicates.Point) bool {
	o1 := predicates.Orient(p, q, r)
	o2 := predicates.Orient(p, q, s)
	o3 := predicates.Orient(r, s, p)
	o4 := predicates.Orient(r, s, q)
	return o1*o2 < 0 && o3*o4 < 0
}

// polygonSelfIntersects reports whether any two non-adjacent edges of the
// closed chain pts properly cross. Adjacent edges (sharing an endpoint)
// are never flagged: a closed polygon's consecutive edges legitimately
// share a vertex.
func polygonSelfIntersects(pts []Point) bool {
	n := len(pts)
	if n < 4 {
		return false
	}
	seg := func(i int) (predicates.Point, predicates.Point) {
		a := pts[i]
		b := pts[(i+1)%n]
		return predicates.Point{X: a.X, Y: a.Y}, predicates.Point{X: b.X, Y: b.Y}
	}
	for i := 0; i < n; i++ {
		p, q := seg(i)
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue // adjacent (or identical) edges share an endpoint
			}
			r, s := seg(j)
			if segmentsProperlyCross(p, q, r, s) {
				return true
			}
		}
	}
	return false
}
