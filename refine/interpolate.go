package refine

import (
	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/vertex"
)

// elevate computes the z coordinate for a new Steiner point at (x, y)
// located inside the triangle formed by a, b, c, per the configured
// interpolation strategy (spec §4.8 "elevation via interpolation
// strategy").
func elevate(tri *delaunay.Triangulation, opts Options, a, b, c vertex.Index, x, y float64) float64 {
	switch opts.Interpolation {
	case InterpCustom:
		if opts.Interpolator != nil {
			if z, ok := opts.Interpolator.Interpolate(x, y); ok {
				return z
			}
		}
	case InterpNearestVertex:
		return nearestVertexZ(tri, a, b, c, x, y)
	}
	return triangularFacetZ(tri, a, b, c, x, y)
}

// triangularFacetZ treats (a, b, c) as a planar facet and barycentrically
// interpolates z at (x, y).
func triangularFacetZ(tri *delaunay.Triangulation, a, b, c vertex.Index, x, y float64) float64 {
	pa, pb, pc := tri.Pos(a), tri.Pos(b), tri.Pos(c)
	za, zb, zc := tri.Verts.Z(a), tri.Verts.Z(b), tri.Verts.Z(c)

	denom := (pb.Y-pc.Y)*(pa.X-pc.X) + (pc.X-pb.X)*(pa.Y-pc.Y)
	if denom == 0 {
		return (za + zb + zc) / 3
	}
	wa := ((pb.Y-pc.Y)*(x-pc.X) + (pc.X-pb.X)*(y-pc.Y)) / denom
	wb := ((pc.Y-pa.Y)*(x-pc.X) + (pa.X-pc.X)*(y-pc.Y)) / denom
	wc := 1 - wa - wb
	return wa*za + wb*zb + wc*zc
}

func nearestVertexZ(tri *delaunay.Triangulation, a, b, c vertex.Index, x, y float64) float64 {
	best, bestD := a, tri.Verts.Get(a).DistanceSquared(x, y)
	for _, v := range [2]vertex.Index{b, c} {
		if d := tri.Verts.Get(v).DistanceSquared(x, y); d < bestD {
			best, bestD = v, d
		}
	}
	return tri.Verts.Z(best)
}
