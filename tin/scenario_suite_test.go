package tin

import (
	"bytes"
	"context"
	"math"
	"math/rand"

	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/iceisfun/tinmesh/constraint"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/refine"
)

// perimeterVertices derives the hull's ordered real vertices from a
// WalkPerimeter ring: each ring edge is a hull edge whose face is a ghost
// triangle, and the next edge of that face (F(ring[i])) starts at the hull
// edge's far vertex.
func perimeterVertices(m *Mesh, ring []quadedge.EdgeID) [][2]float64 {
	out := make([][2]float64, len(ring))
	for i, e := range ring {
		idx := m.tri.Pool.Origin(m.tri.Pool.F(e))
		p := m.tri.Pos(idx)
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func shoelaceArea(poly [][2]float64) float64 {
	sum := 0.0
	n := len(poly)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += poly[i][0]*poly[j][1] - poly[j][0]*poly[i][1]
	}
	return math.Abs(sum) / 2
}

func circlePoints(n int, radius float64) [][3]float64 {
	pts := make([][3]float64, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = [3]float64{radius * math.Cos(theta), radius * math.Sin(theta), 0}
	}
	return pts
}

var _ = Describe("Mesh façade scenarios", func() {
	ctx := context.Background()

	It("S1: a single triangle has one interior face, three perimeter edges, area 50", func() {
		m := New(1)
		_, _, err := m.Add(0, 0, 0)
		Expect(err).NotTo(HaveOccurred())
		_, _, err = m.Add(10, 0, 1)
		Expect(err).NotTo(HaveOccurred())
		_, _, err = m.Add(0, 10, 2)
		Expect(err).NotTo(HaveOccurred())

		count := 0
		m.IterateTriangles(func(Triangle) bool { count++; return true })
		Expect(count).To(Equal(1))

		ring, err := m.GetPerimeter()
		Expect(err).NotTo(HaveOccurred())
		Expect(ring).To(HaveLen(3))

		poly := perimeterVertices(m, ring)
		Expect(shoelaceArea(poly)).To(BeNumerically("~", 50, 1e-6))
	})

	It("S2: a unit square triangulates into two triangles", func() {
		m := New(2)
		Expect(m.AddSorted(ctx, [][3]float64{{0, 0, 0}, {1, 0, 1}, {1, 1, 2}, {0, 1, 3}})).To(Succeed())

		count := 0
		m.IterateTriangles(func(Triangle) bool { count++; return true })
		Expect(count).To(Equal(2))
	})

	It("S3: a donut constraint refined at 30 degrees keeps interior edges in the annulus", func() {
		m := New(3)
		outer := circlePoints(32, 30)
		inner := circlePoints(32, 15)
		Expect(m.AddSorted(ctx, outer)).To(Succeed())
		Expect(m.AddSorted(ctx, inner)).To(Succeed())

		outerPts := make([]constraint.Point, len(outer))
		for i, p := range outer {
			outerPts[i] = constraint.Point{X: p[0], Y: p[1]}
		}
		innerPts := make([]constraint.Point, len(inner))
		for i, p := range inner {
			innerPts[i] = constraint.Point{X: p[0], Y: p[1]}
		}

		_, err := m.AddConstraints([]constraint.Spec{
			{Kind: constraint.KindPolygon, Points: outerPts, DefinesRegion: true, IsHole: false},
			{Kind: constraint.KindPolygon, Points: innerPts, DefinesRegion: true, IsHole: true},
		}, true)
		Expect(err).NotTo(HaveOccurred())

		_, err = m.Refine(ctx, refine.WithMinAngle(30))
		Expect(err).NotTo(HaveOccurred())

		m.IterateEdges(func(base quadedge.EdgeID) bool {
			if !m.tri.Pool.IsRegionInterior(base) {
				return true
			}
			a := m.tri.Pool.Origin(base)
			b := m.tri.Pool.Origin(m.tri.Pool.Dual(base))
			pa, pb := m.tri.Pos(a), m.tri.Pos(b)
			mx, my := (pa.X+pb.X)/2, (pa.Y+pb.Y)/2
			r := math.Hypot(mx, my)
			Expect(r).To(BeNumerically(">=", 15-1e-6))
			Expect(r).To(BeNumerically("<=", 30+1e-6))
			return true
		})
	})

	It("S4: a border-sharing constraint still yields a closed, positive-area perimeter", func() {
		m := New(4)
		Expect(m.AddSorted(ctx, [][3]float64{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0}})).To(Succeed())

		_, err := m.AddConstraints([]constraint.Spec{{
			Kind:   constraint.KindLinear,
			Points: []constraint.Point{{X: 10, Y: 0}, {X: 10, Y: 10}},
		}}, true)
		Expect(err).NotTo(HaveOccurred())

		_, err = m.Refine(ctx, refine.WithMinAngle(20))
		Expect(err).NotTo(HaveOccurred())

		ring, err := m.GetPerimeter()
		Expect(err).NotTo(HaveOccurred())
		Expect(len(ring)).To(BeNumerically("<=", 2*int(m.tri.Pool.Allocated())+1000))

		poly := perimeterVertices(m, ring)
		Expect(shoelaceArea(poly)).To(BeNumerically(">", 0))
	})

	It("S5: a linear constraint through random points survives refinement as line members", func() {
		m := New(5)
		rng := rand.New(rand.NewSource(42))
		pts := make([][3]float64, 100)
		for i := range pts {
			pts[i] = [3]float64{rng.Float64() * 100, rng.Float64() * 100, 0}
		}
		Expect(m.AddSorted(ctx, pts)).To(Succeed())

		chain := []constraint.Point{{X: 0, Y: 50}, {X: 25, Y: 50}, {X: 50, Y: 50}, {X: 75, Y: 50}, {X: 100, Y: 50}}
		_, err := m.AddConstraints([]constraint.Spec{{Kind: constraint.KindLinear, Points: chain}}, true)
		Expect(err).NotTo(HaveOccurred())

		_, err = m.Refine(ctx, refine.WithMinAngle(25))
		Expect(err).NotTo(HaveOccurred())

		found := false
		m.IterateEdges(func(base quadedge.EdgeID) bool {
			if m.tri.Pool.IsLineMember(base) {
				if idx, ok := m.tri.Pool.LineIndex(base); ok && idx == 0 {
					found = true
					return false
				}
			}
			return true
		})
		Expect(found).To(BeTrue())
	})

	It("S6: serializing and reloading a refined donut preserves query results", func() {
		m := New(6)
		outer := circlePoints(32, 30)
		inner := circlePoints(32, 15)
		Expect(m.AddSorted(ctx, outer)).To(Succeed())
		Expect(m.AddSorted(ctx, inner)).To(Succeed())
		outerPts := toConstraintPoints(outer)
		innerPts := toConstraintPoints(inner)
		_, err := m.AddConstraints([]constraint.Spec{
			{Kind: constraint.KindPolygon, Points: outerPts, DefinesRegion: true, IsHole: false},
			{Kind: constraint.KindPolygon, Points: innerPts, DefinesRegion: true, IsHole: true},
		}, true)
		Expect(err).NotTo(HaveOccurred())
		_, err = m.Refine(ctx, refine.WithMinAngle(30))
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(m.Write(&buf, true)).To(Succeed())
		reloaded, err := Load(&buf)
		Expect(err).NotTo(HaveOccurred())

		for gx := -25.0; gx <= 25; gx += 50.0 / 49 {
			for gy := -25.0; gy <= 25; gy += 50.0 / 49 {
				trA, okA, errA := m.GetContainingTriangle(gx, gy)
				trB, okB, errB := reloaded.GetContainingTriangle(gx, gy)
				Expect(errA).NotTo(HaveOccurred())
				Expect(errB).NotTo(HaveOccurred())
				Expect(okA).To(Equal(okB))
				if okA {
					Expect(cmp.Diff(trA.A, trB.A)).To(BeEmpty())
					Expect(cmp.Diff(trA.B, trB.B)).To(BeEmpty())
					Expect(cmp.Diff(trA.C, trB.C)).To(BeEmpty())
				}
			}
		}
	})
})

func toConstraintPoints(pts [][3]float64) []constraint.Point {
	out := make([]constraint.Point, len(pts))
	for i, p := range pts {
		out[i] = constraint.Point{X: p[0], Y: p[1]}
	}
	return out
}
