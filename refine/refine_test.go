package refine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceisfun/tinmesh/constraint"
	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/predicates"
)

func newSliverTriangulation(t *testing.T) *delaunay.Triangulation {
	t.Helper()
	tri := delaunay.New(predicates.NewThresholds(0.01), 3)
	pts := [][3]float64{
		{0, 0, 0}, {100, 0, 0}, {5, 1, 0},
	}
	require.NoError(t, tri.AddSorted(pts))
	_, err := constraint.NewProcessor(tri, 0).Run(nil, false)
	require.NoError(t, err)
	return tri
}

func TestRunRejectsUnlockedMesh(t *testing.T) {
	tri := delaunay.New(predicates.NewThresholds(1), 1)
	require.NoError(t, tri.AddSorted([][3]float64{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}}))
	r := New(tri)
	_, err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrNotLocked)
}

func TestRunImprovesSliverTriangle(t *testing.T) {
	tri := newSliverTriangulation(t)
	r := New(tri, WithMinAngle(20.7), WithMaxIterations(200))
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Greater(t, res.InsertedVertices+res.SegmentSplits, 0)
}

func TestRunOnAlreadyGoodMeshConvergesImmediately(t *testing.T) {
	tri := delaunay.New(predicates.NewThresholds(0.1), 2)
	pts := [][3]float64{
		{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0}, {5, 5, 0},
	}
	require.NoError(t, tri.AddSorted(pts))
	_, err := constraint.NewProcessor(tri, 0).Run(nil, false)
	require.NoError(t, err)

	r := New(tri, WithMinAngle(20.7))
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Converged)
	require.Equal(t, 0, res.InsertedVertices)
}

func TestRunRespectsMaxIterations(t *testing.T) {
	tri := newSliverTriangulation(t)
	r := New(tri, WithMinAngle(20.7), WithMaxIterations(1))
	res, err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrMaxIterationsReached)
	require.False(t, res.Converged)
}

func TestBadnessRatioEquilateralIsNotBad(t *testing.T) {
	side := 10.0
	h := side * math.Sqrt(3) / 2
	pa := predicates.Point{X: 0, Y: 0}
	pb := predicates.Point{X: side, Y: 0}
	pc := predicates.Point{X: side / 2, Y: h}
	ratio := badnessRatio(pa, pb, pc, 20.7*math.Pi/180)
	require.LessOrEqual(t, ratio, 1.0)
}

func TestBadnessRatioFlagsSliver(t *testing.T) {
	pa := predicates.Point{X: 0, Y: 0}
	pb := predicates.Point{X: 100, Y: 0}
	pc := predicates.Point{X: 5, Y: 1}
	ratio := badnessRatio(pa, pb, pc, 20.7*math.Pi/180)
	require.Greater(t, ratio, 1.0)
}

func TestSteinerPointGuardCapsDistance(t *testing.T) {
	pa := predicates.Point{X: 0, Y: 0}
	pb := predicates.Point{X: 100, Y: 0}
	pc := predicates.Point{X: 5, Y: 1}
	p, ok := steinerPoint(pa, pb, pc, true)
	require.True(t, ok)
	require.False(t, math.IsNaN(p.X))
	require.False(t, math.IsNaN(p.Y))
}
