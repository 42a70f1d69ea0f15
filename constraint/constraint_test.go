package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
)

func newGridTriangulation(t *testing.T) *delaunay.Triangulation {
	t.Helper()
	tri := delaunay.New(predicates.NewThresholds(1.0), 7)
	pts := [][3]float64{
		{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0},
		{5, 0, 0}, {5, 10, 0}, {0, 5, 0}, {10, 5, 0}, {5, 5, 0},
	}
	require.NoError(t, tri.AddSorted(pts))
	require.True(t, tri.IsBootstrapped())
	return tri
}

func TestForceSegmentAlongExistingEdge(t *testing.T) {
	tri := newGridTriangulation(t)
	proc := NewProcessor(tri, 0)

	spec := []Spec{{
		Kind:   KindLinear,
		Points: []Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
	}}
	_, err := proc.Run(spec, false)
	require.NoError(t, err)
	require.True(t, tri.Locked())
}

func TestForceSegmentAcrossDiagonal(t *testing.T) {
	tri := newGridTriangulation(t)
	proc := NewProcessor(tri, 0)

	// (2,8)-(8,2) crosses several interior edges that do not already form
	// a straight diagonal; forcing it must retriangulate around it.
	spec := []Spec{{
		Kind:   KindLinear,
		Points: []Point{{X: 2, Y: 8}, {X: 8, Y: 2}},
	}}
	result, err := proc.Run(spec, false)
	require.NoError(t, err)
	_ = result

	found := false
	tri.Pool.LivePairs(func(base quadedge.EdgeID) {
		for _, e := range [2]quadedge.EdgeID{base, tri.Pool.Dual(base)} {
			if tri.Pool.IsLineMember(e) {
				idx, ok := tri.Pool.LineIndex(e)
				if ok && idx == 0 {
					found = true
				}
			}
		}
	})
	require.True(t, found, "forced segment must leave a tagged line-member edge in the mesh")
}

func TestPolygonRegionFloodFill(t *testing.T) {
	tri := delaunay.New(predicates.NewThresholds(1.0), 3)
	pts := [][3]float64{
		{0, 0, 0}, {20, 0, 0}, {20, 20, 0}, {0, 20, 0},
		{2, 2, 0}, {18, 2, 0}, {18, 18, 0}, {2, 18, 0},
		{10, 10, 0},
	}
	require.NoError(t, tri.AddSorted(pts))

	proc := NewProcessor(tri, 0)
	spec := []Spec{{
		Kind:          KindPolygon,
		Points:        []Point{{X: 2, Y: 2}, {X: 18, Y: 2}, {X: 18, Y: 18}, {X: 2, Y: 18}},
		DefinesRegion: true,
	}}
	result, err := proc.Run(spec, false)
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.MaxFloodQueueSeen, 1)

	interiorFound := false
	tri.Pool.LivePairs(func(base quadedge.EdgeID) {
		for _, e := range [2]quadedge.EdgeID{base, tri.Pool.Dual(base)} {
			if tri.Pool.IsRegionInterior(e) {
				interiorFound = true
			}
		}
	})
	require.True(t, interiorFound, "flood fill must mark at least one interior edge")
}

func TestAddConstraintsLocksAgainstSecondCall(t *testing.T) {
	tri := newGridTriangulation(t)
	proc := NewProcessor(tri, 0)
	spec := []Spec{{Kind: KindLinear, Points: []Point{{X: 0, Y: 0}, {X: 5, Y: 5}}}}
	_, err := proc.Run(spec, false)
	require.NoError(t, err)

	proc2 := NewProcessor(tri, 0)
	_, err = proc2.Run(spec, false)
	require.ErrorIs(t, err, ErrAlreadyLocked)
}

func TestRestoreConformitySplitsEncroachedEdge(t *testing.T) {
	tri := delaunay.New(predicates.NewThresholds(0.5), 11)
	pts := [][3]float64{
		{0, 0, 0}, {10, 0, 0}, {10, 10, 0}, {0, 10, 0}, {5, 4.9, 0},
	}
	require.NoError(t, tri.AddSorted(pts))

	proc := NewProcessor(tri, 4)
	spec := []Spec{{Kind: KindLinear, Points: []Point{{X: 0, Y: 0}, {X: 10, Y: 0}}}}
	result, err := proc.Run(spec, true)
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.RestoreConformitySplits, 1)
}

func TestRunRejectsSelfIntersectingPolygon(t *testing.T) {
	tri := newGridTriangulation(t)
	proc := NewProcessor(tri, 0)

	// A bowtie: (0,0)->(10,10)->(10,0)->(0,10)->(0,0) crosses itself between
	// the first and third edges.
	spec := []Spec{{
		Kind:          KindPolygon,
		DefinesRegion: true,
		Points:        []Point{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10}},
	}}
	_, err := proc.Run(spec, false)
	require.ErrorIs(t, err, ErrSelfIntersectingPolygon)
	require.True(t, tri.Locked())
}
