package serialize

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceisfun/tinmesh/constraint"
	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
)

func buildFixture(t *testing.T) *delaunay.Triangulation {
	t.Helper()
	tri := delaunay.New(predicates.NewThresholds(1.0), 5)
	pts := [][3]float64{
		{0, 0, 1}, {10, 0, 2}, {10, 10, 3}, {0, 10, 4}, {5, 5, 5},
	}
	require.NoError(t, tri.AddSorted(pts))
	_, err := constraint.NewProcessor(tri, 0).Run([]constraint.Spec{{
		Kind:   constraint.KindLinear,
		Points: []constraint.Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
	}}, true)
	require.NoError(t, err)
	return tri
}

func countLivePairs(pool *quadedge.Pool) int {
	n := 0
	pool.LivePairs(func(quadedge.EdgeID) { n++ })
	return n
}

func TestWriteReadRoundTripsTopology(t *testing.T) {
	tri := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tri, false))

	got, err := Read(&buf)
	require.NoError(t, err)

	require.Equal(t, countLivePairs(tri.Pool), countLivePairs(got.Pool))
	require.Equal(t, tri.Verts.Len(), got.Verts.Len())
	require.Equal(t, tri.Locked(), got.Locked())
	require.Equal(t, tri.LockedDueToConstraints(), got.LockedDueToConstraints())
	require.Equal(t, tri.Conformant(), got.Conformant())
	require.Equal(t, tri.SyntheticCount(), got.SyntheticCount())
	require.Equal(t, len(tri.ConstraintRecords()), len(got.ConstraintRecords()))

	b1, ok1 := tri.Bounds()
	b2, ok2 := got.Bounds()
	require.Equal(t, ok1, ok2)
	require.Equal(t, b1, b2)
}

func TestWriteReadRoundTripsConstraintBits(t *testing.T) {
	tri := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tri, false))
	got, err := Read(&buf)
	require.NoError(t, err)

	var mismatches int
	tri.Pool.LivePairs(func(base quadedge.EdgeID) {
		if tri.Pool.RawMeta(base) != got.Pool.RawMeta(base) {
			mismatches++
		}
	})
	require.Zero(t, mismatches, "packed constraint word must round-trip bit-exactly")
}

func TestWriteReadGzipRoundTrips(t *testing.T) {
	tri := buildFixture(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tri, true))

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, countLivePairs(tri.Pool), countLivePairs(got.Pool))
}

func TestReadRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0, 1, 0, 0, 0})
	_, err := Read(buf)
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}

func TestReadRejectsUnknownVersion(t *testing.T) {
	tri := delaunay.New(predicates.NewThresholds(1), 1)
	require.NoError(t, tri.AddSorted([][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tri, false))
	raw := buf.Bytes()
	raw[4] = 99 // corrupt version's low byte

	_, err := Read(bytes.NewReader(raw))
	require.Error(t, err)
}
