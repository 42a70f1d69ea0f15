package predicates

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrient(t *testing.T) {
	ccw := Orient(Point{0, 0}, Point{1, 0}, Point{0, 1})
	require.Equal(t, 1, ccw)

	cw := Orient(Point{0, 0}, Point{0, 1}, Point{1, 0})
	require.Equal(t, -1, cw)

	collinear := Orient(Point{0, 0}, Point{1, 1}, Point{2, 2})
	require.Equal(t, 0, collinear)

	near := Orient(Point{0, 0}, Point{1e-30, 0}, Point{0, 1e-30})
	require.Equal(t, 1, near, "adaptive filter must fall back to exact arithmetic")
}

func TestInCircle(t *testing.T) {
	a := Point{0, 0}
	b := Point{1, 0}
	c := Point{0, 1}

	require.Equal(t, 1, InCircle(a, b, c, Point{0.25, 0.25}))
	require.Equal(t, -1, InCircle(a, b, c, Point{2, 2}))

	// The point (1,1) lies exactly on the circumcircle of the unit right
	// triangle (the hypotenuse's circle has radius sqrt(2)/2 centered at
	// (0.5, 0.5); (1,1) is that far away too).
	require.Equal(t, 0, InCircle(a, b, c, Point{1, 1}))
}

func TestCircumcenter(t *testing.T) {
	center, r2, ok := Circumcenter(Point{0, 0}, Point{2, 0}, Point{0, 2})
	require.True(t, ok)
	require.InDelta(t, 1.0, center.X, 1e-9)
	require.InDelta(t, 1.0, center.Y, 1e-9)
	require.InDelta(t, 2.0, r2, 1e-9)

	_, _, ok = Circumcenter(Point{0, 0}, Point{1, 1}, Point{2, 2})
	require.False(t, ok, "collinear points have no circumcenter")
}

func TestHalfPlane(t *testing.T) {
	left := HalfPlane(Point{0, 0}, Point{1, 0}, Point{0, 1})
	require.Greater(t, left, 0.0)

	right := HalfPlane(Point{0, 0}, Point{1, 0}, Point{0, -1})
	require.Less(t, right, 0.0)

	onLine := HalfPlane(Point{0, 0}, Point{1, 0}, Point{0.5, 0})
	require.InDelta(t, 0.0, onLine, 1e-12)
}

func TestThresholds(t *testing.T) {
	th := NewThresholds(0)
	require.Equal(t, DefaultNominalSpacing, th.NominalSpacing)

	th = NewThresholds(10)
	require.InDelta(t, 10*1e-6, th.VertexTolerance, 1e-12)
	require.InDelta(t, th.VertexTolerance*th.VertexTolerance, th.VertexToleranceSquared, 1e-18)

	th = th.WithVertexTolerance(0.5)
	require.Equal(t, 0.5, th.VertexTolerance)
	require.Equal(t, 0.25, th.VertexToleranceSquared)
}
