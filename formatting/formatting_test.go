package formatting

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

func TestFormattingHelpers(t *testing.T) {
	p := predicates.Point{X: 1.5, Y: -2.25}
	require.Equal(t, "(1.5, -2.25)", PointString(p))

	require.Equal(t, "Vertex(null)", VertexIndexString(vertex.NullIndex))
	require.Equal(t, "Vertex(3)", VertexIndexString(vertex.Index(3)))

	require.Equal(t, "Edge(4, base)", EdgeIDString(quadedge.EdgeID(4)))
	require.Equal(t, "Edge(5, dual)", EdgeIDString(quadedge.EdgeID(5)))

	b := delaunay.Bounds{MinX: 0, MinY: 0, MaxX: 10, MaxY: 20}
	require.Equal(t, "[(0, 0)-(10, 20)]", BoundsString(b))

	var buf bytes.Buffer
	require.NoError(t, WritePoint(&buf, p))
	require.Equal(t, "Point{X: 1.5, Y: -2.25}", buf.String())
}
