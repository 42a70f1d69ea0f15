// Package formatting renders this module's core domain values (points,
// vertex indices, half-edge IDs, bounding boxes) as concise debug strings,
// the same shape the original per-type stringer files used: one *String
// function and one Write* writer per type, rather than a single
// catch-all Stringer method.
package formatting

import (
	"fmt"
	"io"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// PointString returns a concise string representation of a point.
func PointString(p predicates.Point) string {
	return fmt.Sprintf("(%.6g, %.6g)", p.X, p.Y)
}

// WritePoint writes a verbose representation of a point to a writer.
func WritePoint(w io.Writer, p predicates.Point) error {
	_, err := fmt.Fprintf(w, "Point{X: %v, Y: %v}", p.X, p.Y)
	return err
}

// VertexIndexString renders a vertex index for debugging.
func VertexIndexString(idx vertex.Index) string {
	if idx == vertex.NullIndex {
		return "Vertex(null)"
	}
	return fmt.Sprintf("Vertex(%d)", idx)
}

// WriteVertexIndex writes a vertex index representation to a writer.
func WriteVertexIndex(w io.Writer, idx vertex.Index) error {
	_, err := io.WriteString(w, VertexIndexString(idx))
	return err
}

// EdgeIDString renders a half-edge ID, tagging whether it is the base or
// the dual side of its pair.
func EdgeIDString(e quadedge.EdgeID) string {
	side := "base"
	if e&1 != 0 {
		side = "dual"
	}
	return fmt.Sprintf("Edge(%d, %s)", e, side)
}

// WriteEdgeID writes a half-edge ID representation to a writer.
func WriteEdgeID(w io.Writer, e quadedge.EdgeID) error {
	_, err := io.WriteString(w, EdgeIDString(e))
	return err
}

// BoundsString returns a concise string for a running bounding box.
func BoundsString(b delaunay.Bounds) string {
	return fmt.Sprintf("[(%.6g, %.6g)-(%.6g, %.6g)]", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// WriteBounds writes a verbose representation of a bounding box to a writer.
func WriteBounds(w io.Writer, b delaunay.Bounds) error {
	_, err := fmt.Fprintf(w, "Bounds{Min: %v, Max: %v}",
		PointString(predicates.Point{X: b.MinX, Y: b.MinY}),
		PointString(predicates.Point{X: b.MaxX, Y: b.MaxY}))
	return err
}
