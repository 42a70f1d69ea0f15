package tin

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/formatting"
)

// Diagnostics aggregates the counters spec §7 says must be exposed rather
// than swallowed: synthetic-vertex count, flood-fill queue high-water
// mark, refinement iteration/abandonment counts, and the number of
// Restore-Conformity splits performed. Mirrors cdt.Diagnostics / cdt.GetDiagnostics
// (cdt/builder.go), widened with this engine's own counters.
type Diagnostics struct {
	VertexCount             int
	SyntheticVertexCount    int
	MaxFloodQueueDepth      int
	RestoreConformitySplits int
	RefinementIterations    int
	AbandonedTriangles      int
	Conformant              bool
	Bounds                  delaunay.Bounds
	HasBounds               bool
}

// Diagnostics snapshots the mesh's current counters.
func (m *Mesh) Diagnostics() Diagnostics {
	d := m.diag
	d.VertexCount = m.tri.Verts.Len()
	d.SyntheticVertexCount = m.tri.SyntheticCount()
	d.Conformant = m.tri.Conformant()
	d.Bounds, d.HasBounds = m.tri.Bounds()
	return d
}

// Report renders d as a table, grounded on sarchlab-zeonica's
// core.PrintState use of go-pretty's table.Writer (core/util.go).
// Diagnostics are surfaced through this explicit call only -- never
// printed unprompted (spec §7 "never printed to process stdout").
func (d Diagnostics) Report(w io.Writer) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Mesh Diagnostics")
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Vertices", d.VertexCount})
	t.AppendRow(table.Row{"Synthetic vertices", d.SyntheticVertexCount})
	t.AppendRow(table.Row{"Max flood-fill queue depth", d.MaxFloodQueueDepth})
	t.AppendRow(table.Row{"Restore-Conformity splits", d.RestoreConformitySplits})
	t.AppendRow(table.Row{"Refinement iterations", d.RefinementIterations})
	t.AppendRow(table.Row{"Abandoned triangles", d.AbandonedTriangles})
	t.AppendRow(table.Row{"Conformant", d.Conformant})
	bounds := "n/a"
	if d.HasBounds {
		bounds = formatting.BoundsString(d.Bounds)
	}
	t.AppendRow(table.Row{"Bounds", bounds})
	t.Render()
	return nil
}
