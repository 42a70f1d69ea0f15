package tin

import (
	"math"

	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/vertex"
)

// hashGrid is a uniform spatial hash over inserted vertex positions,
// accelerating GetNearestVertex beyond a full table scan. Adapted from
// spatial.HashGrid (spatial/hashgrid.go), retargeted from
// types.VertexID/types.Point onto this module's own vertex.Index/
// predicates.Point.
type hashGrid struct {
	cellSize float64
	cells    map[[2]int][]vertex.Index
}

func newHashGrid(cellSize float64) *hashGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &hashGrid{cellSize: cellSize, cells: make(map[[2]int][]vertex.Index)}
}

func (h *hashGrid) cellOf(p predicates.Point) [2]int {
	return [2]int{
		int(math.Floor(p.X / h.cellSize)),
		int(math.Floor(p.Y / h.cellSize)),
	}
}

func (h *hashGrid) add(idx vertex.Index, p predicates.Point) {
	cell := h.cellOf(p)
	h.cells[cell] = append(h.cells[cell], idx)
}

// near returns every indexed vertex whose cell overlaps the axis-aligned
// square of the given radius around p. It over-reports (callers must still
// measure exact distance) but never misses a vertex truly within radius.
func (h *hashGrid) near(p predicates.Point, radius float64) []vertex.Index {
	if radius <= 0 {
		return append([]vertex.Index(nil), h.cells[h.cellOf(p)]...)
	}
	min := h.cellOf(predicates.Point{X: p.X - radius, Y: p.Y - radius})
	max := h.cellOf(predicates.Point{X: p.X + radius, Y: p.Y + radius})

	var out []vertex.Index
	for cy := min[1]; cy <= max[1]; cy++ {
		for cx := min[0]; cx <= max[0]; cx++ {
			out = append(out, h.cells[[2]int{cx, cy}]...)
		}
	}
	return out
}
