package predicates

import "math"

// Thresholds bundles the adaptive tolerances derived once from a mesh's
// nominal point spacing, so predicates and mesh logic can read them without
// recomputing per call. See spec §3 "derived thresholds" and §4.1.
type Thresholds struct {
	// NominalSpacing is the expected distance between neighboring input
	// vertices; it drives every other threshold below.
	NominalSpacing float64

	// VertexTolerance is the distance under which two vertices are
	// considered coincident (and merged, see vertex.KindMerger).
	VertexTolerance        float64
	VertexToleranceSquared float64

	// InCircleEps is a spacing-scaled margin for in-circle decisions.
	// InCircle does not read it; it derives its own adaptive error bound
	// before escalating to exact arithmetic.
	InCircleEps float64

	// HalfPlaneEps is the margin below which a point is considered to lie
	// on a line rather than strictly to one side of it.
	HalfPlaneEps float64

	// PrecisionEps is a spacing-scaled generic margin. Orient does not read
	// it; it derives its own adaptive error bound.
	PrecisionEps float64
}

// DefaultNominalSpacing is used when a mesh has not yet seen any vertices
// (thresholds must still exist before bootstrap).
const DefaultNominalSpacing = 1.0

// NewThresholds derives the full threshold bundle from a nominal spacing.
// A non-positive spacing is replaced with DefaultNominalSpacing.
func NewThresholds(nominalSpacing float64) Thresholds {
	if nominalSpacing <= 0 || math.IsNaN(nominalSpacing) || math.IsInf(nominalSpacing, 0) {
		nominalSpacing = DefaultNominalSpacing
	}

	vertexTol := nominalSpacing * 1e-6
	return Thresholds{
		NominalSpacing:         nominalSpacing,
		VertexTolerance:        vertexTol,
		VertexToleranceSquared: vertexTol * vertexTol,
		InCircleEps:            nominalSpacing * nominalSpacing * 1e-12,
		HalfPlaneEps:           nominalSpacing * 1e-9,
		PrecisionEps:           nominalSpacing * 1e-9,
	}
}

// WithVertexTolerance returns a copy with an explicit vertex-coincidence
// tolerance, overriding the spacing-derived default.
func (t Thresholds) WithVertexTolerance(tol float64) Thresholds {
	if tol < 0 {
		return t
	}
	t.VertexTolerance = tol
	t.VertexToleranceSquared = tol * tol
	return t
}
