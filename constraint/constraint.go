// Package constraint implements constraint integration (spec §4.7, C7):
// forcing polygon and linear constraints into an existing Delaunay
// triangulation, flood-filling region interiors, and Restore-Conformity.
package constraint

import (
	"errors"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// Kind distinguishes a closed polygon chain from an open linear chain.
type Kind uint8

const (
	KindPolygon Kind = 0
	KindLinear  Kind = 1
)

// MaxRegionConstraints and MaxLinearConstraints mirror the packed
// constraint word's index ranges (quadedge.MaxRegionIndex/MaxLineIndex).
const (
	MaxRegionConstraints = quadedge.MaxRegionIndex + 1
	MaxLinearConstraints = quadedge.MaxLineIndex + 1
)

// Point is a plane coordinate for constraint input, independent of any
// existing vertex -- the processor locates (and inserts if necessary) each
// one against the live mesh.
type Point struct {
	X, Y float64
	Z    float32
}

// Spec describes one constraint as supplied by the caller: a chain of
// points (closed for a polygon, open for a linear feature).
type Spec struct {
	Kind          Kind
	Points        []Point
	DefinesRegion bool // polygon only
	IsHole        bool // polygon only
}

var (
	ErrAlreadyLocked           = errors.New("constraint: add_constraints already ran on this mesh")
	ErrTooFewPoints            = errors.New("constraint: chain needs at least 2 points (3 for a polygon)")
	ErrTooManyRegions          = errors.New("constraint: exceeds the maximum number of region constraints")
	ErrTooManyLines            = errors.New("constraint: exceeds the maximum number of linear constraints")
	ErrDegenerateSegment       = errors.New("constraint: segment endpoints coincide")
	ErrSelfIntersectingPolygon = errors.New("constraint: polygon chain self-intersects")
	ErrForceEdgeGaveUp         = errors.New("constraint: edge-forcing did not converge")
	ErrRestoreRecursionDeep    = errors.New("constraint: restore-conformity hit its recursion limit")
)

// Result reports the bookkeeping a caller of AddConstraints may want to
// inspect (diagnostics, §9 supplemented feature tin.Diagnostics).
type Result struct {
	MaxFloodQueueSeen     int
	RestoreConformitySplits int
	Conformant            bool
}

// Processor threads the constraint-integration state (§4.7) through a
// single add_constraints call. It is not reusable across calls: the mesh
// locks itself once Run returns.
type Processor struct {
	tri             *delaunay.Triangulation
	regionCount     int
	lineCount       int
	recursionBudget int
}

// NewProcessor builds a processor bound to tri. recursionBudget overrides
// Restore-Conformity's recursion depth limit (spec default 32); pass 0 to
// use the default.
func NewProcessor(tri *delaunay.Triangulation, recursionBudget int) *Processor {
	if recursionBudget <= 0 {
		recursionBudget = 32
	}
	return &Processor{tri: tri, recursionBudget: recursionBudget}
}

// Run processes every constraint in list order (spec §4.7 steps 1-4) and,
// if restoreConformity is true, runs Restore-Conformity afterward. The
// mesh is locked against a second AddConstraints call regardless of
// outcome.
func (p *Processor) Run(list []Spec, restoreConformity bool) (Result, error) {
	if p.tri.Locked() {
		return Result{}, ErrAlreadyLocked
	}
	defer p.tri.LockForConstraints()

	processed := make([]processedConstraint, 0, len(list))
	for i, spec := range list {
		if err := p.validate(spec); err != nil {
			return Result{}, err
		}
		pc, err := p.integrate(i, spec)
		if err != nil {
			return Result{}, err
		}
		processed = append(processed, pc)
		p.tri.RecordConstraint(toRecord(pc))
	}

	for _, pc := range processed {
		if pc.spec.Kind == KindPolygon && pc.spec.DefinesRegion && !pc.spec.IsHole {
			n := p.floodFillRegion(pc)
			p.tri.NoteFloodQueueSize(n)
		}
	}

	result := Result{MaxFloodQueueSeen: p.tri.MaxFloodQueueSeen()}
	if restoreConformity {
		splits, conformant := p.restoreConformity()
		result.RestoreConformitySplits = splits
		result.Conformant = conformant
		p.tri.SetConformant(conformant)
	}
	return result, nil
}

func (p *Processor) validate(spec Spec) error {
	minPoints := 2
	if spec.Kind == KindPolygon {
		minPoints = 3
	}
	if len(spec.Points) < minPoints {
		return ErrTooFewPoints
	}
	if spec.Kind == KindPolygon && polygonSelfIntersects(spec.Points) {
		return ErrSelfIntersectingPolygon
	}
	if spec.Kind == KindPolygon && spec.DefinesRegion && !spec.IsHole {
		if p.regionCount+1 > MaxRegionConstraints {
			return ErrTooManyRegions
		}
		p.regionCount++
	}
	if spec.Kind == KindLinear {
		if p.lineCount+1 > MaxLinearConstraints {
			return ErrTooManyLines
		}
		p.lineCount++
	}
	return nil
}

// processedConstraint remembers the resolved vertex chain and border
// edges of one constraint, for the flood-fill pass that runs after every
// constraint has been forced.
type processedConstraint struct {
	spec       Spec
	index      int
	vertices   []vertex.Index
	borderEdge []quadedge.EdgeID // one forced edge per segment, origin->dest order
}

// integrate walks one constraint's chain, locating/forcing each segment in
// order (spec §4.7 step 2) and tagging it (step 2e).
func (p *Processor) integrate(index int, spec Spec) (processedConstraint, error) {
	pc := processedConstraint{spec: spec, index: index}
	pc.vertices = make([]vertex.Index, len(spec.Points))
	for i, pt := range spec.Points {
		idx, _, _, err := p.tri.AddAndReturnEdge(pt.X, pt.Y, pt.Z)
		if err != nil {
			return pc, err
		}
		pc.vertices[i] = idx
	}

	segments := segmentPairs(pc.vertices, spec.Kind == KindPolygon)
	pc.borderEdge = make([]quadedge.EdgeID, len(segments))
	for i, seg := range segments {
		e, err := p.forceSegment(seg.from, seg.to)
		if err != nil {
			return pc, err
		}
		p.tagSegment(e, spec, index)
		pc.borderEdge[i] = e
	}
	return pc, nil
}

type segment struct{ from, to vertex.Index }

func segmentPairs(chain []vertex.Index, closed bool) []segment {
	out := make([]segment, 0, len(chain))
	for i := 0; i+1 < len(chain); i++ {
		if chain[i] == chain[i+1] {
			continue
		}
		out = append(out, segment{chain[i], chain[i+1]})
	}
	if closed && len(chain) > 1 && chain[0] != chain[len(chain)-1] {
		out = append(out, segment{chain[len(chain)-1], chain[0]})
	}
	return out
}

// toRecord summarizes a processed constraint for the mesh's persisted
// constraint table (spec §4.9 item 4, §6 "Constraint objects"). The first
// forced segment's edge stands in for "the" linking edge; a constraint
// with no segments (a chain whose points all merged into one vertex) gets
// NilEdge.
func toRecord(pc processedConstraint) delaunay.ConstraintRecord {
	link := quadedge.NilEdge
	if len(pc.borderEdge) > 0 {
		link = pc.borderEdge[0]
	}
	return delaunay.ConstraintRecord{
		Kind:          byte(pc.spec.Kind),
		Index:         pc.index,
		DefinesRegion: pc.spec.DefinesRegion,
		IsHole:        pc.spec.IsHole,
		Vertices:      append([]vertex.Index(nil), pc.vertices...),
		LinkEdge:      link,
	}
}

// tagSegment marks a forced edge pq with the constraint's flags/index
// (spec §4.7 step 2e): line-member for a linear constraint, region-border
// for any polygon, whether or not it defines a region (hole or solid --
// both mark their border).
func (p *Processor) tagSegment(e quadedge.EdgeID, spec Spec, index int) {
	pool := p.tri.Pool
	switch spec.Kind {
	case KindLinear:
		pool.SetLineMember(e, index)
	case KindPolygon:
		pool.SetRegionBorder(e, index)
	}
}
