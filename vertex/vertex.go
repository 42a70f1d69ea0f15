// Package vertex implements the triangulation engine's vertex model: plain
// vertices, the null-vertex sentinel shared by every ghost triangle, and
// vertex merger groups for near-coincident input. See spec §3 "Vertex" and
// §4.2.
package vertex

// Index is a stable integer index into a mesh's vertex-object table.
//
// Index values are assigned on insertion and never reused or reordered
// while the owning mesh is alive (deallocated slots are not recycled into
// different vertices -- only the quad-edge pool recycles edge slots).
type Index int32

// NullIndex is the reserved index of the null-vertex sentinel, the "point
// at infinity" every ghost triangle shares as one vertex. See spec I4.
const NullIndex Index = -1

// Status is a bitfield of per-vertex flags.
type Status uint8

const (
	// StatusSynthetic marks a vertex introduced by the engine itself
	// (a Steiner point from refinement, or a split midpoint) rather than
	// supplied by the caller.
	StatusSynthetic Status = 1 << iota

	// StatusConstraintMember marks a vertex that is an endpoint of at
	// least one linear or polygon constraint.
	StatusConstraintMember

	// StatusWithheld marks a vertex whose elevation should be withheld
	// from elevation-dependent consumers (interpolators) -- e.g. a
	// placeholder inserted before its true elevation is known.
	StatusWithheld
)

// Has reports whether all bits of flag are set.
func (s Status) Has(flag Status) bool { return s&flag == flag }

// Resolution names how a merger group derives a single elevation from its
// coincident member vertices.
type Resolution uint8

const (
	ResolutionMin Resolution = iota
	ResolutionMean
	ResolutionMax
)

// Kind tags which variant an Object holds. It is also the wire-format
// discriminant used by the serializer (spec §4.9 vertex-object table).
type Kind uint8

const (
	KindNull   Kind = 0
	KindPlain  Kind = 1
	KindMerger Kind = 2
)

// Object is a vertex-object record: a tagged union of the null sentinel, an
// ordinary vertex, or a merger group. A single concrete type is used
// (rather than an interface) so the quad-edge pool and serializer can store
// and round-trip these by value without boxing, matching spec §4.9's fixed
// per-kind binary layouts.
type Object struct {
	Kind   Kind
	Index  Index
	X, Y   float64
	Z      float32 // meaningful for KindPlain only
	Status Status
	Aux    uint8 // reserved per-vertex byte (spec §4.9 kind-1 "auxiliary")

	// Resolution and Members are meaningful for KindMerger only.
	Resolution Resolution
	Members    []Index
}

// Null constructs the null-vertex sentinel.
func Null() Object {
	return Object{Kind: KindNull, Index: NullIndex}
}

// New constructs an ordinary vertex.
func New(x, y float64, z float32, index Index) Object {
	return Object{Kind: KindPlain, Index: index, X: x, Y: y, Z: z}
}

// NewMerger constructs a merger group representing the given member
// vertices, located at (x, y), with the stated elevation-resolution rule.
func NewMerger(x, y float64, index Index, resolution Resolution, members []Index) Object {
	return Object{
		Kind:       KindMerger,
		Index:      index,
		X:          x,
		Y:          y,
		Resolution: resolution,
		Members:    append([]Index(nil), members...),
	}
}

// IsNull reports whether this object is the point-at-infinity sentinel.
func (o Object) IsNull() bool { return o.Kind == KindNull }

// Pos returns the object's horizontal coordinates. Calling this on the
// null vertex returns (0,0); callers must guard with IsNull first, exactly
// as the quad-edge ghost-triangle machinery does.
func (o Object) Pos() (x, y float64) { return o.X, o.Y }

// DistanceSquared returns the squared Euclidean distance from o to p.
func (o Object) DistanceSquared(px, py float64) float64 {
	dx := o.X - px
	dy := o.Y - py
	return dx*dx + dy*dy
}

// ElevationSource resolves a vertex object's elevation on demand. The
// default implementation (Store.Z) returns the object's own stored
// Z (or a merger group's resolved Z); callers may substitute an
// ElevationSource to interpolate over auxiliary per-point attributes
// instead (spec §6 "Vertex-value reader").
type ElevationSource interface {
	Z(idx Index) float64
}

// Elevation resolves this object's elevation. For a merger group it applies
// the configured Resolution rule over the member elevations obtained via
// lookup; for a plain vertex it returns its own stored Z widened to
// float64; the null vertex has no elevation and returns 0.
func (o Object) Elevation(lookup func(Index) float64) float64 {
	switch o.Kind {
	case KindPlain:
		return float64(o.Z)
	case KindMerger:
		if len(o.Members) == 0 {
			return 0
		}
		result := lookup(o.Members[0])
		for _, m := range o.Members[1:] {
			z := lookup(m)
			switch o.Resolution {
			case ResolutionMin:
				if z < result {
					result = z
				}
			case ResolutionMax:
				if z > result {
					result = z
				}
			case ResolutionMean:
				result += z
			}
		}
		if o.Resolution == ResolutionMean {
			result /= float64(len(o.Members))
		}
		return result
	default:
		return 0
	}
}

// AddMember extends a merger group with another coincident vertex. It is a
// no-op (besides appending) on any other Kind, since only merger groups
// track members -- callers are expected to have already classified the
// site as a merger group before calling this.
func (o *Object) AddMember(idx Index) {
	o.Members = append(o.Members, idx)
}
