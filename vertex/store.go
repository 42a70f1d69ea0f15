package vertex

// Store is the mesh's vertex-object table: an append-only slice indexed by
// Index, plus the shared null-vertex sentinel at NullIndex. It owns no
// geometric decision-making (coincidence detection, merging policy) -- that
// lives in the delaunay package, which has access to the mesh's thresholds.
type Store struct {
	objects []Object
}

// NewStore creates an empty vertex table.
func NewStore() *Store {
	return &Store{}
}

// Add appends a new vertex object, assigning it the next Index, and returns
// that index.
func (s *Store) Add(o Object) Index {
	idx := Index(len(s.objects))
	o.Index = idx
	s.objects = append(s.objects, o)
	return idx
}

// Get returns the object at idx, or the null sentinel if idx is NullIndex.
func (s *Store) Get(idx Index) Object {
	if idx == NullIndex {
		return Null()
	}
	return s.objects[idx]
}

// Set overwrites the object at idx (used when a plain vertex is promoted to
// a merger group in place, or a merger group gains a member).
func (s *Store) Set(idx Index, o Object) {
	o.Index = idx
	s.objects[idx] = o
}

// Len returns the number of objects in the table, null entries included.
func (s *Store) Len() int { return len(s.objects) }

// Z resolves idx's elevation, recursing through merger groups. It satisfies
// ElevationSource.
func (s *Store) Z(idx Index) float64 {
	if idx == NullIndex {
		return 0
	}
	return s.objects[idx].Elevation(s.Z)
}

// Each calls fn for every object in allocation order.
func (s *Store) Each(fn func(Index, Object)) {
	for i, o := range s.objects {
		fn(Index(i), o)
	}
}
