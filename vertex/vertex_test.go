package vertex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNullVertex(t *testing.T) {
	n := Null()
	require.True(t, n.IsNull())
	require.Equal(t, NullIndex, n.Index)
}

func TestPlainElevation(t *testing.T) {
	v := New(1, 2, 3.5, 0)
	require.False(t, v.IsNull())
	require.Equal(t, float64(3.5), v.Elevation(nil))
}

func TestMergerGroupResolution(t *testing.T) {
	store := NewStore()
	a := store.Add(New(0, 0, 1.0, 0))
	b := store.Add(New(0, 0, 3.0, 0))
	c := store.Add(New(0, 0, 5.0, 0))

	min := NewMerger(0, 0, 0, ResolutionMin, []Index{a, b, c})
	require.Equal(t, 1.0, min.Elevation(store.Z))

	mean := NewMerger(0, 0, 0, ResolutionMean, []Index{a, b, c})
	require.InDelta(t, 3.0, mean.Elevation(store.Z), 1e-9)

	max := NewMerger(0, 0, 0, ResolutionMax, []Index{a, b, c})
	require.Equal(t, 5.0, max.Elevation(store.Z))
}

func TestStoreAddGet(t *testing.T) {
	s := NewStore()
	idx := s.Add(New(1, 1, 0, 0))
	require.Equal(t, Index(0), idx)
	require.Equal(t, 1, s.Len())

	got := s.Get(idx)
	require.Equal(t, 1.0, got.X)

	null := s.Get(NullIndex)
	require.True(t, null.IsNull())
}

func TestStatusFlags(t *testing.T) {
	var st Status
	st |= StatusSynthetic
	require.True(t, st.Has(StatusSynthetic))
	require.False(t, st.Has(StatusConstraintMember))

	st |= StatusConstraintMember
	require.True(t, st.Has(StatusConstraintMember))
}
