package quadedge

// The packed constraint word (spec §3 "Constraint word", §4.5 C3) lives on
// the partner (odd) half-edge of each pair. Layout, high bit first:
//
//	bit 31        is_constrained  (any constraint role at all)
//	bit 30        region_border
//	bit 29        region_interior
//	bit 28        line_member
//	bit 27        synthetic       (introduced by refinement, not input)
//	bits 26..15   line index + 1  (12 bits, 0 = unset)
//	bits 14..0    region index + 1 (15 bits, 0 = unset; shared by border/interior)
const (
	bitConstrained uint32 = 1 << 31
	bitBorder      uint32 = 1 << 30
	bitInterior    uint32 = 1 << 29
	bitLineMember  uint32 = 1 << 28
	bitSynthetic   uint32 = 1 << 27

	lineShift = 15
	lineBits  = 12
	lineMask  = uint32(1<<lineBits-1) << lineShift

	regionBits = 15
	regionMask = uint32(1<<regionBits - 1)
)

// MaxRegionIndex and MaxLineIndex are the largest indices the packed word
// can represent (field value 0 is reserved to mean "unset").
const (
	MaxRegionIndex = 1<<regionBits - 2
	MaxLineIndex   = 1<<lineBits - 2
)

func packField(meta uint32, mask uint32, shift uint, idx int) uint32 {
	return (meta &^ mask) | ((uint32(idx+1) << shift) & mask)
}

func unpackField(meta uint32, mask uint32, shift uint) (int, bool) {
	v := (meta & mask) >> shift
	if v == 0 {
		return 0, false
	}
	return int(v - 1), true
}

// IsConstrained reports whether e's geometric edge is a genuine constraint
// (a forced linear-constraint or polygon-border segment), and is therefore
// immune to Flip (spec §4.4 "Fails if e.is_constrained()").
func (p *Pool) IsConstrained(e EdgeID) bool {
	return p.at(p.Partner(e)).meta&bitConstrained != 0
}

// SetConstrained sets or clears e's is_constrained bit directly, independent
// of region/line role. Forcing a constraint edge (constraint package) calls
// this; flood-fill region classification does not.
func (p *Pool) SetConstrained(e EdgeID, v bool) {
	m := p.Partner(e)
	if v {
		p.at(m).meta |= bitConstrained
	} else {
		p.at(m).meta &^= bitConstrained
	}
}

// IsSynthetic reports whether e was introduced by refinement rather than
// supplied as input.
func (p *Pool) IsSynthetic(e EdgeID) bool {
	return p.at(p.Partner(e)).meta&bitSynthetic != 0
}

// SetSynthetic marks e as refinement-introduced.
func (p *Pool) SetSynthetic(e EdgeID, v bool) {
	m := p.Partner(e)
	if v {
		p.at(m).meta |= bitSynthetic
	} else {
		p.at(m).meta &^= bitSynthetic
	}
}

// IsRegionBorder reports whether e is a polygon-border constraint edge.
func (p *Pool) IsRegionBorder(e EdgeID) bool {
	return p.at(p.Partner(e)).meta&bitBorder != 0
}

// IsRegionInterior reports whether e was last crossed by region flood-fill
// as an ordinary (non-border) interior edge. This bit is advisory: a flip
// of a non-constrained edge retains whatever region bits it carried (spec
// "a flipped edge retains its constraint region flags"), so it can go
// stale until the next flood-fill sweep.
func (p *Pool) IsRegionInterior(e EdgeID) bool {
	return p.at(p.Partner(e)).meta&bitInterior != 0
}

// RegionIndex returns the region index carried by e's border/interior role,
// if any.
func (p *Pool) RegionIndex(e EdgeID) (int, bool) {
	return unpackField(p.at(p.Partner(e)).meta, regionMask, 0)
}

// SetRegionBorder marks e as a polygon-border constraint for region idx.
// Border edges are always constrained. Per I8, a border classification is
// permanent from this call's perspective -- SetRegionInterior on the same
// edge becomes a no-op until ClearRegion is called.
func (p *Pool) SetRegionBorder(e EdgeID, idx int) {
	m := p.Partner(e)
	h := &p.at(m).meta
	*h = packField(*h, regionMask, 0, idx)
	*h |= bitBorder | bitConstrained
	*h &^= bitInterior
}

// SetRegionInterior marks e as crossed-into-region-idx by flood fill. A
// no-op if e is already a region border (I8).
func (p *Pool) SetRegionInterior(e EdgeID, idx int) {
	if p.IsRegionBorder(e) {
		return
	}
	m := p.Partner(e)
	h := &p.at(m).meta
	*h = packField(*h, regionMask, 0, idx)
	*h |= bitInterior
}

// ClearRegion removes any border/interior classification from e, leaving
// is_constrained untouched.
func (p *Pool) ClearRegion(e EdgeID) {
	m := p.Partner(e)
	h := &p.at(m).meta
	*h &^= bitBorder | bitInterior | regionMask
}

// IsLineMember reports whether e belongs to a linear (open, non-polygon)
// constraint chain.
func (p *Pool) IsLineMember(e EdgeID) bool {
	return p.at(p.Partner(e)).meta&bitLineMember != 0
}

// LineIndex returns the linear-constraint index carried by e, if any.
func (p *Pool) LineIndex(e EdgeID) (int, bool) {
	return unpackField(p.at(p.Partner(e)).meta, lineMask, lineShift)
}

// SetLineMember marks e as belonging to linear constraint idx. Line
// members are always constrained.
func (p *Pool) SetLineMember(e EdgeID, idx int) {
	m := p.Partner(e)
	h := &p.at(m).meta
	*h = packField(*h, lineMask, lineShift, idx)
	*h |= bitLineMember | bitConstrained
}

// RawMeta returns e's partner's packed constraint word exactly as stored,
// bit for bit. Used by the serialization writer, which must round-trip
// this word without going through the individual bit accessors (spec
// §4.9 "The format must bit-exactly round-trip the packed partner
// constraint word").
func (p *Pool) RawMeta(e EdgeID) uint32 {
	return p.at(p.Partner(e)).meta
}

// SetRawMeta writes e's partner's packed constraint word exactly as given,
// bypassing the individual Set* accessors. Used by the serialization
// reader to restore a bit-exact copy of what RawMeta produced.
func (p *Pool) SetRawMeta(e EdgeID, meta uint32) {
	p.at(p.Partner(e)).meta = meta
}

// RebuildLineIndex repopulates the edge-index -> linear-constraint-index
// accelerator map by scanning every live edge for the line-member bit
// (spec §4.9 reader step 8, run once after the edge table has been fully
// read back).
func (p *Pool) RebuildLineIndex() {
	p.lineIndex = make(map[EdgeID]int)
	p.LivePairs(func(base EdgeID) {
		for _, e := range [2]EdgeID{base, p.Partner(base)} {
			if idx, ok := p.LineIndex(e); ok {
				p.lineIndex[base] = idx
			}
		}
	})
}
