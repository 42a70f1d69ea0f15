// Package serialize implements the binary "TINS" mesh file format (spec
// §4.9, C9): an 8-byte header followed by an optionally gzip-compressed
// payload holding the TIN-state record, the vertex-object table, the edge
// table, and the constraint table, in that order.
package serialize

// magic is the format's stable identifier, written/read as a single
// little-endian uint32 (spec: "magic = ASCII \"TINS\" (0x54494E53),
// little-endian throughout" -- taken literally as a 32-bit integer value
// rather than four independently-ordered ASCII bytes).
const magic uint32 = 0x54494E53

const formatVersion uint16 = 1

const (
	flagGzip uint16 = 1 << 0
)

const (
	headerSize = 8

	// stateRecordSize is the sum of the TIN-state record's enumerated
	// fields (4 bounds doubles + 1 spacing double + 3 i32 counters + 1
	// flag byte + 3 reserved bytes = 56). Spec §4.9 labels this record
	// "48 bytes", which undercounts its own field list by 8 bytes; this
	// implementation follows the enumerated fields (see DESIGN.md).
	stateRecordSize = 4*8 + 8 + 4 + 4 + 4 + 1 + 3

	vertexKindNull   = 0
	vertexKindPlain  = 1
	vertexKindMerger = 2

	// plainVertexPayloadSize is Kind 1's payload after its kind byte: x,
	// y (f64 each), z (f32), index (i32), status (u8), auxiliary (u8).
	plainVertexPayloadSize = 8 + 8 + 4 + 4 + 1 + 1

	// mergerVertexFixedSize is Kind 2's fixed payload before its
	// variable-length member list: x, y (f64 each), index (i32), flags
	// (u8), resolution (u8), 2 reserved bytes, member count (i32).
	mergerVertexFixedSize = 8 + 8 + 4 + 1 + 1 + 2 + 4

	// edgeRecordSize: base index, a-vertex, b-vertex (i32 each), 4 full
	// edge indices (i32 each), packed constraint word (i32).
	edgeRecordSize = 4 + 4 + 4 + 4*4 + 4

	// constraintRecordFixedSize: type byte, flag byte, 2 reserved bytes,
	// constraint index (i32), vertex count (i32), then that many i32
	// vertex ids, then the linking-edge base index (i32).
	constraintRecordFixedSize = 1 + 1 + 2 + 4 + 4

	stateFlagLocked                 = 1 << 0
	stateFlagLockedDueToConstraints = 1 << 1
	stateFlagConformant             = 1 << 2
	stateFlagHasBounds              = 1 << 3

	constraintFlagDefinesRegion = 1 << 0
	constraintFlagIsHole        = 1 << 1
)
