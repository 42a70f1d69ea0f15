package serialize

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/predicates"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// Read decodes a TINS file from r into a fresh Triangulation, following
// the reader reconstruction procedure of spec §4.9.
func Read(r io.Reader) (*delaunay.Triangulation, error) {
	var hmagic uint32
	var hversion, hflags uint16
	if err := binary.Read(r, binary.LittleEndian, &hmagic); err != nil {
		return nil, newFormatError("header", "truncated magic")
	}
	if hmagic != magic {
		return nil, newFormatError("header", "bad magic")
	}
	if err := binary.Read(r, binary.LittleEndian, &hversion); err != nil {
		return nil, newFormatError("header", "truncated version")
	}
	if hversion != formatVersion {
		return nil, newFormatError("header", "unknown version")
	}
	if err := binary.Read(r, binary.LittleEndian, &hflags); err != nil {
		return nil, newFormatError("header", "truncated flags")
	}

	body := io.Reader(r)
	if hflags&flagGzip != 0 {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, newFormatError("payload", "gzip decode failure: "+err.Error())
		}
		defer zr.Close()
		body = zr
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, newFormatError("payload", "truncated payload")
	}
	payload := bytes.NewReader(buf.Bytes())

	spacing, state, err := readState(payload)
	if err != nil {
		return nil, err
	}

	tri := delaunay.New(predicates.NewThresholds(spacing), 1)

	if err := readVertices(payload, tri); err != nil {
		return nil, err
	}
	maxBase, edges, err := readEdgeRecords(payload)
	if err != nil {
		return nil, err
	}
	if err := applyEdges(tri, maxBase, edges); err != nil {
		return nil, err
	}
	records, err := readConstraints(payload, tri)
	if err != nil {
		return nil, err
	}
	tri.SetConstraintRecords(records)

	tri.Pool.RebuildLineIndex()
	tri.RestoreState(state.bounds, state.hasBounds, state.synthetic, state.maxFlood,
		state.searchEdge, state.locked, state.lockedDueToConstraints, state.conformant, true)
	return tri, nil
}

type stateRecord struct {
	bounds                  delaunay.Bounds
	hasBounds               bool
	synthetic               int
	maxFlood                int
	searchEdge              quadedge.EdgeID
	locked                  bool
	lockedDueToConstraints  bool
	conformant              bool
}

func readState(r io.Reader) (float64, stateRecord, error) {
	var b delaunay.Bounds
	var spacing float64
	for _, f := range []*float64{&b.MinX, &b.MaxX, &b.MinY, &b.MaxY, &spacing} {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return 0, stateRecord{}, newFormatError("state", "truncated bounds/spacing")
		}
	}
	var synthetic, searchEdge, maxFlood int32
	for _, v := range []*int32{&synthetic, &searchEdge, &maxFlood} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return 0, stateRecord{}, newFormatError("state", "truncated counters")
		}
	}
	var flag byte
	if err := binary.Read(r, binary.LittleEndian, &flag); err != nil {
		return 0, stateRecord{}, newFormatError("state", "truncated flag byte")
	}
	reserved := make([]byte, 3)
	if _, err := io.ReadFull(r, reserved); err != nil {
		return 0, stateRecord{}, newFormatError("state", "truncated reserved bytes")
	}

	se := quadedge.EdgeID(searchEdge)
	hasBounds := flag&stateFlagHasBounds != 0
	return spacing, stateRecord{
		bounds:                 b,
		hasBounds:              hasBounds,
		synthetic:              int(synthetic),
		maxFlood:               int(maxFlood),
		searchEdge:             se,
		locked:                 flag&stateFlagLocked != 0,
		lockedDueToConstraints: flag&stateFlagLockedDueToConstraints != 0,
		conformant:             flag&stateFlagConformant != 0,
	}, nil
}

func readVertices(r io.Reader, tri *delaunay.Triangulation) error {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return newFormatError("vertices", "truncated count")
	}
	for i := int32(0); i < count; i++ {
		var kind byte
		if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
			return newFormatError("vertices", "truncated kind byte")
		}
		switch kind {
		case vertexKindNull:
			tri.Verts.Add(vertex.Null())
		case vertexKindPlain:
			var x, y float64
			var z float32
			var idx int32
			var status, aux byte
			if err := readAll(r, &x, &y, &z, &idx, &status, &aux); err != nil {
				return newFormatError("vertices", "truncated plain vertex")
			}
			o := vertex.New(x, y, z, 0)
			o.Status = vertex.Status(status)
			o.Aux = aux
			tri.Verts.Add(o)
		case vertexKindMerger:
			var x, y float64
			var idx int32
			var status, resolution byte
			if err := readAll(r, &x, &y, &idx, &status, &resolution); err != nil {
				return newFormatError("vertices", "truncated merger header")
			}
			reserved := make([]byte, 2)
			if _, err := io.ReadFull(r, reserved); err != nil {
				return newFormatError("vertices", "truncated merger reserved bytes")
			}
			var memberCount int32
			if err := binary.Read(r, binary.LittleEndian, &memberCount); err != nil {
				return newFormatError("vertices", "truncated member count")
			}
			members := make([]vertex.Index, memberCount)
			for m := range members {
				var mv int32
				if err := binary.Read(r, binary.LittleEndian, &mv); err != nil {
					return newFormatError("vertices", "truncated member id")
				}
				members[m] = vertex.Index(mv)
			}
			o := vertex.NewMerger(x, y, 0, vertex.Resolution(resolution), members)
			o.Status = vertex.Status(status)
			tri.Verts.Add(o)
		default:
			return newFormatError("vertices", "unknown vertex kind")
		}
	}
	return nil
}

type edgeRecord struct {
	base       quadedge.EdgeID
	a, b       vertex.Index
	f0, r0     quadedge.EdgeID
	f1, r1     quadedge.EdgeID
	meta       uint32
}

func readEdgeRecords(r io.Reader) (quadedge.EdgeID, []edgeRecord, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return 0, nil, newFormatError("edges", "truncated count")
	}
	out := make([]edgeRecord, count)
	maxBase := quadedge.EdgeID(-1)
	for i := int32(0); i < count; i++ {
		var base, a, b, f0, r0, f1, r1 int32
		var meta uint32
		if err := readAll(r, &base, &a, &b, &f0, &r0, &f1, &r1, &meta); err != nil {
			return 0, nil, newFormatError("edges", "truncated edge record")
		}
		er := edgeRecord{
			base: quadedge.EdgeID(base),
			a:    vertex.Index(a), b: vertex.Index(b),
			f0: quadedge.EdgeID(f0), r0: quadedge.EdgeID(r0),
			f1: quadedge.EdgeID(f1), r1: quadedge.EdgeID(r1),
			meta: meta,
		}
		out[i] = er
		if er.base > maxBase {
			maxBase = er.base
		}
	}
	return maxBase, out, nil
}

// applyEdges runs the two-pass reconstruction of spec §4.9 reader step 6.
func applyEdges(tri *delaunay.Triangulation, maxBase quadedge.EdgeID, edges []edgeRecord) error {
	pool := tri.Pool
	if maxBase >= 0 {
		// Spec §4.9 reader step 5: size the pool ahead of the maximum
		// base index seen, one pair per two slots.
		pool.PreAllocate(int(maxBase)/2 + 1)
	}
	for _, er := range edges {
		if er.base < 0 || er.base&1 != 0 {
			return newFormatError("edges", "base index out of range")
		}
		pool.AllocatePairAt(er.base)
		partner := pool.Partner(er.base)
		pool.SetOrigin(er.base, er.a)
		pool.SetOrigin(partner, er.b)
		pool.SetRawMeta(er.base, er.meta)
	}
	for _, er := range edges {
		partner := pool.Partner(er.base)
		if !validEdgeIndex(pool, er.f0) || !validEdgeIndex(pool, er.r0) ||
			!validEdgeIndex(pool, er.f1) || !validEdgeIndex(pool, er.r1) {
			return newFormatError("edges", "edge-link index out of range")
		}
		pool.SetF(er.base, er.f0)
		pool.SetR(er.base, er.r0)
		pool.SetF(partner, er.f1)
		pool.SetR(partner, er.r1)
	}
	return nil
}

func validEdgeIndex(pool *quadedge.Pool, e quadedge.EdgeID) bool {
	return e == quadedge.NilEdge || pool.IsLive(e&^1)
}

func readConstraints(r io.Reader, tri *delaunay.Triangulation) ([]delaunay.ConstraintRecord, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, newFormatError("constraints", "truncated count")
	}
	out := make([]delaunay.ConstraintRecord, count)
	for i := int32(0); i < count; i++ {
		var kind, flag byte
		if err := readAll(r, &kind, &flag); err != nil {
			return nil, newFormatError("constraints", "truncated kind/flag")
		}
		reserved := make([]byte, 2)
		if _, err := io.ReadFull(r, reserved); err != nil {
			return nil, newFormatError("constraints", "truncated reserved bytes")
		}
		var idx, vcount int32
		if err := readAll(r, &idx, &vcount); err != nil {
			return nil, newFormatError("constraints", "truncated index/count")
		}
		verts := make([]vertex.Index, vcount)
		for v := range verts {
			var vid int32
			if err := binary.Read(r, binary.LittleEndian, &vid); err != nil {
				return nil, newFormatError("constraints", "truncated vertex id")
			}
			if int(vid) >= tri.Verts.Len() && vid >= 0 {
				return nil, newFormatError("constraints", "vertex-object id out of range")
			}
			verts[v] = vertex.Index(vid)
		}
		var link int32
		if err := binary.Read(r, binary.LittleEndian, &link); err != nil {
			return nil, newFormatError("constraints", "truncated link edge")
		}
		linkEdge := quadedge.NilEdge
		if link >= 0 {
			linkEdge = quadedge.EdgeID(link)
		}
		out[i] = delaunay.ConstraintRecord{
			Kind:          kind,
			Index:         int(idx),
			DefinesRegion: flag&constraintFlagDefinesRegion != 0,
			IsHole:        flag&constraintFlagIsHole != 0,
			Vertices:      verts,
			LinkEdge:      linkEdge,
		}
	}
	return out, nil
}

func readAll(r io.Reader, dests ...interface{}) error {
	for _, d := range dests {
		if err := binary.Read(r, binary.LittleEndian, d); err != nil {
			return err
		}
	}
	return nil
}
