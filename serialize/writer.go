package serialize

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"

	"github.com/iceisfun/tinmesh/delaunay"
	"github.com/iceisfun/tinmesh/quadedge"
	"github.com/iceisfun/tinmesh/vertex"
)

// Write encodes tri to w in the TINS format (spec §4.9). Passing
// compress=true gzips the payload and sets the header's compression flag.
func Write(w io.Writer, tri *delaunay.Triangulation, compress bool) error {
	var payload bytes.Buffer
	if err := writeState(&payload, tri); err != nil {
		return err
	}
	if err := writeVertices(&payload, tri); err != nil {
		return err
	}
	if err := writeEdges(&payload, tri); err != nil {
		return err
	}
	if err := writeConstraints(&payload, tri); err != nil {
		return err
	}

	flags := uint16(0)
	body := payload.Bytes()
	if compress {
		flags |= flagGzip
		var gz bytes.Buffer
		zw := gzip.NewWriter(&gz)
		if _, err := zw.Write(body); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		body = gz.Bytes()
	}

	if err := binary.Write(w, binary.LittleEndian, magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, flags); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func writeState(buf *bytes.Buffer, tri *delaunay.Triangulation) error {
	b, hasBounds := tri.Bounds()
	if !hasBounds {
		b = delaunay.Bounds{}
	}
	fields := []float64{b.MinX, b.MaxX, b.MinY, b.MaxY, tri.Thresh.NominalSpacing}
	for _, f := range fields {
		if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
			return err
		}
	}

	searchEdge := int32(-1)
	if e := tri.SearchEdge(); e != quadedge.NilEdge {
		searchEdge = int32(e)
	}
	ints := []int32{int32(tri.SyntheticCount()), searchEdge, int32(tri.MaxFloodQueueSeen())}
	for _, v := range ints {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	var flag byte
	if tri.Locked() {
		flag |= stateFlagLocked
	}
	if tri.LockedDueToConstraints() {
		flag |= stateFlagLockedDueToConstraints
	}
	if tri.Conformant() {
		flag |= stateFlagConformant
	}
	if hasBounds {
		flag |= stateFlagHasBounds
	}
	buf.WriteByte(flag)
	buf.Write(make([]byte, 3))
	return nil
}

func writeVertices(buf *bytes.Buffer, tri *delaunay.Triangulation) error {
	count := int32(tri.Verts.Len())
	if err := binary.Write(buf, binary.LittleEndian, count); err != nil {
		return err
	}

	var outerErr error
	tri.Verts.Each(func(_ vertex.Index, o vertex.Object) {
		if outerErr != nil {
			return
		}
		switch o.Kind {
		case vertex.KindNull:
			buf.WriteByte(vertexKindNull)
		case vertex.KindPlain:
			buf.WriteByte(vertexKindPlain)
			outerErr = writeAll(buf,
				o.X, o.Y, o.Z, int32(o.Index), byte(o.Status), o.Aux)
		case vertex.KindMerger:
			buf.WriteByte(vertexKindMerger)
			if outerErr = writeAll(buf, o.X, o.Y, int32(o.Index), byte(o.Status), byte(o.Resolution)); outerErr != nil {
				return
			}
			buf.Write(make([]byte, 2))
			if outerErr = binary.Write(buf, binary.LittleEndian, int32(len(o.Members))); outerErr != nil {
				return
			}
			for _, m := range o.Members {
				if outerErr = binary.Write(buf, binary.LittleEndian, int32(m)); outerErr != nil {
					return
				}
			}
		}
	})
	return outerErr
}

func writeEdges(buf *bytes.Buffer, tri *delaunay.Triangulation) error {
	pool := tri.Pool
	count := int32(0)
	pool.LivePairs(func(quadedge.EdgeID) { count++ })
	if err := binary.Write(buf, binary.LittleEndian, count); err != nil {
		return err
	}

	var outerErr error
	pool.LivePairs(func(base quadedge.EdgeID) {
		if outerErr != nil {
			return
		}
		partner := pool.Partner(base)
		a, b := pool.Origin(base), pool.Origin(partner)
		outerErr = writeAll(buf,
			int32(base), int32(a), int32(b),
			int32(pool.F(base)), int32(pool.R(base)),
			int32(pool.F(partner)), int32(pool.R(partner)),
			pool.RawMeta(base))
	})
	return outerErr
}

func writeConstraints(buf *bytes.Buffer, tri *delaunay.Triangulation) error {
	specs := tri.ConstraintRecords()
	if err := binary.Write(buf, binary.LittleEndian, int32(len(specs))); err != nil {
		return err
	}
	for _, c := range specs {
		var flag byte
		if c.DefinesRegion {
			flag |= constraintFlagDefinesRegion
		}
		if c.IsHole {
			flag |= constraintFlagIsHole
		}
		buf.WriteByte(c.Kind)
		buf.WriteByte(flag)
		buf.Write(make([]byte, 2))
		if err := binary.Write(buf, binary.LittleEndian, int32(c.Index)); err != nil {
			return err
		}
		if err := binary.Write(buf, binary.LittleEndian, int32(len(c.Vertices))); err != nil {
			return err
		}
		for _, v := range c.Vertices {
			if err := binary.Write(buf, binary.LittleEndian, int32(v)); err != nil {
				return err
			}
		}
		link := int32(-1)
		if c.LinkEdge != quadedge.NilEdge {
			link = int32(c.LinkEdge &^ 1)
		}
		if err := binary.Write(buf, binary.LittleEndian, link); err != nil {
			return err
		}
	}
	return nil
}

func writeAll(buf *bytes.Buffer, values ...interface{}) error {
	for _, v := range values {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}
