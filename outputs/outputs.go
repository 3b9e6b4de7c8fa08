// Package outputs provides two concrete implementations of the §6 Output
// functor: an in-memory collector for tests and small extractions, and a
// binary STL writer for larger ones that must not hold every shipped mesh
// in memory at once.
package outputs

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/tetramarch/genvert"
	"github.com/soypat/tetramarch/shipout"
)

// Collector appends a copy of every shipped mesh chunk it receives, in
// ship-out order. Intended for tests and extractions small enough to keep
// entirely in memory; a long-running extraction should prefer STLWriter.
type Collector struct {
	Meshes []*shipout.Mesh
}

// Invoke implements shipout.Output.
func (c *Collector) Invoke(ctx context.Context, mesh *shipout.Mesh) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := &shipout.Mesh{
		Vertices:            append([]genvert.VertexRecord(nil), mesh.Vertices...),
		VertexKeys:          append([]uint64(nil), mesh.VertexKeys...),
		Triangles:           append([]uint32(nil), mesh.Triangles...),
		NumInternalVertices: mesh.NumInternalVertices,
	}
	c.Meshes = append(c.Meshes, m)
	return nil
}

// stlHeader is the 84-byte binary STL file header.
type stlHeader struct {
	_     [80]uint8
	Count uint32
}

func (h stlHeader) put(b []byte) {
	_ = b[83]
	binary.LittleEndian.PutUint32(b[80:], h.Count)
}

const stlTriangleSize = 50

func putSTLTriangle(b []byte, tri ms3.Triangle) {
	_ = b[stlTriangleSize-1]
	n := ms3.Unit(tri.Normal())
	put3F32(b, [3]float32{n.X, n.Y, n.Z})
	put3F32(b[12:], [3]float32{tri[0].X, tri[0].Y, tri[0].Z})
	put3F32(b[24:], [3]float32{tri[1].X, tri[1].Y, tri[1].Z})
	put3F32(b[36:], [3]float32{tri[2].X, tri[2].Y, tri[2].Z})
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11]
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

// STLWriter serializes each shipped chunk's triangles as binary STL
// triangle records directly to an io.Writer (§6). It writes no file header
// and tracks no running total itself beyond TriangleCount: welding across
// ship-outs is the caller's concern, each chunk being self-contained
// per-chunk geometry consistent with §4.6's external-vertex contract.
// STLFile wraps an STLWriter with a standalone-file header for the common
// case of writing one complete STL file per extraction.
type STLWriter struct {
	w     io.Writer
	count uint32
	buf   [stlTriangleSize]byte
}

// NewSTLWriter wraps w as an STLWriter.
func NewSTLWriter(w io.Writer) *STLWriter {
	return &STLWriter{w: w}
}

// TriangleCount returns the number of triangle records written so far.
func (w *STLWriter) TriangleCount() uint32 { return w.count }

// Invoke implements shipout.Output. It writes every triangle of the
// shipped mesh using the welded vertex positions it references.
func (w *STLWriter) Invoke(ctx context.Context, mesh *shipout.Mesh) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(mesh.Triangles)%3 != 0 {
		return fmt.Errorf("outputs: triangle index count %d not a multiple of 3", len(mesh.Triangles))
	}
	for i := 0; i < len(mesh.Triangles); i += 3 {
		var tri ms3.Triangle
		for k := 0; k < 3; k++ {
			idx := mesh.Triangles[i+k]
			if int(idx) >= len(mesh.Vertices) {
				return fmt.Errorf("outputs: triangle index %d out of range of %d welded vertices", idx, len(mesh.Vertices))
			}
			tri[k] = mesh.Vertices[idx].Pos
		}
		putSTLTriangle(w.buf[:], tri)
		if _, err := w.w.Write(w.buf[:]); err != nil {
			return err
		}
		w.count++
	}
	return nil
}

// STLFile writes ship-out meshes to a standalone binary STL file as they
// arrive, rather than buffering the whole mesh in memory first. It seeks
// past the 84-byte header on creation and writes the header, with the
// final triangle count, on Close, mirroring the teacher's
// seek-past-header-then-patch streaming idiom.
type STLFile struct {
	f *os.File
	w *STLWriter
}

// CreateSTLFile creates path, positions past its 84-byte header, and
// returns an STLFile wrapping it.
func CreateSTLFile(path string) (*STLFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(84, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	return &STLFile{f: f, w: NewSTLWriter(f)}, nil
}

// Invoke implements shipout.Output.
func (s *STLFile) Invoke(ctx context.Context, mesh *shipout.Mesh) error {
	return s.w.Invoke(ctx, mesh)
}

// Close patches the triangle-count header and closes the file.
func (s *STLFile) Close() error {
	var hbuf [84]byte
	stlHeader{Count: s.w.TriangleCount()}.put(hbuf[:])
	if _, err := s.f.WriteAt(hbuf[:], 0); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
