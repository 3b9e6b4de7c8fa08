package outputs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/tetramarch/genvert"
	"github.com/soypat/tetramarch/shipout"
)

func triangleMesh() *shipout.Mesh {
	return &shipout.Mesh{
		Vertices: []genvert.VertexRecord{
			{Pos: ms3.Vec{X: 0, Y: 0, Z: 0}},
			{Pos: ms3.Vec{X: 1, Y: 0, Z: 0}},
			{Pos: ms3.Vec{X: 0, Y: 1, Z: 0}},
		},
		VertexKeys:          []uint64{1, 2, 3},
		Triangles:           []uint32{0, 1, 2},
		NumInternalVertices: 3,
	}
}

func TestCollectorCopiesMesh(t *testing.T) {
	var c Collector
	mesh := triangleMesh()
	if err := c.Invoke(context.Background(), mesh); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(c.Meshes) != 1 {
		t.Fatalf("expected 1 collected mesh, got %d", len(c.Meshes))
	}
	// Mutating the original after Invoke must not affect the stored copy.
	mesh.Triangles[0] = 99
	if c.Meshes[0].Triangles[0] == 99 {
		t.Fatalf("Collector did not copy mesh data")
	}
}

func TestSTLFileRoundTripHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	w, err := CreateSTLFile(path)
	if err != nil {
		t.Fatalf("CreateSTLFile: %v", err)
	}
	if err := w.Invoke(context.Background(), triangleMesh()); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if err := w.Invoke(context.Background(), triangleMesh()); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	wantSize := int64(84 + 2*stlTriangleSize)
	if info.Size() != wantSize {
		t.Fatalf("file size = %d, want %d", info.Size(), wantSize)
	}
	var hdr [84]byte
	if _, err := f.ReadAt(hdr[:], 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	count := uint32(hdr[80]) | uint32(hdr[81])<<8 | uint32(hdr[82])<<16 | uint32(hdr[83])<<24
	if count != 2 {
		t.Fatalf("header triangle count = %d, want 2", count)
	}
}

func TestSTLFileRejectsBadTriangleCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.stl")
	w, err := CreateSTLFile(path)
	if err != nil {
		t.Fatalf("CreateSTLFile: %v", err)
	}
	defer w.Close()
	bad := triangleMesh()
	bad.Triangles = bad.Triangles[:2]
	if err := w.Invoke(context.Background(), bad); err == nil {
		t.Fatalf("expected error for non-multiple-of-3 triangle index count")
	}
}
