// Package genvert implements the Element Generator: for each compacted
// cell, interpolate its edge vertices and emit triangle indices at scanned
// write offsets. The kernel is expressed against a Device so the per-cell
// contract does not depend on the backend; CPUDevice, a CPU reference
// implementation, is the only Device in this package.
package genvert

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/tetramarch/casetable"
	"github.com/soypat/tetramarch/compact"
	"github.com/soypat/tetramarch/keys"
	"github.com/soypat/tetramarch/scanutil"
	"github.com/soypat/tetramarch/slicefield"
)

// denomEpsilon bounds how close an edge's endpoint values may be before
// interpolateEdge falls back to the edge midpoint rather than dividing by a
// near-zero denominator.
const denomEpsilon = 1e-6

// VertexRecord is one emitted, unwelded vertex: its interpolated position
// and a scalar payload (the field value at the crossing, nominally equal to
// the iso-threshold; a place for downstream consumers to carry material or
// blend data).
type VertexRecord struct {
	Pos     ms3.Vec
	Payload float32
}

// GenerateParams bundles everything GenerateLayer needs for one layer's
// worth of compacted cells.
type GenerateParams struct {
	Table     *casetable.Table
	Cells     []compact.Cell
	Offsets   []scanutil.PairU32 // per-cell (ΔV, ΔI) write offsets within this layer
	Prev, Cur *slicefield.Slice
	// Z is the cur slice's z index; the cell's lower z-origin for key
	// purposes is Z-1, since Prev holds slice Z-1 and Cur holds slice Z.
	Z         int
	Threshold float32
	// BaseV and BaseI are the layer's accumulated base offsets (added to
	// each cell's per-cell offset) within the unwelded buffers.
	BaseV, BaseI uint32

	Vertices []VertexRecord
	Keys     []uint64
	Indices  []uint32
}

// Device executes the Element Generator kernel for one layer's compacted
// cells, writing into GenerateParams' Vertices/Keys/Indices buffers at the
// offsets given by Offsets (relative to BaseV/BaseI).
type Device interface {
	GenerateLayer(p GenerateParams) error
	// SupportsImage2D reports whether the device can back the 2D image
	// buffers the Element Generator kernel is specified against (§4.5).
	// validateDevice rejects a Device that returns false before any buffer
	// is allocated for it.
	SupportsImage2D() bool
}

// cornerValue reads the field sample at cube-vertex v (0..7) of the cell
// whose origin is (x,y), taking the low-z half from prev and the high-z
// half from cur.
func cornerValue(prev, cur *slicefield.Slice, x, y, v int) float32 {
	dx := v & 1
	dy := (v >> 1) & 1
	dz := (v >> 2) & 1
	if dz == 0 {
		return prev.At(x+dx, y+dy)
	}
	return cur.At(x+dx, y+dy)
}

// cornerPos returns the grid-space position of cube-vertex v (0..7) of the
// cell whose origin is (x, y, zLow).
func cornerPos(x, y, zLow, v int) ms3.Vec {
	dx := v & 1
	dy := (v >> 1) & 1
	dz := (v >> 2) & 1
	return ms3.Vec{X: float32(x + dx), Y: float32(y + dy), Z: float32(zLow + dz)}
}

// interpolateEdge linearly interpolates the crossing position of edge
// (v0,v1) of the cell at (x,y,zLow) given the threshold, returning the
// position and the field value used as the vertex payload.
func interpolateEdge(prev, cur *slicefield.Slice, x, y, zLow int, v0, v1 uint8, threshold float32) (ms3.Vec, float32) {
	f0 := cornerValue(prev, cur, x, y, int(v0))
	f1 := cornerValue(prev, cur, x, y, int(v1))
	t := float32(0.5)
	if math32.Abs(f1-f0) > denomEpsilon {
		t = (threshold - f0) / (f1 - f0)
	}
	p0 := cornerPos(x, y, zLow, int(v0))
	p1 := cornerPos(x, y, zLow, int(v1))
	pos := ms3.Add(p0, ms3.Scale(t, ms3.Sub(p1, p0)))
	return pos, threshold
}

// cellKeyDelta packs the spatial key for a vertex at axis delta d within
// the cell at (x, y, zLow).
func cellKeyDelta(x, y, zLow int, d keys.Delta) uint64 {
	return keys.Pack(keys.Cell{X: x, Y: y, Z: zLow}, d)
}
