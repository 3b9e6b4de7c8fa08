package tetramarch

import (
	"github.com/soypat/tetramarch/casetable"
	"github.com/soypat/tetramarch/keys"
)

// vertexRecordBytes is the serialized size of one genvert.VertexRecord:
// an ms3.Vec (3 float32) plus a float32 payload.
const vertexRecordBytes = 16

// vertexKeyBytes is the size of one packed spatial vertex key.
const vertexKeyBytes = 8

// cellRecordBytes is the serialized size of one compact.Cell: two ints
// (accounted at 32 bits, since cell coordinates never approach 64-bit
// range) plus an 8-bit case, rounded up to a 4-byte-aligned 12 bytes.
const cellRecordBytes = 12

// indexRecordBytes is the size of one triangle index.
const indexRecordBytes = 4

// Resources reports, per §4.8, the byte size of one slice image and the
// worst-case per-layer buffer sizes for a Config's MaxWidth and MaxHeight.
// Outer layers use this to validate a grid footprint against device or
// host memory limits before constructing an Engine. The unwelded vertex,
// key and index buffers an Engine allocates are sized by
// Config.VertexSpace and Config.IndexSpace, not by these figures.
type Resources struct {
	// ImageBytes is the byte size of one slice image (MaxWidth x MaxHeight
	// float32 samples); the engine keeps two (the ping-pong pair).
	ImageBytes int
	// CellBytes is the worst-case byte size of one layer's compacted cell
	// array.
	CellBytes int
	// VertexBytes and IndexBytes are the worst-case byte sizes of one
	// layer's unwelded vertex and index contribution, bounded by the case
	// table's per-cell maxima. A Config whose VertexSpace and IndexSpace are
	// at least VertexBytes/vertexRecordBytes and IndexBytes/indexRecordBytes
	// never hits ResourceExhaustedError; a smaller one does so only when a
	// layer actually needs more than the buffers hold.
	VertexBytes int
	IndexBytes  int
	// WeldedVertexBytes is the worst-case byte size of one ship-out's
	// welded vertex-plus-key arrays; welding never increases the vertex
	// count, so it shares the unwelded worst case plus the per-vertex key.
	WeldedVertexBytes int
}

// ComputeResources derives the Resources a Config would allocate,
// rejecting a MaxWidth or MaxHeight outside [2, keys.MaxDimension] before
// computing any size (§8 S7), and ErrEmptyGrid if the resulting grid has no
// interior cells.
func ComputeResources(cfg Config) (Resources, error) {
	if cfg.MaxWidth < 2 || cfg.MaxWidth > keys.MaxDimension {
		return Resources{}, &InvalidArgumentError{Field: "MaxWidth", Reason: "must satisfy 2 <= MaxWidth <= MaxDimension"}
	}
	if cfg.MaxHeight < 2 || cfg.MaxHeight > keys.MaxDimension {
		return Resources{}, &InvalidArgumentError{Field: "MaxHeight", Reason: "must satisfy 2 <= MaxHeight <= MaxDimension"}
	}
	cells := (cfg.MaxWidth - 1) * (cfg.MaxHeight - 1)
	if cells <= 0 {
		return Resources{}, ErrEmptyGrid
	}
	tbl := casetable.Default()
	maxVerts := cells * tbl.MaxCellVertices
	maxIdx := cells * tbl.MaxCellIndices
	return Resources{
		ImageBytes:        cfg.MaxWidth * cfg.MaxHeight * 4,
		CellBytes:         cells * cellRecordBytes,
		VertexBytes:       maxVerts * vertexRecordBytes,
		IndexBytes:        maxIdx * indexRecordBytes,
		WeldedVertexBytes: maxVerts * (vertexRecordBytes + vertexKeyBytes),
	}, nil
}
