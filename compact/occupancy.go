// Package compact implements the Occupancy Compactor and Element Counter:
// the scan/compaction glue that turns a layer of slice samples into a dense
// array of nonempty cells with scanned vertex/index write offsets.
package compact

import (
	"github.com/chewxy/math32"
	"github.com/soypat/tetramarch/casetable"
	"github.com/soypat/tetramarch/scanutil"
	"github.com/soypat/tetramarch/slicefield"
)

// thresholdEpsilon absorbs float32 rounding noise when a sample lands
// exactly on the iso-threshold, so that a sample computed as threshold+ulp
// by one code path and threshold-ulp by another still classifies the same
// way.
const thresholdEpsilon = 1e-5

// Cell is a compacted, occupied cube cell: its (x,y) origin within the
// layer and its 8-bit cube case.
type Cell struct {
	X, Y int
	Case uint8
}

// Compactor holds the scratch buffers reused across layers by Compact.
type Compactor struct {
	occupied []uint32
	scan     []uint32
}

// Compact computes the cube case of every cell in the layer spanned by prev
// (slice z-1) and cur (slice z), flags the ones with at least one emitted
// vertex, exclusive-scans the flags, and writes the occupied cells into
// *cells (reusing its backing array when possible). It returns the number
// of occupied cells.
func (c *Compactor) Compact(tbl *casetable.Table, prev, cur *slicefield.Slice, threshold float32, cells *[]Cell) int {
	w, h := cur.Width, cur.Height
	nCells := (w - 1) * (h - 1)
	if nCells <= 0 {
		*cells = (*cells)[:0]
		return 0
	}
	if cap(c.occupied) < nCells {
		c.occupied = make([]uint32, nCells)
	}
	c.occupied = c.occupied[:nCells]
	if cap(c.scan) < nCells+1 {
		c.scan = make([]uint32, nCells+1)
	}
	c.scan = c.scan[:nCells+1]

	idx := 0
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			caseID := cubeCase(prev, cur, x, y, threshold)
			if tbl.Count[caseID].V > 0 {
				c.occupied[idx] = 1
			} else {
				c.occupied[idx] = 0
			}
			idx++
		}
	}
	scanutil.ScanUint32(c.occupied, c.scan)
	total := int(c.scan[nCells])
	if cap(*cells) < total {
		*cells = make([]Cell, total)
	}
	*cells = (*cells)[:total]

	idx = 0
	for y := 0; y < h-1; y++ {
		for x := 0; x < w-1; x++ {
			if c.occupied[idx] == 1 {
				pos := c.scan[idx]
				(*cells)[pos] = Cell{X: x, Y: y, Case: cubeCase(prev, cur, x, y, threshold)}
			}
			idx++
		}
	}
	return total
}

// cubeCase computes the 8-bit inside/outside mask for the cell at (x,y),
// reading the low-z corners from prev and the high-z corners from cur.
// A sample exactly at threshold counts as outside, per the `i & (1<<v)`
// convention of treating the comparison as non-strict-below.
func cubeCase(prev, cur *slicefield.Slice, x, y int, threshold float32) uint8 {
	var mask uint8
	for v := 0; v < 8; v++ {
		dx := v & 1
		dy := (v >> 1) & 1
		dz := (v >> 2) & 1
		var val float32
		if dz == 0 {
			val = prev.At(x+dx, y+dy)
		} else {
			val = cur.At(x+dx, y+dy)
		}
		if isOutside(val, threshold) {
			mask |= 1 << uint(v)
		}
	}
	return mask
}

// isOutside reports whether val counts as outside the surface at
// threshold, treating values within thresholdEpsilon of threshold as
// outside (the non-strict-below convention cubeCase's mask relies on).
func isOutside(val, threshold float32) bool {
	return val > threshold || math32.Abs(val-threshold) <= thresholdEpsilon
}
