package compact

import (
	"github.com/soypat/tetramarch/casetable"
	"github.com/soypat/tetramarch/scanutil"
)

// Counter holds the scratch buffers reused across layers by Count.
type Counter struct {
	viCount []scanutil.PairU32
	scan    []scanutil.PairU32
}

// Count reads (nVerts, nIndices) for every compacted cell from tbl and
// exclusive-scans the pair array, returning the per-cell write offsets
// (length len(cells)) and the layer's total (ΔV, ΔI).
func (c *Counter) Count(tbl *casetable.Table, cells []Cell) (offsets []scanutil.PairU32, total scanutil.PairU32) {
	n := len(cells)
	if cap(c.viCount) < n {
		c.viCount = make([]scanutil.PairU32, n)
	}
	c.viCount = c.viCount[:n]
	for i, cell := range cells {
		cnt := tbl.Count[cell.Case]
		c.viCount[i] = scanutil.PairU32{A: uint32(cnt.V), B: uint32(cnt.I)}
	}
	if cap(c.scan) < n+1 {
		c.scan = make([]scanutil.PairU32, n+1)
	}
	c.scan = c.scan[:n+1]
	scanutil.ScanPairs(c.viCount, c.scan)
	return c.scan[:n], c.scan[n]
}
