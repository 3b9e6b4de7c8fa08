// Package scanutil provides CPU reference implementations of the exclusive
// prefix-scan and stable radix-sort contracts the pipeline treats as
// black-box, externally-supplied primitives.
package scanutil

// PairU32 is an (uint32, uint32) pair scanned componentwise, used for the
// (vertex-count, index-count) running totals.
type PairU32 struct {
	A, B uint32
}

// ScanUint32 performs an exclusive prefix scan over in, writing len(in)+1
// values to out (out must have capacity len(in)+1): out[i] is the sum of
// in[:i], and out[len(in)] is the total. out and in must not overlap.
func ScanUint32(in []uint32, out []uint32) {
	if len(out) < len(in)+1 {
		panic("scanutil: out too small for exclusive scan with total")
	}
	var sum uint32
	for i, v := range in {
		out[i] = sum
		sum += v
	}
	out[len(in)] = sum
}

// ScanPairs performs a componentwise exclusive prefix scan over pairs,
// writing len(in)+1 values to out including the one-past-end total.
func ScanPairs(in []PairU32, out []PairU32) {
	if len(out) < len(in)+1 {
		panic("scanutil: out too small for exclusive scan with total")
	}
	var sumA, sumB uint32
	for i, v := range in {
		out[i] = PairU32{A: sumA, B: sumB}
		sumA += v.A
		sumB += v.B
	}
	out[len(in)] = PairU32{A: sumA, B: sumB}
}

// ScanFlagsU32 exclusive-scans a slice of 0/1 flags (as uint32) into write
// positions, the shape used by the occupancy compactor and the uniqueness
// pass of ship-out. Returns the total (equivalently out[len(flags)]).
func ScanFlagsU32(flags []uint32, out []uint32) uint32 {
	ScanUint32(flags, out)
	return out[len(flags)]
}
