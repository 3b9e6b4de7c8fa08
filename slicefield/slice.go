// Package slicefield models the two ping-ponged 2D scalar images that
// supply one layer of the volumetric field to the extractor at a time.
package slicefield

import "github.com/soypat/glgl/math/ms2"

// Slice is a single width x height scalar image, one float32 sample per
// grid point, row-major (y-major) order.
type Slice struct {
	Width, Height int
	Values        []float32
}

// NewSlice allocates a zeroed slice of the given dimensions.
func NewSlice(width, height int) *Slice {
	return &Slice{
		Width:  width,
		Height: height,
		Values: make([]float32, width*height),
	}
}

// At returns the sample at grid coordinate (x, y).
func (s *Slice) At(x, y int) float32 {
	return s.Values[y*s.Width+x]
}

// Set stores a sample at grid coordinate (x, y).
func (s *Slice) Set(x, y int, v float32) {
	s.Values[y*s.Width+x] = v
}

// Bounds returns the 2D extent of the slice in sample-index space.
func (s *Slice) Bounds() ms2.Box {
	return ms2.Box{
		Min: ms2.Vec{X: 0, Y: 0},
		Max: ms2.Vec{X: float32(s.Width - 1), Y: float32(s.Height - 1)},
	}
}

// Pair holds two equally-sized slices ping-ponged as z advances: Prev is
// slice(z-1), Cur is slice(z). Swap makes Cur the new Prev and returns the
// old Prev's buffer for the caller to refill in place as the new Cur.
type Pair struct {
	Prev, Cur *Slice
}

// NewPair allocates a fresh ping-pong pair of the given dimensions.
func NewPair(width, height int) *Pair {
	return &Pair{
		Prev: NewSlice(width, height),
		Cur:  NewSlice(width, height),
	}
}

// Swap exchanges Prev and Cur, returning the slice that the caller should
// now overwrite with the next z index's samples.
func (p *Pair) Swap() *Slice {
	p.Prev, p.Cur = p.Cur, p.Prev
	return p.Cur
}
