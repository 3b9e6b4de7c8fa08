// Package tetramarch implements a GPU-style marching-tetrahedra mesh
// extractor with streaming vertex welding: it consumes a volumetric scalar
// field one pair of 2D slices at a time, triangulates each layer of cells
// against a precomputed case table, and ships out deduplicated, spatially
// keyed mesh chunks as its intermediate buffers fill.
package tetramarch

import (
	"context"
	"fmt"

	"github.com/soypat/tetramarch/casetable"
	"github.com/soypat/tetramarch/compact"
	"github.com/soypat/tetramarch/genvert"
	"github.com/soypat/tetramarch/keys"
	"github.com/soypat/tetramarch/shipout"
	"github.com/soypat/tetramarch/slicefield"
)

// Size gives the grid dimensions a Generate call extracts over.
type Size struct {
	W, H, D int
}

// Stats collects the per-call statistics the layer driver records as it
// runs: how many of the D-1 layers were empty, and how many ship-outs
// occurred. Config/CLI-level statistics aggregation beyond this is an
// external collaborator (§1).
type Stats struct {
	LayersTotal   int
	LayersNonempty int
	ShipOuts      int
}

// Engine holds the immutable case table, the configured resource limits,
// and the scratch buffers reused across Generate calls. An Engine may be
// reused for multiple Generate calls (sequentially; it is not safe for
// concurrent use by multiple goroutines at once).
type Engine struct {
	cfg   Config
	table *casetable.Table
	dev   genvert.Device
	res   Resources

	compactor compact.Compactor
	counter   compact.Counter
	ship      shipout.Pipeline

	cells []compact.Cell

	unweldedKeys  []uint64
	unweldedVerts []genvert.VertexRecord
	indices       []uint32
}

// New constructs an Engine from cfg, using the process-wide default case
// table and the CPU reference Device.
func New(cfg Config) (*Engine, error) {
	return NewWithDevice(cfg, genvert.CPUDevice{})
}

// NewWithDevice constructs an Engine with an explicit Device.
func NewWithDevice(cfg Config, dev genvert.Device) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, ErrNoDevice
	}
	if err := validateDevice(dev); err != nil {
		return nil, err
	}
	tbl := casetable.Default()
	res, err := ComputeResources(cfg)
	if err != nil {
		return nil, err
	}
	// Config.VertexSpace/IndexSpace are not rejected here even if smaller
	// than res.VertexBytes/res.IndexBytes: per §4.7/§4.8, sizing buffers
	// against the worst case over all 256 cube cases is the caller's
	// responsibility (ComputeResources exists for exactly that), and an
	// under-sized Config should surface as the runtime
	// ResourceExhaustedError a real overflowing layer produces, not as a
	// construction-time rejection.
	e := &Engine{
		cfg:   cfg,
		table: tbl,
		dev:   dev,
		res:   res,
	}
	e.unweldedKeys = make([]uint64, cfg.VertexSpace+1)
	e.unweldedVerts = make([]genvert.VertexRecord, cfg.VertexSpace)
	e.indices = make([]uint32, cfg.IndexSpace)
	return e, nil
}

// Table returns the Engine's case table, mainly for diagnostics and tests.
func (e *Engine) Table() *casetable.Table { return e.table }

// Resources returns the buffer/image sizing this Engine was built with, per
// §4.8, mainly so callers can confirm their Config covers the worst case
// before running a large extraction.
func (e *Engine) Resources() Resources { return e.res }

// Generate runs the layer driver of §4.7 over a size.W x size.H x size.D
// grid, calling input to fill each z slice and out once per ship-out. Keys
// written to shipped meshes are offset by keyOffset so that multiple
// Generate calls over adjacent blocks produce globally unique, stitchable
// vertex keys.
//
// ctx is checked between layers (§5): if it is already done when a layer
// boundary is reached, Generate returns ctx.Err() without starting that
// layer's work. Cancellation is not checked mid-layer.
func (e *Engine) Generate(ctx context.Context, size Size, keyOffset keys.Cell, input Input, out shipout.Output) (Stats, error) {
	var stats Stats
	if size.W < 2 || size.W > e.cfg.MaxWidth {
		return stats, &InvalidArgumentError{Field: "W", Reason: "must satisfy 2 <= W <= MaxWidth"}
	}
	if size.H < 2 || size.H > e.cfg.MaxHeight {
		return stats, &InvalidArgumentError{Field: "H", Reason: "must satisfy 2 <= H <= MaxHeight"}
	}
	if size.D < 1 {
		return stats, &InvalidArgumentError{Field: "D", Reason: "must satisfy D >= 1"}
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	slices := slicefield.NewPair(size.W, size.H)
	if err := input.Fill(ctx, slices.Cur, 0); err != nil {
		return stats, &DeviceError{Op: "input.Fill(z=0)", Err: err}
	}
	if size.D == 1 {
		// No layers between samples; nothing to extract.
		return stats, nil
	}

	var baseV, baseI uint32
	lastZ := 0
	for z := 1; z < size.D; z++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		cur := slices.Swap()
		if err := input.Fill(ctx, cur, z); err != nil {
			return stats, &DeviceError{Op: fmt.Sprintf("input.Fill(z=%d)", z), Err: err}
		}
		lastZ = z
		stats.LayersTotal++

		n := e.compactor.Compact(e.table, slices.Prev, slices.Cur, e.cfg.IsoThreshold, &e.cells)
		if n == 0 {
			logger().Debug("tetramarch: empty layer", "z", z)
			continue
		}
		stats.LayersNonempty++

		offsets, total := e.counter.Count(e.table, e.cells)

		if int(baseV)+int(total.A) > e.cfg.VertexSpace || int(baseI)+int(total.B) > e.cfg.IndexSpace {
			if int(total.A) > e.cfg.VertexSpace || int(total.B) > e.cfg.IndexSpace {
				return stats, &ResourceExhaustedError{
					Layer: z, NeedVerts: int(total.A), NeedIndices: int(total.B),
					HaveVerts: e.cfg.VertexSpace, HaveIndices: e.cfg.IndexSpace,
				}
			}
			zMax := 2 * (z - 1)
			logger().Info("tetramarch: shipping out", "zMax", zMax, "vertices", baseV, "indices", baseI)
			if err := e.ship.Ship(ctx, e.unweldedKeys, e.unweldedVerts, int(baseV), e.indices, int(baseI), zMax, keyOffset, out); err != nil {
				return stats, err
			}
			stats.ShipOuts++
			baseV, baseI = 0, 0
		}

		params := genvert.GenerateParams{
			Table: e.table, Cells: e.cells, Offsets: offsets,
			Prev: slices.Prev, Cur: slices.Cur, Z: z, Threshold: e.cfg.IsoThreshold,
			BaseV: baseV, BaseI: baseI,
			Vertices: e.unweldedVerts, Keys: e.unweldedKeys, Indices: e.indices,
		}
		if err := e.dev.GenerateLayer(params); err != nil {
			return stats, &DeviceError{Op: fmt.Sprintf("GenerateLayer(z=%d)", z), Err: err}
		}
		baseV += total.A
		baseI += total.B
	}

	if baseV > 0 {
		zMax := 2 * lastZ
		logger().Info("tetramarch: final ship-out", "zMax", zMax, "vertices", baseV, "indices", baseI)
		if err := e.ship.Ship(ctx, e.unweldedKeys, e.unweldedVerts, int(baseV), e.indices, int(baseI), zMax, keyOffset, out); err != nil {
			return stats, err
		}
		stats.ShipOuts++
	}
	return stats, nil
}
