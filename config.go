package tetramarch

import "github.com/soypat/tetramarch/keys"

// Config groups the tunables an outer driver (not part of this module)
// populates before constructing an Engine.
type Config struct {
	// MaxWidth and MaxHeight bound the grid dimensions this Engine instance
	// will ever be asked to extract, used to size intermediate buffers once.
	MaxWidth, MaxHeight int
	// VertexSpace and IndexSpace size the unwelded-vertex and index buffers
	// that accumulate across layers between ship-outs.
	VertexSpace, IndexSpace int
	// WorkgroupSize is the dispatch granularity for compacted-cell kernels.
	// The original implementation hardcodes this to 1 with a comment
	// admitting it is "not very good at all"; tuning is allowed but not required.
	// Validate checks that it is positive; CPUDevice does not read it.
	WorkgroupSize int
	// IsoThreshold is the field value at or above which a sample is
	// "outside"; samples within a small epsilon below it also count as
	// outside (see compact.isOutside).
	IsoThreshold float32
}

// DefaultConfig returns a Config with conservative, small-grid defaults.
func DefaultConfig() Config {
	return Config{
		MaxWidth:      256,
		MaxHeight:     256,
		VertexSpace:   1 << 20,
		IndexSpace:    1 << 21,
		WorkgroupSize: 1,
		IsoThreshold:  0,
	}
}

// Validate checks Config against the preconditions of generate.
func (c Config) Validate() error {
	if c.MaxWidth < 2 || c.MaxWidth > keys.MaxDimension {
		return &InvalidArgumentError{Field: "MaxWidth", Reason: "must satisfy 2 <= MaxWidth <= MaxDimension"}
	}
	if c.MaxHeight < 2 || c.MaxHeight > keys.MaxDimension {
		return &InvalidArgumentError{Field: "MaxHeight", Reason: "must satisfy 2 <= MaxHeight <= MaxDimension"}
	}
	if c.VertexSpace <= 0 {
		return &InvalidArgumentError{Field: "VertexSpace", Reason: "must be positive"}
	}
	if c.IndexSpace <= 0 {
		return &InvalidArgumentError{Field: "IndexSpace", Reason: "must be positive"}
	}
	if c.WorkgroupSize <= 0 {
		return &InvalidArgumentError{Field: "WorkgroupSize", Reason: "must be positive"}
	}
	return nil
}
