package tetramarch

import (
	"context"

	"github.com/soypat/tetramarch/slicefield"
)

// Input is the external input functor of §6: it fills dest with the scalar
// field samples for grid layer z. The field producer itself (an MLS or
// other implicit-function evaluator) is an external collaborator; Engine
// only calls Fill and waits for it to return before reading dest. Fill
// should return ctx.Err() promptly if ctx is already done; Engine itself
// only checks cancellation between layers, not mid-fill.
type Input interface {
	Fill(ctx context.Context, dest *slicefield.Slice, z int) error
}

// InputFunc adapts a plain function to Input.
type InputFunc func(ctx context.Context, dest *slicefield.Slice, z int) error

func (f InputFunc) Fill(ctx context.Context, dest *slicefield.Slice, z int) error {
	return f(ctx, dest, z)
}
