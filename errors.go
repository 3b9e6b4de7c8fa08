package tetramarch

import (
	"errors"
	"fmt"

	"github.com/soypat/tetramarch/genvert"
)

// Sentinel errors for simple, argument-free failure conditions.
var (
	// ErrEmptyGrid is returned when a grid dimension collapses the domain to zero cells.
	ErrEmptyGrid = errors.New("tetramarch: grid has no cells")
	// ErrDeviceUnsupported is returned by validateDevice when the backend lacks 2D image support.
	ErrDeviceUnsupported = errors.New("tetramarch: device does not support required 2D images")
	// ErrNoDevice is returned when an Engine is constructed without a Device.
	ErrNoDevice = errors.New("tetramarch: no device set")
)

// InvalidArgumentError reports a construction-time or pre-flight argument violation.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("tetramarch: invalid argument %q: %s", e.Field, e.Reason)
}

// ResourceExhaustedError reports that a single layer produced more vertices or
// indices than the allocated unwelded buffers can hold. This is fatal: callers
// are expected to have sized buffers conservatively using ComputeResources.
type ResourceExhaustedError struct {
	Layer      int
	NeedVerts  int
	NeedIndices int
	HaveVerts  int
	HaveIndices int
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("tetramarch: layer %d needs (%d verts, %d indices) but only (%d, %d) available",
		e.Layer, e.NeedVerts, e.NeedIndices, e.HaveVerts, e.HaveIndices)
}

// DeviceError wraps a backend failure surfaced during kernel dispatch or buffer transfer.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("tetramarch: device error during %s: %s", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// validateDevice rejects a Device that cannot back the 2D image buffers the
// Element Generator kernel is specified against (§4.5, §7).
func validateDevice(dev genvert.Device) error {
	if !dev.SupportsImage2D() {
		return ErrDeviceUnsupported
	}
	return nil
}
