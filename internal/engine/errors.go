package engine

import "errors"

var (
	// ErrNoFrames indicates an operation that needs at least one frame.
	ErrNoFrames = errors.New("sprite has no frames")

	// ErrFrameNotFound indicates a frame number that does not exist.
	ErrFrameNotFound = errors.New("frame not found")

	// ErrInvariant indicates a mutation that broke the frame sequence.
	ErrInvariant = errors.New("frame sequence invariant violated")

	// ErrUnsupported indicates a host that lacks an optional capability.
	ErrUnsupported = errors.New("operation not supported by host")
)
