package ansiterm

import "errors"

// Error kinds returned by the public API. The legacy petit-ami
// core aborts the process on every one of these; this rewrite returns the
// recoverable ones as errors and reserves process-fatal behavior for
// ErrStackingViolation and ErrDeviceIO, where the terminal itself is no
// longer trustworthy.
var (
	// ErrBadHandle is returned for an invalid timer id (windows use
	// ErrBadWindow).
	ErrBadHandle = errors.New("ansiterm: bad handle")

	// ErrBadPosition is returned for an out-of-range cursor or tab position.
	ErrBadPosition = errors.New("ansiterm: bad position")

	// ErrBadPage is returned for a page index outside 1..MaxPages.
	ErrBadPage = errors.New("ansiterm: bad page")

	// ErrBadWindow is returned for a duplicate window id, unknown parent,
	// or otherwise invalid window reference.
	ErrBadWindow = errors.New("ansiterm: bad window")

	// ErrDeviceIO is returned (and is fatal) when a read or write to the
	// terminal device fails.
	ErrDeviceIO = errors.New("ansiterm: device I/O error")

	// ErrResourceExhausted is returned when every timer slot is in use;
	// window ids have no such limit.
	ErrResourceExhausted = errors.New("ansiterm: resource exhausted")

	// ErrStackingViolation is fatal: at shutdown, the override registry
	// found that some capability slot no longer holds the implementation
	// this library installed, meaning modules were torn down out of order.
	ErrStackingViolation = errors.New("ansiterm: stacking violation")
)
