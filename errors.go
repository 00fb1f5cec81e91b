package rasterpaint

import "errors"

// Sentinel errors returned by Painter lifecycle and property operations.
// Draw operations never return errors: degenerate or failed draws are
// silently skipped, matching the "draw nothing" intent of empty shapes.
var (
	// ErrInvalidArgument reports an argument a lifecycle call cannot accept,
	// such as a non-positive surface size or an insufficient stride.
	ErrInvalidArgument = errors.New("rasterpaint: invalid argument")

	// ErrOutOfMemory reports a failed internal allocation.
	ErrOutOfMemory = errors.New("rasterpaint: out of memory")

	// ErrInvalidProperty reports an unknown property name passed to
	// SetProperty or GetProperty, or a value of the wrong type.
	ErrInvalidProperty = errors.New("rasterpaint: invalid property")
)
