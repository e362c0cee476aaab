package correction

import "errors"

// Sentinel errors for corrections.
var (
	// ErrUnknownFixer is returned for a reference that is neither a
	// built-in nor a readable correction file.
	ErrUnknownFixer = errors.New("correction: unknown fixer")

	// ErrNoEntryPoint is returned when a correction file has no
	// fix_objects key.
	ErrNoEntryPoint = errors.New("correction: no fix_objects entry point")

	// ErrInvalidRules is returned when a correction file cannot be parsed
	// or a step is malformed.
	ErrInvalidRules = errors.New("correction: invalid rules")

	// ErrSplitDirection is returned when a split address names no known
	// direction.
	ErrSplitDirection = errors.New("correction: cannot find direction in address name")
)
