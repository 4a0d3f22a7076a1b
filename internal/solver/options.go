package solver

import "time"

// Options carries the per-solve configuration recognized by every backend.
// Backends ignore what they cannot honor, except where doing so would change
// correctness (documented per backend).
type Options struct {
	// IntegerModel requests integer handling of Integer variables. When
	// false, backends that support it relax integrality; inherently
	// integer-only backends ignore the flag.
	IntegerModel bool

	// Verbose enables backend progress messages.
	Verbose bool

	// TimeLimit is an advisory wall-clock bound passed to the engine. Zero
	// means no limit. The adapter never preempts a running solve itself.
	TimeLimit time.Duration

	// WarmStart requests reuse of a previous solution as a starting point.
	// Backends without warm-start support ignore it.
	WarmStart bool

	// LogPath is a file where backend-native trace output is written, for
	// engines that support it.
	LogPath string

	// Params is an opaque backend-specific parameter bag, passed through
	// uninterpreted.
	Params map[string]any
}

// DefaultOptions returns the options a facade uses when none are given.
func DefaultOptions() Options {
	return Options{IntegerModel: true}
}
