//go:build !highs

package solver

// Without the 'highs' build tag the HiGHS engine is not linked in. The
// backend name stays registered so callers get a proper unavailable error
// instead of an unknown-backend one.
func init() {
	Register(unavailableBackend{
		name:   "highs",
		reason: "binary built without the highs build tag",
	})
}
