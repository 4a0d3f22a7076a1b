package solver

import "fmt"

// unavailableError signals that a backend's native engine is not present in
// this build or environment. Permanent for the process lifetime.
type unavailableError struct{ backend, reason string }

func (e unavailableError) Error() string {
	if e.reason != "" {
		return "backend " + e.backend + " not available: " + e.reason
	}
	return "backend " + e.backend + " not available"
}

// ErrBackendUnavailable constructs an unavailable-backend error.
func ErrBackendUnavailable(backend, reason string) error {
	return unavailableError{backend: backend, reason: reason}
}

// IsUnavailable reports whether err indicates a missing backend engine.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}

// unsupportedFeatureError signals that the model uses a construct this
// backend cannot encode. Fatal to the current solve only.
type unsupportedFeatureError struct{ backend, feature string }

func (e unsupportedFeatureError) Error() string {
	return e.backend + ": unsupported model feature: " + e.feature
}

// ErrUnsupportedFeature constructs an unsupported-feature error naming the
// offending construct.
func ErrUnsupportedFeature(backend, format string, args ...any) error {
	return unsupportedFeatureError{backend: backend, feature: fmt.Sprintf(format, args...)}
}

// IsUnsupportedFeature reports whether err indicates a model construct the
// backend cannot represent.
func IsUnsupportedFeature(err error) bool {
	_, ok := err.(unsupportedFeatureError)
	return ok
}

// buildError signals a malformed model or a native build failure.
type buildError struct {
	backend string
	msg     string
	cause   error
}

func (e buildError) Error() string {
	if e.cause != nil {
		return e.backend + ": build failed: " + e.msg + ": " + e.cause.Error()
	}
	return e.backend + ": build failed: " + e.msg
}

func (e buildError) Unwrap() error { return e.cause }

// ErrBuild constructs a build error.
func ErrBuild(backend, msg string, cause error) error {
	return buildError{backend: backend, msg: msg, cause: cause}
}

// IsBuildError reports whether err indicates a failed model translation.
func IsBuildError(err error) bool {
	_, ok := err.(buildError)
	return ok
}

// resolveNotSupportedError signals a resolve request on a backend without
// incremental support.
type resolveNotSupportedError struct{ backend string }

func (e resolveNotSupportedError) Error() string {
	return e.backend + ": resolving is not supported"
}

// ErrResolveNotSupported constructs a resolve-not-supported error.
func ErrResolveNotSupported(backend string) error {
	return resolveNotSupportedError{backend: backend}
}

// IsResolveNotSupported reports whether err indicates a resolve request on a
// backend without incremental support.
func IsResolveNotSupported(err error) bool {
	_, ok := err.(resolveNotSupportedError)
	return ok
}
