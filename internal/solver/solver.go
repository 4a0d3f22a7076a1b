// Package solver is the adapter layer between the generic model view in
// pkg/model and interchangeable native solving engines. Each backend
// implements the Backend capability interface; the Facade runs one solve
// transaction (build, invoke, map) against a chosen backend.
package solver

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"lpbridge/pkg/model"
)

// NativeModel is the backend-specific encoding of a generic model. It is
// owned by exactly one solve transaction and must never be shared across
// backends. Its concrete type is private to the backend that built it.
type NativeModel any

// Outcome is the raw result of one native solve: a status code plus whatever
// handle the backend needs to read assigned values back. Its lifetime ends
// when Map finishes.
type Outcome any

// Backend is the capability interface every solver backend satisfies.
// Build, Invoke and Map must not retain references to the model past the
// call; only Map writes to it, and only solved values.
type Backend interface {
	// Name identifies the backend in the registry and in errors.
	Name() string

	// Available reports whether the native engine can be used in this
	// process. It is side-effect free apart from one-time engine probing
	// and is safe to call before anything else.
	Available() bool

	// SupportsResolve reports whether the backend can re-solve reusing
	// prior native state.
	SupportsResolve() bool

	// Build translates the model into a fresh native model. It fails with
	// an unsupported-feature error when the model uses a construct this
	// backend cannot encode, and must leave the model untouched.
	Build(m *model.Model, opts Options) (NativeModel, error)

	// Invoke runs the native solve synchronously and returns the raw
	// outcome.
	Invoke(nm NativeModel, opts Options) (Outcome, error)

	// Map converts the raw outcome into the shared status vocabulary and,
	// if and only if the status is Optimal, writes solved values onto the
	// model's variables.
	Map(out Outcome, nm NativeModel, m *model.Model) (model.Status, error)
}

var (
	regMu    sync.RWMutex
	registry = make(map[string]Backend)
)

// Register adds a backend to the process-wide registry. Backends register
// themselves from init, so the set is closed once the program starts.
func Register(b Backend) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := registry[b.Name()]; dup {
		panic("solver: duplicate backend registration: " + b.Name())
	}
	registry[b.Name()] = b
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (have %v)", name, names())
	}
	return b, nil
}

// Names returns the sorted names of all registered backends.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	return names()
}

func names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// zlog is the package logger. Silent unless installed via SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the adapter layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// unavailableBackend is the statically constructed variant used when an
// engine is compiled out or cannot be loaded. Every operation fails with the
// same unavailable error, so the facade needs no special casing.
type unavailableBackend struct {
	name   string
	reason string
}

func (u unavailableBackend) Name() string          { return u.name }
func (u unavailableBackend) Available() bool       { return false }
func (u unavailableBackend) SupportsResolve() bool { return false }

func (u unavailableBackend) Build(*model.Model, Options) (NativeModel, error) {
	return nil, ErrBackendUnavailable(u.name, u.reason)
}

func (u unavailableBackend) Invoke(NativeModel, Options) (Outcome, error) {
	return nil, ErrBackendUnavailable(u.name, u.reason)
}

func (u unavailableBackend) Map(Outcome, NativeModel, *model.Model) (model.Status, error) {
	return model.NotSolved, ErrBackendUnavailable(u.name, u.reason)
}

// checkConstraintVars verifies that every variable referenced by a
// constraint exists in the model's variable set. Backends call this before
// touching their native API so a malformed model fails as a build error, not
// a panic deep inside an engine.
func checkConstraintVars(backend string, m *model.Model) error {
	for _, c := range m.Constraints {
		for name := range c.Coefs {
			if _, ok := m.Variable(name); !ok {
				return ErrBuild(backend, fmt.Sprintf("constraint %q references unknown variable %q", c.Name, name), nil)
			}
		}
	}
	return nil
}

// clearModified resets the change markers after a solve attempt, successful
// or not. Build failures never reach this point, leaving the model exactly
// as it was.
func clearModified(m *model.Model) {
	for _, v := range m.Variables() {
		v.Modified = false
	}
	for _, c := range m.Constraints {
		c.Modified = false
	}
}
