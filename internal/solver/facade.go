package solver

import (
	"time"

	"lpbridge/pkg/model"
)

// facadeState tracks where a facade is inside a solve transaction. The
// transitions are Idle -> Building -> Solving -> MappingResult -> Idle; any
// failure aborts back to Idle.
type facadeState int

const (
	stateIdle facadeState = iota
	stateBuilding
	stateSolving
	stateMapping
)

func (s facadeState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateBuilding:
		return "building"
	case stateSolving:
		return "solving"
	case stateMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Facade runs solve transactions against one backend. It is not safe for
// concurrent use: a facade assumes exclusive ownership of the model for the
// duration of a call. Separate facades for different backends or models may
// run concurrently.
type Facade struct {
	be    Backend
	opts  Options
	state facadeState

	// native state retained only to serve Resolve on backends that
	// support it; rebuilt from scratch on every Solve.
	native    NativeModel
	lastModel *model.Model
}

// NewFacade wraps a backend with the given options.
func NewFacade(be Backend, opts Options) *Facade {
	return &Facade{be: be, opts: opts}
}

// NewFacadeFor looks the backend up by name and wraps it.
func NewFacadeFor(name string, opts Options) (*Facade, error) {
	be, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewFacade(be, opts), nil
}

// Backend returns the wrapped backend.
func (f *Facade) Backend() Backend { return f.be }

// Solve runs one full transaction: probe, build a fresh native model, invoke
// the engine, map the outcome back onto m. On a build error the model is left
// exactly as it was. On a solve or mapping error the model's status is
// NotSolved and prior variable values are untouched.
func (f *Facade) Solve(m *model.Model) (model.Status, error) {
	if !f.be.Available() {
		return model.NotSolved, ErrBackendUnavailable(f.be.Name(), "")
	}

	f.state = stateBuilding
	defer func() { f.state = stateIdle }()

	start := time.Now()
	zlog.Debug().Str("backend", f.be.Name()).Str("model", m.Name).Stringer("state", f.state).Msg("building native model")
	nm, err := f.be.Build(m, f.opts)
	if err != nil {
		return model.NotSolved, err
	}

	f.state = stateSolving
	zlog.Debug().Str("backend", f.be.Name()).Str("model", m.Name).Stringer("state", f.state).Msg("invoking engine")
	out, err := f.be.Invoke(nm, f.opts)
	if err != nil {
		m.Status = model.NotSolved
		clearModified(m)
		return model.NotSolved, err
	}

	f.state = stateMapping
	zlog.Debug().Str("backend", f.be.Name()).Str("model", m.Name).Stringer("state", f.state).Msg("mapping engine output")
	st, err := f.be.Map(out, nm, m)
	clearModified(m)
	m.Status = st
	f.native = nm
	f.lastModel = m

	zlog.Info().
		Str("backend", f.be.Name()).
		Str("model", m.Name).
		Stringer("status", st).
		Dur("dur", time.Since(start)).
		Msg("solve finished")
	return st, err
}

// Resolve re-solves reusing the native state retained from the last Solve of
// the same model. Backends without incremental support fail fast rather than
// silently rebuilding, because callers rely on resolve's cost
// characteristics.
func (f *Facade) Resolve(m *model.Model) (model.Status, error) {
	if !f.be.Available() {
		return model.NotSolved, ErrBackendUnavailable(f.be.Name(), "")
	}
	if !f.be.SupportsResolve() {
		return model.NotSolved, ErrResolveNotSupported(f.be.Name())
	}
	if f.native == nil || f.lastModel != m {
		return model.NotSolved, ErrBuild(f.be.Name(), "resolve requested before a successful solve of this model", nil)
	}

	f.state = stateSolving
	defer func() { f.state = stateIdle }()
	zlog.Debug().Str("backend", f.be.Name()).Str("model", m.Name).Stringer("state", f.state).Msg("re-invoking engine")

	out, err := f.be.Invoke(f.native, f.opts)
	if err != nil {
		m.Status = model.NotSolved
		clearModified(m)
		return model.NotSolved, err
	}

	f.state = stateMapping
	st, err := f.be.Map(out, f.native, m)
	clearModified(m)
	m.Status = st
	return st, err
}
