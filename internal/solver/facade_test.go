package solver

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"lpbridge/pkg/model"
)

// fakeBackend scripts every capability so facade transitions can be tested
// without a real engine.
type fakeBackend struct {
	name      string
	available bool
	resolve   bool

	buildErr  error
	invokeErr error
	status    model.Status
	values    map[string]float64

	builds  int
	invokes int
}

func (f *fakeBackend) Name() string          { return f.name }
func (f *fakeBackend) Available() bool       { return f.available }
func (f *fakeBackend) SupportsResolve() bool { return f.resolve }

func (f *fakeBackend) Build(m *model.Model, opts Options) (NativeModel, error) {
	f.builds++
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	return &struct{}{}, nil
}

func (f *fakeBackend) Invoke(nm NativeModel, opts Options) (Outcome, error) {
	f.invokes++
	if f.invokeErr != nil {
		return nil, f.invokeErr
	}
	return f.status, nil
}

func (f *fakeBackend) Map(out Outcome, nm NativeModel, m *model.Model) (model.Status, error) {
	st := out.(model.Status)
	if st == model.Optimal {
		for name, val := range f.values {
			if v, ok := m.Variable(name); ok {
				v.SetValue(val)
			}
		}
	}
	return st, nil
}

func testModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("fixture")
	_, err := m.NewVariable("x", model.Integer, 0, 10)
	require.NoError(t, err)
	m.AddConstraint(&model.Constraint{
		Name:     "cap",
		Coefs:    map[string]float64{"x": 1},
		Constant: -5,
		Sense:    model.LessOrEqual,
	})
	m.SetObjective(model.Objective{FeasibilityOnly: true})
	return m
}

func TestFacadeUnavailableFailsFast(t *testing.T) {
	be := &fakeBackend{name: "fake", available: false}
	f := NewFacade(be, DefaultOptions())
	m := testModel(t)

	st, err := f.Solve(m)
	require.Error(t, err)
	require.True(t, IsUnavailable(err))
	require.Equal(t, model.NotSolved, st)
	require.Zero(t, be.builds, "unavailable backend must never be asked to build")
}

func TestFacadeBuildErrorLeavesModelUntouched(t *testing.T) {
	be := &fakeBackend{name: "fake", available: true, buildErr: ErrUnsupportedFeature("fake", "scripted")}
	f := NewFacade(be, DefaultOptions())
	m := testModel(t)

	st, err := f.Solve(m)
	require.Error(t, err)
	require.True(t, IsUnsupportedFeature(err))
	require.Equal(t, model.NotSolved, st)
	require.Equal(t, model.NotSolved, m.Status)

	// change markers survive a failed build
	v, _ := m.Variable("x")
	require.True(t, v.Modified)
	require.True(t, m.Constraints[0].Modified)
	require.Zero(t, be.invokes)
}

func TestFacadeInvokeErrorClearsFlags(t *testing.T) {
	be := &fakeBackend{name: "fake", available: true, invokeErr: errors.New("engine crashed")}
	f := NewFacade(be, DefaultOptions())
	m := testModel(t)

	st, err := f.Solve(m)
	require.Error(t, err)
	require.Equal(t, model.NotSolved, st)
	require.Equal(t, model.NotSolved, m.Status)

	v, _ := m.Variable("x")
	require.False(t, v.Modified)
	require.False(t, m.Constraints[0].Modified)
}

func TestFacadeOptimalWritesValuesAndClearsFlags(t *testing.T) {
	be := &fakeBackend{
		name: "fake", available: true,
		status: model.Optimal,
		values: map[string]float64{"x": 4},
	}
	f := NewFacade(be, DefaultOptions())
	m := testModel(t)

	st, err := f.Solve(m)
	require.NoError(t, err)
	require.Equal(t, model.Optimal, st)
	require.Equal(t, model.Optimal, m.Status)

	v, _ := m.Variable("x")
	val, solved := v.Value()
	require.True(t, solved)
	require.Equal(t, 4.0, val)
	require.False(t, v.Modified)
	require.False(t, m.Constraints[0].Modified)
}

func TestFacadeInfeasibleWritesNoValues(t *testing.T) {
	be := &fakeBackend{name: "fake", available: true, status: model.Infeasible}
	f := NewFacade(be, DefaultOptions())
	m := testModel(t)

	st, err := f.Solve(m)
	require.NoError(t, err)
	require.Equal(t, model.Infeasible, st)
	require.Equal(t, model.Infeasible, m.Status)

	v, _ := m.Variable("x")
	_, solved := v.Value()
	require.False(t, solved)
}

func TestFacadeLogsStateTransitions(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	defer SetLogger(zerolog.Nop())

	be := &fakeBackend{name: "fake", available: true, status: model.Optimal}
	f := NewFacade(be, DefaultOptions())

	_, err := f.Solve(testModel(t))
	require.NoError(t, err)

	logs := buf.String()
	require.Contains(t, logs, `"state":"building"`)
	require.Contains(t, logs, `"state":"solving"`)
	require.Contains(t, logs, `"state":"mapping"`)
}

func TestFacadeResolveNotSupported(t *testing.T) {
	be := &fakeBackend{name: "fake", available: true, status: model.Optimal}
	f := NewFacade(be, DefaultOptions())
	m := testModel(t)

	_, err := f.Solve(m)
	require.NoError(t, err)

	_, err = f.Resolve(m)
	require.Error(t, err)
	require.True(t, IsResolveNotSupported(err))
}

func TestFacadeResolveBeforeSolveIsBuildError(t *testing.T) {
	be := &fakeBackend{name: "fake", available: true, resolve: true, status: model.Optimal}
	f := NewFacade(be, DefaultOptions())
	m := testModel(t)

	_, err := f.Resolve(m)
	require.Error(t, err)
	require.True(t, IsBuildError(err))
}

func TestFacadeResolveReusesNativeModel(t *testing.T) {
	be := &fakeBackend{
		name: "fake", available: true, resolve: true,
		status: model.Optimal,
		values: map[string]float64{"x": 2},
	}
	f := NewFacade(be, DefaultOptions())
	m := testModel(t)

	_, err := f.Solve(m)
	require.NoError(t, err)
	require.Equal(t, 1, be.builds)

	st, err := f.Resolve(m)
	require.NoError(t, err)
	require.Equal(t, model.Optimal, st)
	require.Equal(t, 1, be.builds, "resolve must not rebuild")
	require.Equal(t, 2, be.invokes)
}

func TestFacadeResolveDifferentModelRejected(t *testing.T) {
	be := &fakeBackend{name: "fake", available: true, resolve: true, status: model.Optimal}
	f := NewFacade(be, DefaultOptions())

	_, err := f.Solve(testModel(t))
	require.NoError(t, err)

	_, err = f.Resolve(testModel(t))
	require.Error(t, err)
	require.True(t, IsBuildError(err))
}

func TestNewFacadeForUnknownBackend(t *testing.T) {
	_, err := NewFacadeFor("no-such-engine", DefaultOptions())
	require.Error(t, err)
}
