//go:build highs

package solver

import (
	"fmt"
	"math"
	"sync"

	"github.com/bartolsthoorn/gohighs/highs"

	"lpbridge/pkg/model"
)

// highsBackend is the full mixed-integer profile, backed by the HiGHS engine
// through its cgo bindings. It is compiled in only under the 'highs' build
// tag; without the tag a static unavailable variant is registered instead.
type highsBackend struct{}

func init() { Register(highsBackend{}) }

const highsName = "highs"

func (highsBackend) Name() string { return highsName }

// highsProbe initializes the native engine at most once per process. The
// probe result is permanent for the process lifetime.
var highsProbe struct {
	once sync.Once
	ok   bool
}

func (highsBackend) Available() bool {
	highsProbe.once.Do(func() {
		s, err := highs.NewSolver()
		if err != nil {
			zlog.Warn().Err(err).Msg("highs engine failed to initialize")
			return
		}
		s.Close()
		highsProbe.ok = true
	})
	return highsProbe.ok
}

func (highsBackend) SupportsResolve() bool { return false }

// highsModel owns a live native solver instance holding the translated
// columns and rows. Column order follows the model's variable order, with
// the dummy sentinel skipped.
type highsModel struct {
	s    *highs.Solver
	cols []string       // column index -> variable name
	col  map[string]int // variable name -> column index
}

func (highsBackend) Build(m *model.Model, opts Options) (NativeModel, error) {
	if err := checkConstraintVars(highsName, m); err != nil {
		return nil, err
	}
	s, err := highs.NewSolver()
	if err != nil {
		return nil, ErrBuild(highsName, "create native solver", err)
	}
	ok := false
	defer func() {
		if !ok {
			s.Close()
		}
	}()

	inf := s.Infinity()
	clamp := func(x float64) float64 {
		if math.IsInf(x, -1) {
			return -inf
		}
		if math.IsInf(x, 1) {
			return inf
		}
		return x
	}

	nm := &highsModel{s: s, col: make(map[string]int)}
	for _, v := range m.Variables() {
		if v.IsDummy() {
			continue
		}
		idx := len(nm.cols)
		if err := s.AddVar(clamp(v.Lower), clamp(v.Upper)); err != nil {
			return nil, ErrBuild(highsName, fmt.Sprintf("add variable %q", v.Name), err)
		}
		if v.Kind == model.Integer && opts.IntegerModel {
			if err := s.SetColIntegrality(idx, highs.Integer); err != nil {
				return nil, ErrBuild(highsName, fmt.Sprintf("mark variable %q integer", v.Name), err)
			}
		}
		nm.cols = append(nm.cols, v.Name)
		nm.col[v.Name] = idx
	}

	for _, c := range m.Constraints {
		var index []int
		var value []float64
		for _, v := range m.Variables() {
			coef, present := c.Coefs[v.Name]
			if !present || coef == 0 || v.IsDummy() {
				continue
			}
			index = append(index, nm.col[v.Name])
			value = append(value, coef)
		}
		rhs := c.RHS()
		var lower, upper float64
		switch c.Sense {
		case model.Equal:
			lower, upper = rhs, rhs
		case model.LessOrEqual:
			lower, upper = -inf, rhs
		case model.GreaterOrEqual:
			lower, upper = rhs, inf
		default:
			return nil, ErrBuild(highsName, fmt.Sprintf("constraint %q has unknown sense %v", c.Name, c.Sense), nil)
		}
		if err := s.AddRow(lower, upper, index, value); err != nil {
			return nil, ErrBuild(highsName, fmt.Sprintf("add constraint %q", c.Name), err)
		}
	}

	if !m.Objective.IsFeasibilityOnly() {
		for _, v := range m.Variables() {
			coef := m.Objective.Coefs[v.Name]
			if coef == 0 || v.IsDummy() {
				continue
			}
			if err := s.SetColCost(nm.col[v.Name], coef); err != nil {
				return nil, ErrBuild(highsName, fmt.Sprintf("set objective coefficient for %q", v.Name), err)
			}
		}
		if err := s.SetMaximize(m.Objective.Direction == model.Maximize); err != nil {
			return nil, ErrBuild(highsName, "set objective sense", err)
		}
	}

	ok = true
	return nm, nil
}

func (highsBackend) Invoke(nm NativeModel, opts Options) (Outcome, error) {
	hm, ok := nm.(*highsModel)
	if !ok {
		return nil, ErrBuild(highsName, fmt.Sprintf("invoke on foreign native model %T", nm), nil)
	}
	s := hm.s
	if err := s.SetBoolOption("output_flag", opts.Verbose); err != nil {
		return nil, fmt.Errorf("highs: set output_flag: %w", err)
	}
	if opts.TimeLimit > 0 {
		if err := s.SetFloatOption("time_limit", opts.TimeLimit.Seconds()); err != nil {
			return nil, fmt.Errorf("highs: set time_limit: %w", err)
		}
	}
	if opts.LogPath != "" {
		if err := s.SetStringOption("log_file", opts.LogPath); err != nil {
			return nil, fmt.Errorf("highs: set log_file: %w", err)
		}
	}
	for name, val := range opts.Params {
		var err error
		switch v := val.(type) {
		case bool:
			err = s.SetBoolOption(name, v)
		case int:
			err = s.SetIntOption(name, v)
		case int64:
			err = s.SetIntOption(name, int(v))
		case float64:
			err = s.SetFloatOption(name, v)
		case string:
			err = s.SetStringOption(name, v)
		default:
			zlog.Warn().Str("param", name).Msgf("highs: ignoring parameter of type %T", val)
		}
		if err != nil {
			return nil, fmt.Errorf("highs: set parameter %q: %w", name, err)
		}
	}
	sol, err := s.Run()
	if err != nil {
		return nil, fmt.Errorf("highs: solve: %w", err)
	}
	return sol, nil
}

func (highsBackend) Map(out Outcome, nm NativeModel, m *model.Model) (model.Status, error) {
	sol, ok := out.(*highs.Solution)
	if !ok {
		return model.NotSolved, ErrBuild(highsName, fmt.Sprintf("map on foreign outcome %T", out), nil)
	}
	hm, ok := nm.(*highsModel)
	if !ok {
		return model.NotSolved, ErrBuild(highsName, fmt.Sprintf("map on foreign native model %T", nm), nil)
	}
	switch sol.Status {
	case highs.ModelStatusOptimal, highs.ModelStatusModelEmpty:
		// an empty model is trivially feasible; there are no values to copy
		for idx, name := range hm.cols {
			if v, ok := m.Variable(name); ok && idx < len(sol.ColValues) {
				v.SetValue(sol.ColValues[idx])
			}
		}
		return model.Optimal, nil
	case highs.ModelStatusInfeasible:
		return model.Infeasible, nil
	case highs.ModelStatusUnbounded:
		return model.Unbounded, nil
	default:
		// UnboundedOrInfeasible, limits hit, load/solve errors, unknown
		return model.NotSolved, nil
	}
}
