// Package model holds the backend-agnostic representation of a linear
// optimization problem: variables with bounds and a kind, linear constraints
// with a comparison sense, and an optional linear objective. Solver backends
// only read this view and write back solved values and a status.
package model

import (
	"fmt"
	"math"
)

// DummyName is the reserved variable name historically used to mark a
// feasibility-only problem: an objective that references nothing but this
// sentinel has no real objective. New code should set
// Objective.FeasibilityOnly instead; the sentinel is kept as a compatibility
// shim for models migrated from that convention.
const DummyName = "__dummy"

// VarKind is the domain of a variable.
type VarKind int

const (
	Integer VarKind = iota
	Continuous
)

func (k VarKind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Continuous:
		return "continuous"
	default:
		return fmt.Sprintf("varkind(%d)", int(k))
	}
}

// Sense is the comparison of a constraint: sum(coef*var) + constant {sense} 0.
type Sense int

const (
	Equal Sense = iota
	LessOrEqual
	GreaterOrEqual
)

func (s Sense) String() string {
	switch s {
	case Equal:
		return "="
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	default:
		return fmt.Sprintf("sense(%d)", int(s))
	}
}

// Direction is the optimization direction of an objective.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

func (d Direction) String() string {
	if d == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Status is the shared outcome vocabulary across all backends. Backend-native
// status codes never cross the adapter boundary.
type Status int

const (
	NotSolved Status = iota
	Optimal
	Infeasible
	Unbounded
)

func (s Status) String() string {
	switch s {
	case NotSolved:
		return "not solved"
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Variable is a decision variable. Bounds may be open: math.Inf(-1) and
// math.Inf(1) denote "no bound". The solved value is absent until a backend
// reports an optimal solution.
type Variable struct {
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64

	// Modified is the "changed since last solve" bookkeeping flag. It is set
	// when the variable is created and cleared by the adapter after every
	// solve attempt.
	Modified bool

	value  float64
	solved bool
}

// Value returns the solved value and whether one has been assigned.
func (v *Variable) Value() (float64, bool) { return v.value, v.solved }

// SetValue records a solved value. Only status-mapping code should call this.
func (v *Variable) SetValue(x float64) {
	v.value = x
	v.solved = true
}

// ClearValue discards any previously solved value.
func (v *Variable) ClearValue() {
	v.value = 0
	v.solved = false
}

// IsDummy reports whether this is the reserved sentinel variable.
func (v *Variable) IsDummy() bool { return v.Name == DummyName }

// Fixed reports whether the bounds pin the variable to a single value.
func (v *Variable) Fixed() bool { return v.Lower == v.Upper }

// Constraint is a linear constraint: sum over Coefs of coef*var, plus
// Constant, compared to zero with Sense. Coefficients are keyed by variable
// name; every referenced name must exist in the owning model.
type Constraint struct {
	Name     string
	Coefs    map[string]float64
	Constant float64
	Sense    Sense

	// Modified mirrors Variable.Modified for constraints.
	Modified bool
}

// RHS returns the right-hand side of the equivalent form
// sum(coef*var) {sense} -constant.
func (c *Constraint) RHS() float64 { return -c.Constant }

// Objective is a linear objective. A FeasibilityOnly objective (or one whose
// coefficients reference nothing but the dummy sentinel) means the problem is
// a pure satisfiability query and no native objective is set.
type Objective struct {
	Coefs           map[string]float64
	Direction       Direction
	FeasibilityOnly bool
}

// IsFeasibilityOnly reports whether the objective denotes a pure
// satisfiability query.
func (o Objective) IsFeasibilityOnly() bool {
	if o.FeasibilityOnly {
		return true
	}
	for name, coef := range o.Coefs {
		if name != DummyName && coef != 0 {
			return false
		}
	}
	return true
}

// Model is the generic model view consumed by solver backends. Variables are
// ordered by creation; constraints by addition. The adapter layer never
// creates or destroys entities here, it only reads them and writes solved
// values and Status.
type Model struct {
	Name        string
	Constraints []*Constraint
	Objective   Objective
	Status      Status

	vars   []*Variable
	byName map[string]*Variable
}

// New returns an empty model.
func New(name string) *Model {
	return &Model{Name: name, byName: make(map[string]*Variable)}
}

// NewVariable creates a variable and adds it to the model. Names must be
// unique; bounds must satisfy lower <= upper.
func (m *Model) NewVariable(name string, kind VarKind, lower, upper float64) (*Variable, error) {
	if name == "" {
		return nil, fmt.Errorf("variable name is empty")
	}
	if _, dup := m.byName[name]; dup {
		return nil, fmt.Errorf("duplicate variable name %q", name)
	}
	if lower > upper {
		return nil, fmt.Errorf("variable %q: lower bound %v exceeds upper bound %v", name, lower, upper)
	}
	v := &Variable{Name: name, Kind: kind, Lower: lower, Upper: upper, Modified: true}
	m.vars = append(m.vars, v)
	m.byName[name] = v
	return v, nil
}

// NewFreeVariable creates a variable with open bounds on both sides.
func (m *Model) NewFreeVariable(name string, kind VarKind) (*Variable, error) {
	return m.NewVariable(name, kind, math.Inf(-1), math.Inf(1))
}

// Variables returns the ordered variable list. Callers must not reorder it.
func (m *Model) Variables() []*Variable { return m.vars }

// Variable looks a variable up by name.
func (m *Model) Variable(name string) (*Variable, bool) {
	v, ok := m.byName[name]
	return v, ok
}

// AddConstraint appends a constraint. Reference validation against the
// variable set happens at build time, so a model can be assembled in any
// order.
func (m *Model) AddConstraint(c *Constraint) {
	c.Modified = true
	m.Constraints = append(m.Constraints, c)
}

// SetObjective installs the objective.
func (m *Model) SetObjective(o Objective) { m.Objective = o }

// EvalExpr evaluates sum(coef*value) over solved variable values. It fails if
// a referenced variable is missing or has no solved value. The dummy sentinel
// is ignored.
func (m *Model) EvalExpr(coefs map[string]float64) (float64, error) {
	total := 0.0
	for name, coef := range coefs {
		if name == DummyName {
			continue
		}
		v, ok := m.byName[name]
		if !ok {
			return 0, fmt.Errorf("unknown variable %q", name)
		}
		val, solved := v.Value()
		if !solved {
			return 0, fmt.Errorf("variable %q has no solved value", name)
		}
		total += coef * val
	}
	return total, nil
}

// ConstraintHolds checks a constraint against the solved values within tol.
func (m *Model) ConstraintHolds(c *Constraint, tol float64) (bool, error) {
	lhs, err := m.EvalExpr(c.Coefs)
	if err != nil {
		return false, err
	}
	lhs += c.Constant
	switch c.Sense {
	case Equal:
		return math.Abs(lhs) <= tol, nil
	case LessOrEqual:
		return lhs <= tol, nil
	case GreaterOrEqual:
		return lhs >= -tol, nil
	default:
		return false, fmt.Errorf("constraint %q: unknown sense %v", c.Name, c.Sense)
	}
}

// ObjectiveValue evaluates the objective over the solved values. For a
// feasibility-only objective it returns 0.
func (m *Model) ObjectiveValue() (float64, error) {
	if m.Objective.IsFeasibilityOnly() {
		return 0, nil
	}
	return m.EvalExpr(m.Objective.Coefs)
}
