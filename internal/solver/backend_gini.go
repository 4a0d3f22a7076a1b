package solver

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"lpbridge/pkg/model"
)

// giniBackend encodes 0/1 feasibility models for the gini SAT engine.
// Linear constraints are restricted to cardinality form (coefficients of
// plus or minus one) and are compiled to sorting networks via gini's logic
// package. The engine is incremental, so this backend supports resolve: the
// retained native solver keeps its learned state between invocations.
type giniBackend struct{}

func init() { Register(giniBackend{}) }

const giniName = "gini"

func (giniBackend) Name() string { return giniName }

// Available is always true: the engine is pure Go and compiled in.
func (giniBackend) Available() bool { return true }

func (giniBackend) SupportsResolve() bool { return true }

type giniVar struct {
	name string
	lit  z.Lit
}

type giniModel struct {
	g    *gini.Gini
	vars []giniVar

	// infeasible marks a cardinality threshold proven unreachable during
	// encoding; the engine is never consulted in that case.
	infeasible bool
}

type giniOutcome struct {
	res int // 1 sat, -1 unsat, 0 undetermined
	g   *gini.Gini
}

func (giniBackend) Build(m *model.Model, opts Options) (NativeModel, error) {
	if err := checkConstraintVars(giniName, m); err != nil {
		return nil, err
	}
	if !m.Objective.IsFeasibilityOnly() {
		return nil, ErrUnsupportedFeature(giniName, "linear objective (pure satisfiability engine)")
	}

	nm := &giniModel{}
	circ := logic.NewC()
	byName := make(map[string]z.Lit)
	var units []z.Lit

	for _, v := range m.Variables() {
		if v.IsDummy() {
			continue
		}
		if v.Kind != model.Integer {
			return nil, ErrUnsupportedFeature(giniName, "continuous variable %q", v.Name)
		}
		lb, okL := exactInt(v.Lower)
		ub, okU := exactInt(v.Upper)
		if !okL || !okU || lb < 0 || ub > 1 {
			return nil, ErrUnsupportedFeature(giniName, "variable %q is not binary (bounds [%v,%v])", v.Name, v.Lower, v.Upper)
		}
		lit := circ.Lit()
		if lb == 1 {
			units = append(units, lit)
		}
		if ub == 0 {
			units = append(units, lit.Not())
		}
		byName[v.Name] = lit
		nm.vars = append(nm.vars, giniVar{name: v.Name, lit: lit})
	}

	for _, c := range m.Constraints {
		rhs, ok := exactInt(c.RHS())
		if !ok {
			return nil, ErrUnsupportedFeature(giniName, "non-integral constant %v in constraint %q", c.Constant, c.Name)
		}
		var ms []z.Lit
		k := rhs
		for _, v := range m.Variables() {
			coef, present := c.Coefs[v.Name]
			if !present || coef == 0 || v.IsDummy() {
				continue
			}
			w, ok := exactInt(coef)
			if !ok {
				return nil, ErrUnsupportedFeature(giniName, "non-integral coefficient %v on %q in constraint %q", coef, v.Name, c.Name)
			}
			switch w {
			case 1:
				ms = append(ms, byName[v.Name])
			case -1:
				// -x == (not x) - 1 over 0/1 values
				ms = append(ms, byName[v.Name].Not())
				k++
			default:
				return nil, ErrUnsupportedFeature(giniName, "coefficient %v on %q in constraint %q (cardinality engine supports only ±1)", coef, v.Name, c.Name)
			}
		}
		n := len(ms)

		var sorted *logic.CardSort
		card := func() *logic.CardSort {
			if sorted == nil {
				sorted = circ.CardSort(ms)
			}
			return sorted
		}
		atLeast := func(k int) {
			if k <= 0 {
				return
			}
			if k > n {
				nm.infeasible = true
				return
			}
			units = append(units, card().Geq(k))
		}
		atMost := func(k int) {
			if k >= n {
				return
			}
			if k < 0 {
				nm.infeasible = true
				return
			}
			units = append(units, card().Leq(k))
		}

		switch c.Sense {
		case model.GreaterOrEqual:
			atLeast(k)
		case model.LessOrEqual:
			atMost(k)
		case model.Equal:
			atLeast(k)
			atMost(k)
		default:
			return nil, ErrBuild(giniName, fmt.Sprintf("constraint %q has unknown sense %v", c.Name, c.Sense), nil)
		}
	}

	g := gini.New()
	circ.ToCnf(g)
	for _, u := range units {
		g.Add(u)
		g.Add(z.LitNull)
	}
	nm.g = g
	return nm, nil
}

func (giniBackend) Invoke(nm NativeModel, opts Options) (Outcome, error) {
	gm, ok := nm.(*giniModel)
	if !ok {
		return nil, ErrBuild(giniName, fmt.Sprintf("invoke on foreign native model %T", nm), nil)
	}
	if gm.infeasible {
		return &giniOutcome{res: -1}, nil
	}
	var res int
	if opts.TimeLimit > 0 {
		res = gm.g.Try(opts.TimeLimit)
	} else {
		res = gm.g.Solve()
	}
	return &giniOutcome{res: res, g: gm.g}, nil
}

func (giniBackend) Map(out Outcome, nm NativeModel, m *model.Model) (model.Status, error) {
	o, ok := out.(*giniOutcome)
	if !ok {
		return model.NotSolved, ErrBuild(giniName, fmt.Sprintf("map on foreign outcome %T", out), nil)
	}
	gm, ok := nm.(*giniModel)
	if !ok {
		return model.NotSolved, ErrBuild(giniName, fmt.Sprintf("map on foreign native model %T", nm), nil)
	}
	switch o.res {
	case 1:
		for _, gv := range gm.vars {
			val := 0.0
			if o.g.Value(gv.lit) {
				val = 1.0
			}
			if v, ok := m.Variable(gv.name); ok {
				v.SetValue(val)
			}
		}
		return model.Optimal, nil
	case -1:
		return model.Infeasible, nil
	default:
		return model.NotSolved, nil
	}
}
