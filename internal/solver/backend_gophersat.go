package solver

import (
	"fmt"
	"math"

	gophersat "github.com/crillab/gophersat/solver"

	"lpbridge/pkg/model"
)

// gophersatBackend encodes bounded-integer feasibility models as
// pseudo-Boolean problems for the pure-Go gophersat engine. It is the strict
// satisfiability profile: continuous variables (other than the dummy
// sentinel) and real objectives are unsupported features, and all numbers
// must be integral.
type gophersatBackend struct{}

func init() { Register(gophersatBackend{}) }

const gophersatName = "gophersat"

func (gophersatBackend) Name() string { return gophersatName }

// Available is always true: the engine is pure Go and compiled in.
func (gophersatBackend) Available() bool { return true }

func (gophersatBackend) SupportsResolve() bool { return false }

// gsVar is the binary encoding of one bounded integer variable:
// value = lb + sum(2^j * bits[j]). A pinned variable has no bits.
type gsVar struct {
	name string
	lb   int
	bits []int // positive literals, least significant first
}

// gsModel is the native model: the pseudo-Boolean problem plus the variable
// encoding table needed to decode a satisfying assignment.
type gsModel struct {
	vars    []gsVar
	problem *gophersat.Problem

	// infeasible marks a constraint proven violated during encoding
	// (threshold above the maximum attainable weight). trivial marks a
	// model that produced no pseudo-Boolean constraints at all.
	infeasible bool
	trivial    bool
}

// gsOutcome is the raw engine result.
type gsOutcome struct {
	status gophersat.Status
	values []bool
}

func (gophersatBackend) Build(m *model.Model, opts Options) (NativeModel, error) {
	if err := checkConstraintVars(gophersatName, m); err != nil {
		return nil, err
	}
	if !m.Objective.IsFeasibilityOnly() {
		return nil, ErrUnsupportedFeature(gophersatName, "linear objective (pure satisfiability engine)")
	}

	nm := &gsModel{}
	byName := make(map[string]*gsVar)
	var constrs []gophersat.PBConstr
	nextLit := 1

	addGtEq := func(lits []int, weights []int, k int) {
		c, keep, impossible := normGtEq(lits, weights, k)
		if impossible {
			nm.infeasible = true
			return
		}
		if keep {
			constrs = append(constrs, c)
		}
	}

	for _, v := range m.Variables() {
		if v.IsDummy() {
			continue
		}
		if v.Kind != model.Integer {
			return nil, ErrUnsupportedFeature(gophersatName, "continuous variable %q", v.Name)
		}
		if math.IsInf(v.Lower, 0) || math.IsInf(v.Upper, 0) {
			return nil, ErrUnsupportedFeature(gophersatName, "unbounded integer variable %q", v.Name)
		}
		lb, ok := exactInt(v.Lower)
		if !ok {
			return nil, ErrUnsupportedFeature(gophersatName, "non-integral lower bound %v on variable %q", v.Lower, v.Name)
		}
		ub, ok := exactInt(v.Upper)
		if !ok {
			return nil, ErrUnsupportedFeature(gophersatName, "non-integral upper bound %v on variable %q", v.Upper, v.Name)
		}

		gv := gsVar{name: v.Name, lb: lb}
		for width := ub - lb; width > 0; width >>= 1 {
			gv.bits = append(gv.bits, nextLit)
			nextLit++
		}
		if len(gv.bits) > 0 {
			// sum(2^j b_j) <= ub-lb, stated as the GtEq of its negation
			lits := make([]int, len(gv.bits))
			weights := make([]int, len(gv.bits))
			for j, bit := range gv.bits {
				lits[j] = bit
				weights[j] = -(1 << j)
			}
			addGtEq(lits, weights, -(ub - lb))
		}
		nm.vars = append(nm.vars, gv)
		byName[v.Name] = &nm.vars[len(nm.vars)-1]
	}

	for _, c := range m.Constraints {
		rhs, ok := exactInt(c.RHS())
		if !ok {
			return nil, ErrUnsupportedFeature(gophersatName, "non-integral constant %v in constraint %q", c.Constant, c.Name)
		}
		var lits []int
		var weights []int
		base := 0
		// walk variables in model order so encoding is deterministic
		for _, v := range m.Variables() {
			coef, present := c.Coefs[v.Name]
			if !present || coef == 0 || v.IsDummy() {
				continue
			}
			w, ok := exactInt(coef)
			if !ok {
				return nil, ErrUnsupportedFeature(gophersatName, "non-integral coefficient %v on %q in constraint %q", coef, v.Name, c.Name)
			}
			gv := byName[v.Name]
			base += w * gv.lb
			for j, bit := range gv.bits {
				lits = append(lits, bit)
				weights = append(weights, w<<j)
			}
		}
		k := rhs - base
		switch c.Sense {
		case model.GreaterOrEqual:
			addGtEq(lits, weights, k)
		case model.LessOrEqual:
			addGtEq(lits, negate(weights), -k)
		case model.Equal:
			addGtEq(lits, weights, k)
			addGtEq(lits, negate(weights), -k)
		default:
			return nil, ErrBuild(gophersatName, fmt.Sprintf("constraint %q has unknown sense %v", c.Name, c.Sense), nil)
		}
	}

	switch {
	case nm.infeasible:
	case len(constrs) == 0:
		nm.trivial = true
	default:
		nm.problem = gophersat.ParsePBConstrs(constrs)
	}
	return nm, nil
}

func (gophersatBackend) Invoke(nm NativeModel, opts Options) (Outcome, error) {
	gm, ok := nm.(*gsModel)
	if !ok {
		return nil, ErrBuild(gophersatName, fmt.Sprintf("invoke on foreign native model %T", nm), nil)
	}
	if gm.infeasible {
		return &gsOutcome{status: gophersat.Unsat}, nil
	}
	if gm.trivial {
		return &gsOutcome{status: gophersat.Sat}, nil
	}
	// TimeLimit is advisory and has no knob on this engine's plain solve
	// path; an over-limit search simply runs to completion.
	s := gophersat.New(gm.problem)
	s.Verbose = opts.Verbose
	status := s.Solve()
	out := &gsOutcome{status: status}
	if status == gophersat.Sat {
		out.values = s.Model()
	}
	return out, nil
}

func (gophersatBackend) Map(out Outcome, nm NativeModel, m *model.Model) (model.Status, error) {
	o, ok := out.(*gsOutcome)
	if !ok {
		return model.NotSolved, ErrBuild(gophersatName, fmt.Sprintf("map on foreign outcome %T", out), nil)
	}
	gm, ok := nm.(*gsModel)
	if !ok {
		return model.NotSolved, ErrBuild(gophersatName, fmt.Sprintf("map on foreign native model %T", nm), nil)
	}
	switch o.status {
	case gophersat.Sat:
		for _, gv := range gm.vars {
			val := gv.lb
			for j, bit := range gv.bits {
				if bit-1 < len(o.values) && o.values[bit-1] {
					val += 1 << j
				}
			}
			if v, ok := m.Variable(gv.name); ok {
				v.SetValue(float64(val))
			}
		}
		return model.Optimal, nil
	case gophersat.Unsat:
		return model.Infeasible, nil
	default:
		return model.NotSolved, nil
	}
}

// normGtEq rewrites sum(weights[i]*lits[i]) >= k with positive weights only,
// folding negative weights through literal negation. keep is false when the
// constraint is trivially true; impossible is true when no assignment can
// reach the threshold.
func normGtEq(lits []int, weights []int, k int) (c gophersat.PBConstr, keep, impossible bool) {
	nl := make([]int, 0, len(lits))
	nw := make([]int, 0, len(weights))
	for i, w := range weights {
		switch {
		case w == 0:
			continue
		case w < 0:
			nl = append(nl, -lits[i])
			nw = append(nw, -w)
			k += -w
		default:
			nl = append(nl, lits[i])
			nw = append(nw, w)
		}
	}
	if k <= 0 {
		return gophersat.PBConstr{}, false, false
	}
	sum := 0
	for _, w := range nw {
		sum += w
	}
	if k > sum {
		return gophersat.PBConstr{}, false, true
	}
	return gophersat.GtEq(nl, nw, k), true, false
}

func negate(weights []int) []int {
	out := make([]int, len(weights))
	for i, w := range weights {
		out[i] = -w
	}
	return out
}

// exactInt converts a float that is meant to be an integer. Reports false
// for fractional values and magnitudes beyond exact float64 integer range.
func exactInt(x float64) (int, bool) {
	r := math.Round(x)
	if math.Abs(x-r) > 1e-9 || math.Abs(r) > 1<<52 {
		return 0, false
	}
	return int(r), true
}
