// Package solvesvc glues the declarative payloads of pkg/types onto the
// adapter layer: one request, one solve transaction, one response.
package solvesvc

import (
	"context"
	"time"

	"lpbridge/internal/modelfile"
	"lpbridge/internal/solver"
	"lpbridge/pkg/model"
	"lpbridge/pkg/types"
)

// Service executes solve requests against registered backends.
type Service struct {
	defaultBackend string
	defaults       solver.Options
}

// New builds a service. defaultBackend is used when a request names none.
func New(defaultBackend string, defaults solver.Options) *Service {
	return &Service{defaultBackend: defaultBackend, defaults: defaults}
}

// Backends lists the registered backends with their capability flags.
func (s *Service) Backends() []types.BackendInfo {
	names := solver.Names()
	out := make([]types.BackendInfo, 0, len(names))
	for _, name := range names {
		be, err := solver.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, types.BackendInfo{
			Name:            be.Name(),
			Available:       be.Available(),
			SupportsResolve: be.SupportsResolve(),
		})
	}
	return out
}

// Ready reports whether at least one backend is usable.
func (s *Service) Ready() bool {
	for _, b := range s.Backends() {
		if b.Available {
			return true
		}
	}
	return false
}

// mergeOptions overlays per-request options onto the service defaults.
// Fields the request omits keep the default.
func mergeOptions(defaults solver.Options, o *types.SolveOptions) solver.Options {
	opts := defaults
	if o == nil {
		return opts
	}
	if o.IntegerModel != nil {
		opts.IntegerModel = *o.IntegerModel
	}
	if o.Verbose != nil {
		opts.Verbose = *o.Verbose
	}
	if o.TimeLimitSeconds > 0 {
		opts.TimeLimit = time.Duration(o.TimeLimitSeconds * float64(time.Second))
	}
	if o.WarmStart != nil {
		opts.WarmStart = *o.WarmStart
	}
	if o.LogPath != "" {
		opts.LogPath = o.LogPath
	}
	if len(o.Params) > 0 {
		opts.Params = o.Params
	}
	return opts
}

// Solve runs one solve transaction. Errors keep their solver taxonomy so the
// HTTP layer can map them onto status codes.
func (s *Service) Solve(ctx context.Context, req types.SolveRequest) (types.SolveResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.SolveResponse{}, err
	}
	name := req.Backend
	if name == "" {
		name = s.defaultBackend
	}
	be, err := solver.Lookup(name)
	if err != nil {
		return types.SolveResponse{}, err
	}
	m, err := modelfile.Build(req.Model)
	if err != nil {
		return types.SolveResponse{}, solver.ErrBuild(name, "invalid model", err)
	}

	opts := mergeOptions(s.defaults, req.Options)

	start := time.Now()
	st, err := solver.NewFacade(be, opts).Solve(m)
	if err != nil {
		return types.SolveResponse{}, err
	}

	resp := types.SolveResponse{
		Backend:    be.Name(),
		Status:     st.String(),
		DurationMS: time.Since(start).Milliseconds(),
	}
	if st == model.Optimal {
		resp.Values = make(map[string]float64)
		for _, v := range m.Variables() {
			if v.IsDummy() {
				continue
			}
			if val, solved := v.Value(); solved {
				resp.Values[v.Name] = val
			}
		}
		if !m.Objective.IsFeasibilityOnly() {
			if obj, err := m.ObjectiveValue(); err == nil {
				resp.Objective = &obj
			}
		}
	}
	return resp, nil
}
