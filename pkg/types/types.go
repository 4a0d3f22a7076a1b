// Package types holds the declarative payloads shared by the model-file
// loader and the HTTP solve API.
package types

// ModelSpec is the declarative form of a generic model, as written in model
// files or posted to the solve endpoint.
type ModelSpec struct {
	Name        string           `json:"name" yaml:"name" toml:"name"`
	Variables   []VariableSpec   `json:"variables" yaml:"variables" toml:"variables"`
	Constraints []ConstraintSpec `json:"constraints" yaml:"constraints" toml:"constraints"`
	// Objective is optional; absent means a pure feasibility problem.
	Objective *ObjectiveSpec `json:"objective,omitempty" yaml:"objective,omitempty" toml:"objective,omitempty"`
}

// VariableSpec declares one decision variable. A nil bound means unbounded
// on that side.
type VariableSpec struct {
	Name  string   `json:"name" yaml:"name" toml:"name"`
	Kind  string   `json:"kind" yaml:"kind" toml:"kind"` // integer | continuous
	Lower *float64 `json:"lower,omitempty" yaml:"lower,omitempty" toml:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty" yaml:"upper,omitempty" toml:"upper,omitempty"`
}

// ConstraintSpec declares sum(terms) + constant {sense} 0.
type ConstraintSpec struct {
	Name     string             `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Terms    map[string]float64 `json:"terms" yaml:"terms" toml:"terms"`
	Constant float64            `json:"constant,omitempty" yaml:"constant,omitempty" toml:"constant,omitempty"`
	Sense    string             `json:"sense" yaml:"sense" toml:"sense"` // eq | le | ge (or =, <=, >=)
}

// ObjectiveSpec declares the linear objective.
type ObjectiveSpec struct {
	Terms           map[string]float64 `json:"terms" yaml:"terms" toml:"terms"`
	Direction       string             `json:"direction" yaml:"direction" toml:"direction"` // min | max
	FeasibilityOnly bool               `json:"feasibility_only,omitempty" yaml:"feasibility_only,omitempty" toml:"feasibility_only,omitempty"`
}

// SolveOptions is the wire form of per-solve configuration. Boolean fields
// are pointers so an omitted field keeps the server default instead of
// forcing false.
type SolveOptions struct {
	// IntegerModel defaults to true when omitted.
	IntegerModel     *bool          `json:"integer_model,omitempty" yaml:"integer_model,omitempty" toml:"integer_model,omitempty"`
	Verbose          *bool          `json:"verbose,omitempty" yaml:"verbose,omitempty" toml:"verbose,omitempty"`
	TimeLimitSeconds float64        `json:"time_limit_seconds,omitempty" yaml:"time_limit_seconds,omitempty" toml:"time_limit_seconds,omitempty"`
	WarmStart        *bool          `json:"warm_start,omitempty" yaml:"warm_start,omitempty" toml:"warm_start,omitempty"`
	LogPath          string         `json:"log_path,omitempty" yaml:"log_path,omitempty" toml:"log_path,omitempty"`
	Params           map[string]any `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
}

// SolveRequest is the POST /solve payload.
type SolveRequest struct {
	// Backend selects the engine; empty means the server default.
	Backend string        `json:"backend,omitempty"`
	Options *SolveOptions `json:"options,omitempty"`
	Model   ModelSpec     `json:"model"`
}

// SolveResponse reports one finished solve transaction.
type SolveResponse struct {
	Backend string `json:"backend"`
	Status  string `json:"status"`
	// Objective is present only for an optimal solve of a model with a
	// real objective.
	Objective  *float64           `json:"objective,omitempty"`
	Values     map[string]float64 `json:"values,omitempty"`
	DurationMS int64              `json:"duration_ms"`
}

// BackendInfo describes one registered backend.
type BackendInfo struct {
	Name            string `json:"name"`
	Available       bool   `json:"available"`
	SupportsResolve bool   `json:"supports_resolve"`
}

// BackendsResponse wraps GET /backends.
type BackendsResponse struct {
	Backends []BackendInfo `json:"backends"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
