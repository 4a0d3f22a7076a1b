// Package modelfile loads declarative model documents and converts them into
// the generic model view.
package modelfile

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"lpbridge/internal/common/fsutil"
	"lpbridge/pkg/model"
	"lpbridge/pkg/types"
)

// Load reads a model document based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (types.ModelSpec, error) {
	var spec types.ModelSpec
	if path == "" {
		return spec, fmt.Errorf("empty model path")
	}
	path, err := fsutil.ExpandHome(path)
	if err != nil {
		return spec, err
	}
	if !fsutil.PathExists(path) {
		return spec, fmt.Errorf("model file not found: %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return spec, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &spec); err != nil {
			return spec, err
		}
	case ".json":
		if err := json.Unmarshal(b, &spec); err != nil {
			return spec, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &spec); err != nil {
			return spec, err
		}
	default:
		return spec, fmt.Errorf("unsupported model file extension: %s", ext)
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return spec, nil
}

// Build converts a declarative spec into a generic model.
func Build(spec types.ModelSpec) (*model.Model, error) {
	m := model.New(spec.Name)
	for _, vs := range spec.Variables {
		kind, err := parseKind(vs.Kind)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", vs.Name, err)
		}
		lower := math.Inf(-1)
		if vs.Lower != nil {
			lower = *vs.Lower
		}
		upper := math.Inf(1)
		if vs.Upper != nil {
			upper = *vs.Upper
		}
		if _, err := m.NewVariable(vs.Name, kind, lower, upper); err != nil {
			return nil, err
		}
	}
	for i, cs := range spec.Constraints {
		sense, err := parseSense(cs.Sense)
		if err != nil {
			return nil, fmt.Errorf("constraint %q: %w", cs.Name, err)
		}
		name := cs.Name
		if name == "" {
			name = fmt.Sprintf("c%d", i+1)
		}
		m.AddConstraint(&model.Constraint{
			Name:     name,
			Coefs:    cs.Terms,
			Constant: cs.Constant,
			Sense:    sense,
		})
	}
	if spec.Objective != nil {
		dir, err := parseDirection(spec.Objective.Direction)
		if err != nil {
			return nil, err
		}
		m.SetObjective(model.Objective{
			Coefs:           spec.Objective.Terms,
			Direction:       dir,
			FeasibilityOnly: spec.Objective.FeasibilityOnly,
		})
	} else {
		m.SetObjective(model.Objective{FeasibilityOnly: true})
	}
	return m, nil
}

func parseKind(s string) (model.VarKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "integer", "int", "":
		return model.Integer, nil
	case "continuous", "real":
		return model.Continuous, nil
	default:
		return 0, fmt.Errorf("unknown variable kind %q", s)
	}
}

func parseSense(s string) (model.Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eq", "=", "==":
		return model.Equal, nil
	case "le", "<=":
		return model.LessOrEqual, nil
	case "ge", ">=":
		return model.GreaterOrEqual, nil
	default:
		return 0, fmt.Errorf("unknown constraint sense %q", s)
	}
}

func parseDirection(s string) (model.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "min", "minimize", "":
		return model.Minimize, nil
	case "max", "maximize":
		return model.Maximize, nil
	default:
		return 0, fmt.Errorf("unknown objective direction %q", s)
	}
}
