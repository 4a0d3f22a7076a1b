package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the CLI and the solve service.
// Zero values mean "unspecified" and will be replaced by defaults in the CLI.
type Config struct {
	Addr             string         `json:"addr" yaml:"addr" toml:"addr"`
	Backend          string         `json:"backend" yaml:"backend" toml:"backend"`
	LogLevel         string         `json:"log_level" yaml:"log_level" toml:"log_level"`
	Verbose          bool           `json:"verbose" yaml:"verbose" toml:"verbose"`
	TimeLimitSeconds float64        `json:"time_limit_seconds" yaml:"time_limit_seconds" toml:"time_limit_seconds"`
	LogPath          string         `json:"log_path" yaml:"log_path" toml:"log_path"`
	Params           map[string]any `json:"params" yaml:"params" toml:"params"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
