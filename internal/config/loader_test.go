package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "cfg.yaml", `
addr: ":9090"
backend: gini
log_level: debug
verbose: true
time_limit_seconds: 2.5
params:
  presolve: "off"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" || cfg.Backend != "gini" || cfg.LogLevel != "debug" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !cfg.Verbose || cfg.TimeLimitSeconds != 2.5 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Params["presolve"] != "off" {
		t.Fatalf("Params = %+v", cfg.Params)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "cfg.json", `{"addr": ":8081", "backend": "highs"}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8081" || cfg.Backend != "highs" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "cfg.toml", "backend = \"gophersat\"\nlog_path = \"/tmp/solve.log\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != "gophersat" || cfg.LogPath != "/tmp/solve.log" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := writeFile(t, "cfg.ini", "[main]\naddr=:80\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
