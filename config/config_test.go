package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Http.Port != 5001 || cfg.Artifacts.ColumnsPath != "./Columnsnew.json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Addr() != "0.0.0.0:5001" {
		t.Fatalf("unexpected addr %s", cfg.Addr())
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yaml")
	content := `
http:
  port: 8080
  timeout: 5s
artifacts:
  columns_path: /srv/columns.json
  model_path: /srv/model.json
  model_type: decision_tree
database:
  path: /srv/history.db
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MODEL_PATH", "/override/model.json")
	t.Setenv("ESTATE_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Http.Port != 9090 {
		t.Errorf("expected env port override, got %d", cfg.Http.Port)
	}
	if cfg.Http.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Http.Timeout)
	}
	if cfg.Artifacts.ModelPath != "/override/model.json" {
		t.Errorf("expected env model path, got %s", cfg.Artifacts.ModelPath)
	}
	if cfg.Artifacts.ColumnsPath != "/srv/columns.json" || cfg.Artifacts.ModelType != "decision_tree" {
		t.Errorf("yaml values not applied: %+v", cfg.Artifacts)
	}
	if cfg.Format.LargeLabel != "Crs" {
		t.Errorf("defaults should survive partial yaml, got %q", cfg.Format.LargeLabel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("COLUMNS_PATH=/env/columns.json\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("COLUMNS_PATH") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Artifacts.ColumnsPath != "/env/columns.json" {
		t.Fatalf("expected .env override, got %s", cfg.Artifacts.ColumnsPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Http.Port = 70000 }},
		{"no columns path", func(c *Config) { c.Artifacts.ColumnsPath = "" }},
		{"log target unit", func(c *Config) { c.Format.PriceUnit = "log_rupees" }},
	}
	for _, tt := range tests {
		cfg := Default()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}
