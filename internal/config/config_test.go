package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FORMSTATE_CONFIG", "")

	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
form:
  definition: forms/signup.json
storage:
  backend: bolt
  path: data/forms.bolt
  debounce: 250ms
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMSTATE_STORAGE_CODEC", "yaml")
	t.Setenv("FORMSTATE_HTTP_ADDR", ":9090")
	t.Setenv("FORMSTATE_HTTP_TEMPLATES", dir)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Form.Definition = "forms/signup.json"
	want.Storage.Backend = "bolt"
	want.Storage.Path = "data/forms.bolt"
	want.Storage.Debounce = 250 * time.Millisecond
	want.Storage.Codec = "yaml"
	want.Log.Level = "debug"
	want.HTTP.Addr = ":9090"
	want.HTTP.Templates = dir
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ConfigEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: memory\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMSTATE_CONFIG", path)

	got, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Storage.Backend != "memory" {
		t.Fatalf("expected memory backend, got %q", got.Storage.Backend)
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	templatesDir := t.TempDir()
	templateFile := filepath.Join(templatesDir, "page.tmpl")
	if err := os.WriteFile(templateFile, []byte("{{ body }}"), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "sqlite", mutate: func(c *Config) { c.Storage.Backend = "sqlite" }, ok: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }},
		{name: "unknown codec", mutate: func(c *Config) { c.Storage.Codec = "toml" }},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }},
		{name: "negative debounce", mutate: func(c *Config) { c.Storage.Debounce = -time.Second }},
		{name: "templates dir", mutate: func(c *Config) { c.HTTP.Templates = templatesDir }, ok: true},
		{name: "templates file", mutate: func(c *Config) { c.HTTP.Templates = templateFile }},
		{name: "templates missing", mutate: func(c *Config) { c.HTTP.Templates = filepath.Join(templatesDir, "nope") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
