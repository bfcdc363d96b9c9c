package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadTOMLKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TomlConfigName)
	writeFile(t, path, `
[check]
exclude = ["third_party/**"]
jobs = 4

[cache]
enabled = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Check.Jobs != 4 || !cfg.Cache.Enabled {
		t.Errorf("explicit values not applied: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Check.Exclude, []string{"third_party/**"}) {
		t.Errorf("unexpected exclude %v", cfg.Check.Exclude)
	}
	if !reflect.DeepEqual(cfg.Check.Include, DefaultIncludes) {
		t.Errorf("include should default, got %v", cfg.Check.Include)
	}
	if cfg.Check.Format != "pretty" || cfg.Check.MaxDiagnostics != 100 || cfg.Trace.Level != "off" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Root() != dir || cfg.CacheDir() != filepath.Join(dir, ".shadercheck") {
		t.Errorf("unexpected root/cache dir %q %q", cfg.Root(), cfg.CacheDir())
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, YamlConfigName)
	writeFile(t, path, `
check:
  include: ["shaders/**/*.gdshader"]
  format: short
trace:
  level: detail
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Check.Include, []string{"shaders/**/*.gdshader"}) {
		t.Errorf("unexpected include %v", cfg.Check.Include)
	}
	if cfg.Check.Format != "short" || cfg.Trace.Level != "detail" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Check.MaxDiagnostics != 100 {
		t.Errorf("default max_diagnostics lost, got %d", cfg.Check.MaxDiagnostics)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown toml key", TomlConfigName, "[check]\nthreads = 3\n", "unknown keys"},
		{"unknown yaml key", YamlConfigName, "check:\n  threads: 3\n", "failed to parse YAML"},
		{"bad format", TomlConfigName, "[check]\nformat = \"xml\"\n", "[check].format"},
		{"negative jobs", TomlConfigName, "[check]\njobs = -1\n", "[check].jobs"},
		{"bad trace level", YamlConfigName, "trace:\n  level: loud\n", "[trace].level"},
		{"broken toml", TomlConfigName, "[check\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, YamlConfigName), "check:\n  jobs: 2\n")
	writeFile(t, filepath.Join(root, TomlConfigName), "[check]\njobs = 3\n")

	path, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if filepath.Base(path) != TomlConfigName {
		t.Errorf("toml should win over yaml, got %s", path)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Check.Jobs != 3 {
		t.Errorf("expected jobs=3 from toml, got %d", cfg.Check.Jobs)
	}
}

func TestDiscoverWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := FindConfig(dir); !errors.Is(err, ErrConfigNotFound) {
		// a config somewhere above the temp dir would make this test meaningless
		t.Skipf("config found above temp dir: %v", err)
	}
	cfg, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written config: %v", err)
	}
	want := DefaultConfig()
	want.Path = path
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", want, cfg)
	}

	if _, err := WriteDefault(dir); !errors.Is(err, ErrConfigExists) {
		t.Errorf("expected ErrConfigExists, got %v", err)
	}
}
