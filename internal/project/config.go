package project

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultIncludes are the shader globs checked when [check].include is empty.
var DefaultIncludes = []string{"**/*.gdshader", "**/*.gdshaderinc", "**/*.shader"}

// CheckConfig is the [check] section.
type CheckConfig struct {
	Include        []string `toml:"include" yaml:"include"`
	Exclude        []string `toml:"exclude" yaml:"exclude"`
	Jobs           int      `toml:"jobs" yaml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics" yaml:"max_diagnostics"`
	Format         string   `toml:"format" yaml:"format"`
}

// CacheConfig is the [cache] section.
type CacheConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Dir     string `toml:"dir" yaml:"dir"`
}

// TraceConfig is the [trace] section.
type TraceConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Config is the project configuration read from shadercheck.toml or
// .shadercheck.yaml.
type Config struct {
	Check CheckConfig `toml:"check" yaml:"check"`
	Cache CacheConfig `toml:"cache" yaml:"cache"`
	Trace TraceConfig `toml:"trace" yaml:"trace"`

	// Path of the file the config was read from; empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Check: CheckConfig{
			Include:        append([]string(nil), DefaultIncludes...),
			Exclude:        []string{".godot/**", "addons/**/.git/**"},
			Jobs:           0,
			MaxDiagnostics: 100,
			Format:         "pretty",
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     ".shadercheck",
		},
		Trace: TraceConfig{
			Level: "off",
		},
	}
}

// Root returns the directory holding the config file, or "" for defaults.
func (c *Config) Root() string {
	if c == nil || c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// CacheDir resolves [cache].dir against the project root.
func (c *Config) CacheDir() string {
	dir := c.Cache.Dir
	if dir == "" {
		dir = ".shadercheck"
	}
	if filepath.IsAbs(dir) || c.Root() == "" {
		return dir
	}
	return filepath.Join(c.Root(), dir)
}

// Validate reports values no command could use.
func (c *Config) Validate() error {
	var errs []error
	if c.Check.Jobs < 0 {
		errs = append(errs, fmt.Errorf("[check].jobs must be >= 0, got %d", c.Check.Jobs))
	}
	if c.Check.MaxDiagnostics < 0 {
		errs = append(errs, fmt.Errorf("[check].max_diagnostics must be >= 0, got %d", c.Check.MaxDiagnostics))
	}
	switch c.Check.Format {
	case "", "pretty", "short", "json", "sarif":
	default:
		errs = append(errs, fmt.Errorf("[check].format %q is not one of pretty|short|json|sarif", c.Check.Format))
	}
	switch strings.ToLower(c.Trace.Level) {
	case "", "off", "error", "phase", "detail", "debug":
	default:
		errs = append(errs, fmt.Errorf("[trace].level %q is not one of off|error|phase|detail|debug", c.Trace.Level))
	}
	if len(errs) == 0 {
		return nil
	}
	if c.Path != "" {
		return fmt.Errorf("%s: %w", c.Path, errors.Join(errs...))
	}
	return errors.Join(errs...)
}

// Load reads the config at path. The format follows the extension:
// .yaml/.yml use YAML, everything else TOML. Keys absent from the file keep
// their DefaultConfig values.
func Load(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = loadYAML(path)
	default:
		cfg, err = loadTOML(path)
	}
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	if len(cfg.Check.Include) == 0 {
		cfg.Check.Include = append([]string(nil), DefaultIncludes...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadTOML(path string) (*Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func loadYAML(path string) (*Config, error) {
	cfg := DefaultConfig()
	// #nosec G304 -- path is discovered by FindConfig or given via --config
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return cfg, nil
}
