package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shadercheck/internal/project"
)

// loadConfig reads --config, or discovers the nearest project config from
// the working directory. Without one the defaults apply.
func loadConfig(cmd *cobra.Command) (*project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		cfg, err := project.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := project.Discover(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// maxDiagnostics returns --max-diagnostics, falling back to the config
// value when the flag was not given.
func maxDiagnostics(cmd *cobra.Command, cfg *project.Config) (int, error) {
	flags := cmd.Root().PersistentFlags()
	n, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return 0, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !flags.Changed("max-diagnostics") {
		n = cfg.Check.MaxDiagnostics
	}
	if n < 0 {
		return 0, fmt.Errorf("--max-diagnostics must be >= 0, got %d", n)
	}
	return n, nil
}

// checkPatterns merges --include/--exclude with the config lists. Flags
// replace the config list of the same kind.
func checkPatterns(cmd *cobra.Command, cfg *project.Config) (include, exclude []string, err error) {
	include, err = cmd.Flags().GetStringSlice("include")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get include flag: %w", err)
	}
	exclude, err = cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get exclude flag: %w", err)
	}
	if !cmd.Flags().Changed("include") {
		include = cfg.Check.Include
	}
	if !cmd.Flags().Changed("exclude") {
		exclude = cfg.Check.Exclude
	}
	return include, exclude, nil
}

// tristate is the value of an auto|on|off flag.
type tristate string

const (
	tristateAuto tristate = "auto"
	tristateOn   tristate = "on"
	tristateOff  tristate = "off"
)

func parseTristate(flag, value string) (tristate, error) {
	switch v := tristate(strings.ToLower(strings.TrimSpace(value))); v {
	case "":
		return tristateAuto, nil
	case tristateAuto, tristateOn, tristateOff:
		return v, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled resolves auto by checking whether f is a terminal.
func (t tristate) enabled(f *os.File) bool {
	switch t {
	case tristateOn:
		return true
	case tristateOff:
		return false
	}
	return isTerminal(f)
}

func tristateFlag(cmd *cobra.Command, name string) (tristate, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return parseTristate(name, value)
}

func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := tristateFlag(cmd, "color")
	if err != nil {
		return false, err
	}
	return mode.enabled(os.Stdout), nil
}
