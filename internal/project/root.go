package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config file names, in lookup order.
const (
	TomlConfigName = "shadercheck.toml"
	YamlConfigName = ".shadercheck.yaml"
)

var configNames = []string{TomlConfigName, YamlConfigName, ".shadercheck.yml"}

// ErrConfigNotFound is returned by FindConfig when no config file exists
// between startDir and the filesystem root.
var ErrConfigNotFound = errors.New("shadercheck config not found")

// FindConfig walks up from startDir to locate a config file. Within one
// directory shadercheck.toml wins over .shadercheck.yaml.
func FindConfig(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrConfigNotFound
}

// Discover loads the nearest config above startDir, or DefaultConfig when
// there is none.
func Discover(startDir string) (*Config, error) {
	path, err := FindConfig(startDir)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}
