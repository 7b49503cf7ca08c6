package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default project file name.
const DefaultConfigFile = ".sectioncheck"

// ErrConfigNotFound is returned when the project file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads the project file at path.
// If the file does not exist, it returns ErrConfigNotFound. Callers decide
// whether that matters based on whether the path was given explicitly.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cf.Paths == nil {
		cf.Paths = make(map[string]PathConfig)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cf.dir = filepath.Dir(abs)

	if err := cf.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	return &cf, nil
}

// FindConfigFile searches for the project file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .sectioncheck in the current directory
// 3. Look for .sectioncheck in the user's home directory
//
// Returns the path to the file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
