package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the optional per-workspace configuration file, looked up at
// the workspace root.
const FileName = ".insight.yml"

// FileConfig holds workspace-level defaults loaded from .insight.yml.
// CLI flags always win over file values.
type FileConfig struct {
	// Detectors is a comma-separated detector selector (same syntax as
	// --detectors).
	Detectors string `yaml:"detectors"`

	// Set lists per-detector options as detector.option=value entries
	// (same syntax as --set).
	Set []string `yaml:"set"`

	// Strategy selects the execution strategy: sequential, fanout, pool.
	Strategy string `yaml:"strategy"`

	// Concurrency bounds in-flight detectors. 0 means the built-in default.
	Concurrency int `yaml:"concurrency"`

	// DetectorTimeout is a Go duration string, e.g. "45s".
	DetectorTimeout string `yaml:"detector_timeout"`
}

// LoadFile reads a workspace configuration file. A missing file is not an
// error; it returns (nil, nil).
func LoadFile(workspaceRoot string) (*FileConfig, error) {
	path := filepath.Join(workspaceRoot, FileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if fc.DetectorTimeout != "" {
		if _, err := time.ParseDuration(fc.DetectorTimeout); err != nil {
			return nil, fmt.Errorf("parse %s: invalid detector_timeout %q: %w", path, fc.DetectorTimeout, err)
		}
	}
	return &fc, nil
}

// ApplyFile merges file defaults into the config for every field the user
// did not set explicitly. changed reports whether a given flag was set on
// the command line.
func (c *Config) ApplyFile(fc *FileConfig, changed func(flag string) bool) {
	if fc == nil {
		return
	}

	if fc.Detectors != "" && !changed("detectors") {
		c.Detectors.Selector = fc.Detectors
	}
	if len(fc.Set) > 0 && !changed("set") {
		c.Detectors.Set = append(fc.Set, c.Detectors.Set...)
	}
	if fc.Strategy != "" && !changed("strategy") {
		c.Runtime.Strategy = fc.Strategy
	}
	if fc.Concurrency > 0 && !changed("concurrency") {
		c.Runtime.Concurrency = fc.Concurrency
	}
	if fc.DetectorTimeout != "" && !changed("detector-timeout") {
		if d, err := time.ParseDuration(fc.DetectorTimeout); err == nil {
			c.Runtime.DetectorTimeout = d
		}
	}
}
