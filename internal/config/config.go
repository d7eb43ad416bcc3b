// Package config loads hdlio.yaml, the project file mapping VHDL libraries to
// the source files compiled into them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"hdlio/internal/ast"
	"hdlio/internal/group"
)

// FileName is the name searched for by Find.
const FileName = "hdlio.yaml"

// Config is the top-level project configuration.
type Config struct {
	// Standard is the VHDL revision, "1993" through "2019".
	Standard string `yaml:"standard,omitempty"`

	// Grouping is the port grouping policy, "comments" or "blank-lines".
	Grouping string `yaml:"grouping,omitempty"`

	// Jobs bounds the number of files parsed in parallel. Zero means one per
	// CPU.
	Jobs int `yaml:"jobs,omitempty"`

	Libraries map[string]Library `yaml:"libraries,omitempty"`
}

// Library lists the files of one VHDL library as doublestar patterns relative
// to the project root.
type Library struct {
	Files   []string `yaml:"files"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// Default returns the configuration used when no project file exists: every
// .vhd and .vhdl file below the root goes into library work.
func Default() *Config {
	return &Config{
		Standard: ast.DefaultStandard.String(),
		Grouping: group.PolicyComments.String(),
		Libraries: map[string]Library{
			"work": {Files: []string{"**/*.vhd", "**/*.vhdl"}},
		},
	}
}

// Load reads and validates the file at path. Fields left out keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse decodes a project file. name is only used in error messages.
func Parse(name string, data []byte) (*Config, error) {
	cfg := Default()
	libraries := cfg.Libraries
	cfg.Libraries = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if cfg.Libraries == nil {
		cfg.Libraries = libraries
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Find looks for FileName in dir and its parents. It returns the default
// configuration rooted at dir when there is none.
func Find(dir string) (cfg *Config, root string, err error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for d := abs; ; {
		path := filepath.Join(d, FileName)
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, d, err
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return Default(), abs, nil
}

func (c *Config) Validate() error {
	if _, err := c.StandardValue(); err != nil {
		return err
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	for name, lib := range c.Libraries {
		if name == "" {
			return fmt.Errorf("library with empty name")
		}
		for _, pattern := range append(append([]string(nil), lib.Files...), lib.Exclude...) {
			if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
				return fmt.Errorf("library %s: invalid pattern %q", name, pattern)
			}
		}
	}
	return nil
}

func (c *Config) StandardValue() (ast.Standard, error) {
	return ast.ParseStandard(c.Standard)
}

func (c *Config) Policy() (group.Policy, error) {
	return group.ParsePolicy(c.Grouping)
}
