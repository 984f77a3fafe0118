// Package config loads shader-manifest settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/shader-manifest/internal/types"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root.
const FileName = ".shader-manifest.yaml"

// ErrInvalidTarget is returned for a target missing its source or output.
var ErrInvalidTarget = errors.New("invalid target")

// Config describes which manifests to generate and how.
type Config struct {
	Sort    bool               `yaml:"sort,omitempty"`
	Filter  types.FilterConfig `yaml:",inline"`
	Targets []types.Target     `yaml:"targets"`
}

// DefaultTargets returns the noise and hash manifest targets.
func DefaultTargets() []types.Target {
	return []types.Target{
		{Source: "shaders/noise", Output: "shaders/noise_list.txt"},
		{Source: "shaders/hash", Output: "shaders/hash_list.txt"},
	}
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{Targets: DefaultTargets()}
}

// Parse decodes a YAML config document.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Targets) == 0 {
		cfg.Targets = DefaultTargets()
	}

	for i, target := range cfg.Targets {
		target.Source = strings.TrimSpace(target.Source)
		target.Output = strings.TrimSpace(target.Output)
		if target.Source == "" || target.Output == "" {
			return nil, fmt.Errorf("target %d: source and output are required: %w", i, ErrInvalidTarget)
		}
		cfg.Targets[i] = target
	}

	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("permission denied: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config: %s - %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads FileName from root if present, otherwise the defaults.
func Discover(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to stringify config: %w", err)
	}
	return data, nil
}
