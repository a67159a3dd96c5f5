// Package config loads protoguard settings from YAML files.
//
// Example:
//
//	directive-prefix: "protoguard:"
//	tag-key: proto
//	disable:
//	  - PG100
//	severity:
//	  DuplicateFieldName: error
//	min-severity: warning
//	directives:
//	  message: contract
//	workers: 4
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sirkon/protoguard/internal/facts"
	"github.com/sirkon/protoguard/internal/pgrules"
	"github.com/sirkon/protoguard/internal/provider"
	"github.com/sirkon/protoguard/internal/rules"
)

// FileName is the name of the config file looked up by Discover.
const FileName = ".protoguard.yaml"

// Config is the protoguard configuration.
type Config struct {
	DirectivePrefix string                            `yaml:"directive-prefix"`
	TagKey          string                            `yaml:"tag-key"`
	Disable         []pgrules.Rule                    `yaml:"disable"`
	Severity        map[pgrules.Rule]pgrules.Severity `yaml:"severity"`
	MinSeverity     pgrules.Severity                  `yaml:"min-severity"`
	Directives      map[string]facts.Kind             `yaml:"directives"`
	Workers         int                               `yaml:"workers"`
}

// Default returns the configuration used when there is no config file.
func Default() *Config {
	return &Config{
		DirectivePrefix: provider.DefaultPrefix,
		TagKey:          provider.DefaultTagKey,
		MinSeverity:     pgrules.SeverityInfo,
	}
}

// Parse decodes a YAML config. Missing fields keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Load reads and decodes a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Discover looks for FileName in dir and its parents.
func Discover(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		path := filepath.Join(dir, FileName)
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Resolve loads the config from path when it is set, otherwise from a file
// discovered upward from dir. Without any config file the default is returned.
func Resolve(path, dir string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	found, ok := Discover(dir)
	if !ok {
		return Default(), nil
	}

	return Load(found)
}

// Validate checks values decoding can not check by itself.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.DirectivePrefix, " \t") {
		return fmt.Errorf("directive-prefix %q must not contain spaces", c.DirectivePrefix)
	}
	if strings.ContainsAny(c.TagKey, " \t:\"") {
		return fmt.Errorf("tag-key %q is not a valid struct tag key", c.TagKey)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	for name, kind := range c.Directives {
		if name == "" || strings.ContainsAny(name, " \t") {
			return fmt.Errorf("invalid directive name %q", name)
		}
		if kind == facts.KindMember {
			return fmt.Errorf("directive %q: member annotations are set with struct tags", name)
		}
	}

	return nil
}

// EngineOptions returns rule engine options for the config.
func (c *Config) EngineOptions() []rules.Option {
	opts := []rules.Option{
		rules.WithDisabled(c.Disable...),
		rules.WithMinSeverity(c.MinSeverity),
		rules.WithWorkers(c.Workers),
	}
	for rule, sev := range c.Severity {
		opts = append(opts, rules.WithSeverity(rule, sev))
	}

	return opts
}

// ProviderOptions returns annotation provider options for the config.
func (c *Config) ProviderOptions() []provider.Option {
	return []provider.Option{
		provider.WithDirectivePrefix(c.DirectivePrefix),
		provider.WithTagKey(c.TagKey),
		provider.WithDirectives(c.Directives),
	}
}
