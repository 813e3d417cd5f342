// Package config loads tldedent configuration from a project's package.json
// or from .config/template-dedent.{yaml,yml,json}.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bennypowers.dev/tldedent/internal/log"
	"bennypowers.dev/tldedent/internal/parser/js"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// PackageJSONKey is the package.json field holding the configuration
const PackageJSONKey = "templateDedent"

// ConfigFileNames are looked up under <root>/.config, in order
var ConfigFileNames = []string{
	"template-dedent.yaml",
	"template-dedent.yml",
	"template-dedent.json",
}

// Config controls which files and literals are dedented
type Config struct {
	// Include lists doublestar patterns of files to process, relative to the root
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`

	// Exclude lists doublestar patterns removed from Include
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// Tags restricts processing to literals with these tags (e.g. ["css", "html"]).
	// Empty means every template literal.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Atomic leaves a violating literal entirely untouched
	Atomic bool `json:"atomic,omitempty" yaml:"atomic,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Source is the file the configuration was read from, empty for defaults
	Source string `json:"-" yaml:"-"`
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Include:  []string{"**/*.{js,jsx,mjs,cjs,ts,tsx,mts,cts,html,htm}"},
		Exclude:  []string{"**/node_modules/**"},
		LogLevel: "info",
	}
}

// Load finds the configuration for the project at root. The templateDedent
// field of package.json wins over .config files. Without either, Load
// returns Default(). Fields absent from the file keep their default values.
func Load(root string) (*Config, error) {
	cfg, err := readPackageJSON(filepath.Join(root, "package.json"))
	if err != nil || cfg != nil {
		return cfg, err
	}

	for _, name := range ConfigFileNames {
		path := filepath.Join(root, ".config", name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}

	log.Debug("No configuration found under %s, using defaults", root)
	return Default(), nil
}

// LoadFile reads configuration from an explicit path. A package.json path
// is read through its templateDedent field.
func LoadFile(path string) (*Config, error) {
	if filepath.Base(path) == "package.json" {
		cfg, err := readPackageJSON(path)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, fmt.Errorf("%s has no %s field", path, PackageJSONKey)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: user supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = json.Unmarshal(jsonc.ToJSON(data), cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("unsupported config file type: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Source = path
	return cfg, cfg.Validate()
}

// readPackageJSON returns nil without error when the file or the field is missing
func readPackageJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading workspace package.json
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	// package.json files in the wild carry comments
	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	raw, ok := pkg[PackageJSONKey]
	if !ok {
		return nil, nil
	}

	cfg := Default()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%s must be an object: %w", PackageJSONKey, err)
	}

	cfg.Source = path
	return cfg, cfg.Validate()
}

// Overrides are settings given on the command line. They win over any
// configuration file.
type Overrides struct {
	// File replaces the lookup under the project root when set
	File     string
	Tags     []string
	Atomic   *bool
	LogLevel string
}

// Resolve loads the configuration of the project at root, or o.File, and
// applies o. An empty root without o.File starts from Default().
func (o Overrides) Resolve(root string) (*Config, error) {
	var cfg *Config
	var err error
	switch {
	case o.File != "":
		cfg, err = LoadFile(o.File)
	case root != "":
		cfg, err = Load(root)
	default:
		cfg = Default()
	}
	if err != nil {
		return nil, err
	}

	o.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Apply copies the set fields of o onto cfg
func (o Overrides) Apply(cfg *Config) {
	if o.Tags != nil {
		cfg.Tags = slices.Clone(o.Tags)
	}
	if o.Atomic != nil {
		cfg.Atomic = *o.Atomic
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
}

// Clone returns a deep copy of c
func (c *Config) Clone() *Config {
	clone := *c
	clone.Include = slices.Clone(c.Include)
	clone.Exclude = slices.Clone(c.Exclude)
	clone.Tags = slices.Clone(c.Tags)
	return &clone
}

// Validate checks glob patterns and the log level
func (c *Config) Validate() error {
	for _, pattern := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Matches reports whether the slash- or OS-separated path rel, relative to
// the project root, is included and not excluded
func (c *Config) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(c.Include, rel) && !matchAny(c.Exclude, rel)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		// Patterns are validated on load
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// TransformOptions returns the literal selection the config describes
func (c *Config) TransformOptions() js.TransformOptions {
	return js.TransformOptions{
		Tags:   c.Tags,
		Atomic: c.Atomic,
	}
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return level
}
