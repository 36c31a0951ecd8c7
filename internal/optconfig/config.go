// Package optconfig loads optimizer settings from a JSON file and turns them
// into a pipeline.
package optconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/scriptopt/internal/cli"
	"github.com/orizon-lang/scriptopt/internal/errors"
	"github.com/orizon-lang/scriptopt/internal/optimizer"
)

// LanguageVersion is the newest script language revision this build knows.
const LanguageVersion = "1.2.0"

// Since is the first language revision whose semantics each pass preserves.
// Scripts written for an older revision run with the pass disabled.
var Since = map[string]string{
	"return":        "1.0.0",
	"block":         "1.0.0",
	"if":            "1.0.0",
	"constant_fold": "1.1.0",
	"for_loop":      "1.2.0",
}

// Config is the on-disk optimizer configuration.
type Config struct {
	OptimizeLevel   string   `json:"optimize_level"`
	Passes          []string `json:"passes,omitempty"` // Explicit order; overrides optimize_level
	LanguageVersion string   `json:"language_version"`
	LogLevel        string   `json:"log_level"`
	Verbose         bool     `json:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		OptimizeLevel:   optimizer.LevelDefault.String(),
		LanguageVersion: LanguageVersion,
		LogLevel:        "warn",
	}
}

// Load reads path. A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// Parse decodes and validates a configuration. Fields absent from data keep
// their default values.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.InvalidConfig("json", err.Error())
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks every field without building anything.
func (c *Config) Validate() error {
	if _, ok := optimizer.ParseLevel(c.OptimizeLevel); !ok {
		return errors.InvalidConfig("optimize_level", fmt.Sprintf("unknown level %q", c.OptimizeLevel))
	}
	for _, name := range c.Passes {
		if _, ok := optimizer.LookupPass(name); !ok {
			return errors.InvalidConfig("passes", fmt.Sprintf("unknown pass %q", name))
		}
	}
	if _, err := semver.NewVersion(c.LanguageVersion); err != nil {
		return errors.InvalidConfig("language_version", err.Error())
	}
	if err := (&cli.Logger{}).SetLevel(c.LogLevel); err != nil {
		return errors.InvalidConfig("log_level", err.Error())
	}
	return nil
}

// Level returns the parsed optimization level.
func (c *Config) Level() optimizer.Level {
	level, _ := optimizer.ParseLevel(c.OptimizeLevel)
	return level
}

// Build assembles the pipeline the configuration describes: the explicit pass
// list if there is one, otherwise the passes of the configured level, minus
// any pass newer than the configured language version.
func (c *Config) Build() (*optimizer.Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var passes []optimizer.Pass
	if len(c.Passes) > 0 {
		for _, name := range c.Passes {
			pass, _ := optimizer.LookupPass(name)
			passes = append(passes, pass)
		}
	} else {
		passes = optimizer.ForLevel(c.Level()).Passes()
	}

	kept, _, err := Gate(passes, c.LanguageVersion)
	if err != nil {
		return nil, err
	}
	return optimizer.NewPipeline(kept...), nil
}

// Gate splits passes into those supported by the given language version and
// those that are not. Order is preserved.
func Gate(passes []optimizer.Pass, version string) (kept, dropped []optimizer.Pass, err error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, nil, errors.InvalidConfig("language_version", err.Error())
	}

	for _, pass := range passes {
		since, ok := Since[pass.Name()]
		if !ok {
			kept = append(kept, pass)
			continue
		}
		constraint, err := semver.NewConstraint(">= " + since)
		if err != nil {
			return nil, nil, fmt.Errorf("pass %s: %w", pass.Name(), err)
		}
		if constraint.Check(v) {
			kept = append(kept, pass)
		} else {
			dropped = append(dropped, pass)
		}
	}
	return kept, dropped, nil
}

// Describe renders the configuration for humans.
func (c *Config) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Optimize Level: %s\n", c.OptimizeLevel)
	if len(c.Passes) > 0 {
		fmt.Fprintf(&sb, "Passes: %s\n", strings.Join(c.Passes, ", "))
	}
	fmt.Fprintf(&sb, "Language Version: %s\n", c.LanguageVersion)
	fmt.Fprintf(&sb, "Log Level: %s\n", c.LogLevel)
	return sb.String()
}
