// Package config loads ladders.yaml and applies environment overrides.
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

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
	"ladders/internal/access"
	"ladders/internal/emit"
	"ladders/internal/program"
	"ladders/internal/schedule"
)

// FileName is looked up next to the input file when no --config is given.
const FileName = "ladders.yaml"

// Environment variables overriding the file.
const (
	EnvEntry         = "LADDERS_ENTRY"
	EnvOutputDir     = "LADDERS_OUTPUT_DIR"
	EnvShareReads    = "LADDERS_SHARE_READS"
	EnvCallArguments = "LADDERS_CALL_ARGUMENTS"
)

// Config models ladders.yaml.
type Config struct {
	// Entry is the function whose body is scheduled.
	Entry string `yaml:"entry"`
	// OutputDir receives <base>.c and <base>.sched. Empty means next to the
	// input file.
	OutputDir     string               `yaml:"output_dir"`
	ShareReads    bool                 `yaml:"share_reads"`
	CallArguments access.CallArguments `yaml:"call_arguments"`
	Includes      []string             `yaml:"includes"`
}

func Default() Config {
	return Config{
		Entry:         program.DefaultEntry,
		ShareReads:    schedule.DefaultOptions().ShareReads,
		CallArguments: access.DefaultOptions().CallArguments,
		Includes:      emit.DefaultOptions().Includes,
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads explicit when set, otherwise ladders.yaml in the directory
// of input if present, otherwise the defaults. It returns the path that was
// loaded, empty for defaults.
func Discover(explicit, input string) (Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	candidate := filepath.Join(filepath.Dir(input), FileName)
	if _, err := os.Stat(candidate); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), "", nil
		}
		return Default(), "", fmt.Errorf("config: stat %s: %w", candidate, err)
	}
	cfg, err := Load(candidate)
	return cfg, candidate, err
}

// ApplyEnv overrides fields from LADDERS_* variables that are set.
func (c *Config) ApplyEnv() {
	if env.Has(EnvEntry) {
		c.Entry = env.Str(EnvEntry)
	}
	if env.Has(EnvOutputDir) {
		c.OutputDir = env.Str(EnvOutputDir)
	}
	if env.Has(EnvShareReads) {
		c.ShareReads = env.Bool(EnvShareReads)
	}
	if env.Has(EnvCallArguments) {
		c.CallArguments = access.CallArguments(env.Str(EnvCallArguments))
	}
	c.normalize()
}

func (c *Config) normalize() {
	c.Entry = strings.TrimSpace(c.Entry)
	if c.Entry == "" {
		c.Entry = program.DefaultEntry
	}
	c.OutputDir = strings.TrimSpace(c.OutputDir)
	c.CallArguments = access.CallArguments(strings.ToLower(strings.TrimSpace(string(c.CallArguments))))
	if c.CallArguments == "" {
		c.CallArguments = access.IgnoreCallArguments
	}
}

func (c Config) Validate() error {
	if !c.CallArguments.Valid() {
		return fmt.Errorf("call_arguments must be %q or %q, got %q",
			access.IgnoreCallArguments, access.ReadCallArguments, c.CallArguments)
	}
	for i, inc := range c.Includes {
		if !isHeaderName(inc) {
			return fmt.Errorf("includes[%d]: %q must be <header> or \"header\"", i, inc)
		}
	}
	return nil
}

func isHeaderName(s string) bool {
	if len(s) < 3 {
		return false
	}
	return (s[0] == '<' && s[len(s)-1] == '>') || (s[0] == '"' && s[len(s)-1] == '"')
}

func (c Config) AccessOptions() access.Options {
	return access.Options{CallArguments: c.CallArguments}
}

func (c Config) ScheduleOptions() schedule.Options {
	return schedule.Options{ShareReads: c.ShareReads}
}

func (c Config) EmitOptions() emit.Options {
	return emit.Options{Includes: c.Includes}
}
