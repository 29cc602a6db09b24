// Package config loads run configuration files for the CLI: compile
// flags, the library search path, and initial locals.
package config

import (
	"fmt"
	"math/big"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/lwlang/internal/eval"
	"github.com/sunholo/lwlang/internal/flags"
)

// RunConfig mirrors the YAML run-configuration schema:
//
//	flags: [LOOP, WHILE, OPT_ZERO]
//	lib: ./lib
//	step_limit: 10000
//	locals:
//	  x: 5
//	  y: 120
type RunConfig struct {
	Flags     []string          `yaml:"flags"`
	LibPath   string            `yaml:"lib"`
	StepLimit int               `yaml:"step_limit"`
	Locals    map[string]string `yaml:"locals"`
}

// Load reads and decodes a run configuration file.
func Load(path string) (*RunConfig, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(contents)
}

// Parse decodes a run configuration document.
func Parse(contents []byte) (*RunConfig, error) {
	var cfg RunConfig
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// CompileFlags folds the symbolic flag names into a bitfield. An empty
// list means the default flag set.
func (c *RunConfig) CompileFlags() (flags.CompileFlags, error) {
	if len(c.Flags) == 0 {
		return flags.Default(), nil
	}

	var set flags.CompileFlags
	for _, name := range c.Flags {
		flag, ok := flags.Parse(name)
		if !ok {
			return 0, fmt.Errorf("unknown compile flag %q", name)
		}
		set |= flag
	}
	return set, nil
}

// Variables converts the configured locals into an interpreter store.
func (c *RunConfig) Variables() (eval.Variables, error) {
	locals := make(eval.Variables, len(c.Locals))
	for name, raw := range c.Locals {
		value, ok := new(big.Int).SetString(raw, 10)
		if !ok || value.Sign() < 0 {
			return nil, fmt.Errorf("local %s: %q is not a non-negative integer", name, raw)
		}
		locals[name] = value
	}
	return locals, nil
}
