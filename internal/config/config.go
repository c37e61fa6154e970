// Package config loads the process-wide toggles a run needs: which
// opcode table version to target, whether tracing is on by default.
// Bundled as one explicit value rather than package-level globals, so
// nothing here is scratch state shared behind the evaluator's back.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shardpy/pybc/internal/bytecode"
)

// Options is the full set of run-time toggles, YAML-backed so cmd/pybc
// can load a project-local config file instead of repeating flags.
type Options struct {
	Version      string `yaml:"version"`
	TraceLines   bool   `yaml:"trace_lines,omitempty"`
	TraceOpcodes bool   `yaml:"trace_opcodes,omitempty"`
	ShowOparg    bool   `yaml:"show_oparg,omitempty"`
}

// Default returns the baseline options: target the newest supported
// version, tracing off.
func Default() Options {
	return Options{Version: "3.8"}
}

// TargetVersion resolves Options.Version, falling back to 3.8 for an
// empty or unrecognized string.
func (o Options) TargetVersion() bytecode.Version {
	if v, ok := bytecode.ParseVersion(o.Version); ok {
		return v
	}
	return bytecode.Py38
}

// Load reads and parses a YAML options file at path, starting from
// Default so a file only needs to mention what it overrides.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return opts, nil
}
