package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shardpy/pybc/internal/bytecode"
)

func TestDefaultTargetsLatestVersion(t *testing.T) {
	if got := Default().TargetVersion(); got != bytecode.Py38 {
		t.Errorf("default version = %v, want 3.8", got)
	}
}

func TestLoadOverridesVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pybc.yaml")
	if err := os.WriteFile(path, []byte("version: \"3.4\"\ntrace_lines: true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.TargetVersion() != bytecode.Py34 {
		t.Errorf("version = %v, want 3.4", opts.TargetVersion())
	}
	if !opts.TraceLines {
		t.Error("expected trace_lines to be true")
	}
}

func TestTargetVersionFallsBackOnGarbage(t *testing.T) {
	opts := Options{Version: "not-a-version"}
	if got := opts.TargetVersion(); got != bytecode.Py38 {
		t.Errorf("fallback version = %v, want 3.8", got)
	}
}
