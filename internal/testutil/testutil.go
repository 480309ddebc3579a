// Package testutil provides common test helpers for the cdwe project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/cdwe/internal/config"
)

// TempConfigFile creates a temporary cdwe.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "cdwe.toml", content)
}

// TempCacheFile creates a temporary .cdwe_cache.json with the given content
// and returns its path.
func TempCacheFile(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), ".cdwe_cache.json", content)
}

// WriteFile writes content to dir/name, creating dir if needed, and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("WriteFile: mkdir failed: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: write failed: %v", err)
	}
	return path
}

// ParseConfig parses content as a cdwe.toml and fails the test on error.
func ParseConfig(t *testing.T, content string) *config.Config {
	t.Helper()

	cfg, err := config.Parse(content)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	return cfg
}

// Bool returns a pointer to b, for the *bool toggles in config.GlobalConfig.
func Bool(b bool) *bool {
	return &b
}

// NoHints is a [config] table that turns every hint off, so tests can assert on the
// exact statement sequence.
const NoHints = `[config]
shell = "bash"
env_hints = false
run_hints = false
alias_hints = false
`
