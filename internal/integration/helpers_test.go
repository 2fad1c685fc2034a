package integration

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
)

// newTestConfig returns a valid configuration targeting the test application.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{
			Name:       "AI System Utility",
			OutputName: "AI_System_Utility",
			Version:    "1.0.0",
			EntryPoint: "ai_system_utility/gui.py",
		},
	}
	require.NoError(t, config.Validate(cfg))

	return cfg
}

// saveConfig persists the configuration under the default filename in the
// current (test) working directory.
func saveConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	require.NoError(t, config.Save(config.DefaultConfigFilename, cfg))
}

// writeStubTool creates an executable shell stub standing in for an external
// tool and returns its absolute path. Tests using stubs are skipped on
// Windows.
func writeStubTool(t *testing.T, name, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("external tools are stubbed with shell scripts")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, name)

	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))

	return path
}

// fileExists reports whether a path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
