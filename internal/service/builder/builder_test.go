package builder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
)

func testRunner(t *testing.T, mode Mode) *runner {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{
			Name:       "AI System Utility",
			OutputName: "AI_System_Utility",
			Version:    "1.0.0",
			EntryPoint: "ai_system_utility/gui.py",
			Icon:       "assets/icon.ico",
		},
	}
	require.NoError(t, config.Validate(cfg))

	return &runner{cfg: cfg, mode: mode}
}

// TestPackagerArgs pins the flag set handed to the packaging tool.
func TestPackagerArgs(t *testing.T) {
	t.Parallel()

	b := testRunner(t, ModeBundle)
	require.Equal(t, []string{
		"--noconsole",
		"--clean",
		"--name", "AI_System_Utility",
		"--distpath", "dist",
		"--workpath", "build",
		"--icon", "assets/icon.ico",
		"ai_system_utility/gui.py",
	}, b.packagerArgs())

	p := testRunner(t, ModePortable)
	args := p.packagerArgs()
	require.Contains(t, args, "--onefile")
	require.Contains(t, args, "AI_System_Utility_Portable")
	require.Equal(t, "ai_system_utility/gui.py", args[len(args)-1])

	// No icon, no icon flag.
	b.cfg.App.Icon = ""
	require.NotContains(t, b.packagerArgs(), "--icon")
}

// TestArtifactNames ensures the two modes target distinct artifacts.
func TestArtifactNames(t *testing.T) {
	t.Parallel()

	bundle := testRunner(t, ModeBundle)
	portable := testRunner(t, ModePortable)

	require.NotEqual(t, bundle.outputName(), portable.outputName())
	require.NotEqual(t, bundle.artifactPath(), portable.artifactPath())
}
