package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imreallyhimtho/sysutil-builder/internal/service/installer"
)

// TestInstallerChain_ProducesSetup runs the full chain against stub tools:
// directory build, manifest rendering and installer compilation.
func TestInstallerChain_ProducesSetup(t *testing.T) {
	chdir(t, t.TempDir())

	packagerStub := writeStubTool(t, "pyinstaller", `
mkdir -p dist/AI_System_Utility
: > dist/AI_System_Utility/AI_System_Utility
`)
	compilerStub := writeStubTool(t, "iscc", `
[ -f "$1" ] || exit 9
mkdir -p installer
: > installer/AI_System_Utility_Setup.exe
`)

	cfg := newTestConfig(t)
	cfg.Tools.Packager = packagerStub
	cfg.Tools.InstallerCompiler = compilerStub
	cfg.Installer.DesktopIcon = true
	cfg.Installer.RunAfterInstall = true
	saveConfig(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, installer.Run(ctx, &installer.Options{}))

	// The declarative manifest was rendered for the compiler.
	contents, err := os.ReadFile(cfg.Layout.ScriptPath)
	require.NoError(t, err)
	require.Contains(t, string(contents), "[Setup]")
	require.Contains(t, string(contents), "AppName=AI System Utility")

	require.True(t, fileExists(cfg.SetupExecutable()))
}

// TestInstallerChain_PackagingFailureStopsChain ensures the installer
// compiler is never invoked when the packaging step fails.
func TestInstallerChain_PackagingFailureStopsChain(t *testing.T) {
	chdir(t, t.TempDir())

	packagerStub := writeStubTool(t, "pyinstaller", "exit 1\n")
	compilerStub := writeStubTool(t, "iscc", ": > iscc-ran\n")

	cfg := newTestConfig(t)
	cfg.Tools.Packager = packagerStub
	cfg.Tools.InstallerCompiler = compilerStub
	saveConfig(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := installer.Run(ctx, &installer.Options{})
	require.Error(t, err)

	require.False(t, fileExists("iscc-ran"))
	require.False(t, fileExists(cfg.SetupExecutable()))
}

// TestInstallerChain_UsesExistingScript compiles a hand-authored script
// instead of rendering one.
func TestInstallerChain_UsesExistingScript(t *testing.T) {
	chdir(t, t.TempDir())

	packagerStub := writeStubTool(t, "pyinstaller", `
mkdir -p dist/AI_System_Utility
: > dist/AI_System_Utility/AI_System_Utility
`)
	compilerStub := writeStubTool(t, "iscc", `
grep -q hand-authored "$1" || exit 9
mkdir -p installer
: > installer/AI_System_Utility_Setup.exe
`)

	cfg := newTestConfig(t)
	cfg.Tools.Packager = packagerStub
	cfg.Tools.InstallerCompiler = compilerStub
	cfg.Installer.UseExistingScript = true
	saveConfig(t, cfg)

	require.NoError(t, os.WriteFile(cfg.Layout.ScriptPath, []byte("; hand-authored\n[Setup]\n"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, installer.Run(ctx, &installer.Options{}))
	require.True(t, fileExists(cfg.SetupExecutable()))
}
