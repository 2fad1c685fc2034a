package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "AI System Utility",
			OutputName:  "AI_System_Utility",
			Version:     "1.0.0",
			Publisher:   "ImReallyHimTho",
			EntryPoint:  "ai_system_utility/gui.py",
			Icon:        "assets/icon.ico",
			LicenseFile: "LICENSE.txt",
		},
		Installer: config.InstallerConfig{
			DesktopIcon:     true,
			RunAfterInstall: true,
		},
	}
	require.NoError(t, config.Validate(cfg))

	return cfg
}

// TestRenderFullDefinition checks the rendered script line by line for a
// fully populated definition.
func TestRenderFullDefinition(t *testing.T) {
	t.Parallel()

	def := FromConfig(testConfig(t))

	out, err := def.Render()
	require.NoError(t, err)

	for _, line := range []string{
		"[Setup]",
		"AppName=AI System Utility",
		"AppVersion=1.0.0",
		"AppPublisher=ImReallyHimTho",
		`DefaultDirName={autopf}\AI System Utility`,
		"DefaultGroupName=AI System Utility",
		"OutputDir=installer",
		"OutputBaseFilename=AI_System_Utility_Setup",
		`SetupIconFile=assets\icon.ico`,
		"LicenseFile=LICENSE.txt",
		"Compression=lzma",
		"SolidCompression=yes",
		"WizardStyle=modern",
		"[Tasks]",
		`Name: "desktopicon"; Description: "{cm:CreateDesktopIcon}"; GroupDescription: "{cm:AdditionalIcons}"; Flags: unchecked`,
		"[Files]",
		`Source: "dist\AI_System_Utility\*"; DestDir: "{app}"; Flags: ignoreversion recursesubdirs createallsubdirs`,
		"[Icons]",
		`Name: "{group}\AI System Utility"; Filename: "{app}\AI_System_Utility.exe"`,
		`Name: "{autodesktop}\AI System Utility"; Filename: "{app}\AI_System_Utility.exe"; Tasks: desktopicon`,
		"[Run]",
		`Filename: "{app}\AI_System_Utility.exe"; Description: "{cm:LaunchProgram,AI System Utility}"; Flags: nowait postinstall skipifsilent`,
	} {
		require.Contains(t, out, line+"\n")
	}

	// Paths must use backslashes only; %q-style escaping would break the compiler.
	require.NotContains(t, out, `\\`)
}

// TestRenderOptionalSections ensures disabled features leave no trace in the script.
func TestRenderOptionalSections(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Installer.DesktopIcon = false
	cfg.Installer.RunAfterInstall = false
	cfg.App.Icon = ""
	cfg.App.LicenseFile = ""

	out, err := FromConfig(cfg).Render()
	require.NoError(t, err)

	require.NotContains(t, out, "[Tasks]")
	require.NotContains(t, out, "[Run]")
	require.NotContains(t, out, "desktopicon")
	require.NotContains(t, out, "SetupIconFile=")
	require.NotContains(t, out, "LicenseFile=")

	// The Start Menu shortcut is unconditional.
	require.Contains(t, out, `Name: "{group}\AI System Utility"`)
}

// TestValidate rejects definitions the renderer cannot express.
func TestValidate(t *testing.T) {
	t.Parallel()

	def := FromConfig(testConfig(t))
	require.NoError(t, def.Validate())

	def.AppVersion = ""
	require.ErrorIs(t, def.Validate(), errAppVersionRequired)

	def = FromConfig(testConfig(t))
	def.Files = nil
	require.ErrorIs(t, def.Validate(), errNoFileMappings)
}

// TestWriteFile renders into a nested directory.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out", "installer.iss")

	def := FromConfig(testConfig(t))
	require.NoError(t, def.WriteFile(path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(contents), "; Installer definition for AI System Utility 1.0.0."))
}
