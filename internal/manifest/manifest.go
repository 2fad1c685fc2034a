package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
)

// FileMapping maps a source file tree into the installation directory.
type FileMapping struct {
	// Source is the source glob relative to the script location.
	Source string
	// DestDir is the destination, usually the {app} constant.
	DestDir string
	// Flags are passed through to the installer compiler verbatim.
	Flags []string
}

// Definition is the declarative installer manifest consumed by the installer
// compiler. It is rendered to the compiler's script format and never
// interpreted beyond that; validation and conditional behavior belong to the
// compiler itself.
type Definition struct {
	// AppName is the human-readable application name.
	AppName string
	// AppVersion is the version shown by the installer.
	AppVersion string
	// Publisher is the application vendor.
	Publisher string
	// DefaultDirName is the default installation directory.
	DefaultDirName string
	// DefaultGroupName is the Start Menu folder name.
	DefaultGroupName string
	// OutputDir receives the compiled setup executable.
	OutputDir string
	// OutputBaseFilename names the setup executable without extension.
	OutputBaseFilename string
	// SetupIconFile is the icon of the setup executable.
	SetupIconFile string
	// LicenseFile is shown during installation when set.
	LicenseFile string
	// ExecutableName is the installed application executable the shortcuts
	// and the post-install launch point at.
	ExecutableName string
	// Files are the source-to-destination mappings.
	Files []FileMapping
	// DesktopIcon adds an install-time desktop shortcut choice,
	// unchecked by default.
	DesktopIcon bool
	// RunAfterInstall offers launching the application after setup finishes.
	RunAfterInstall bool
}

var (
	errAppNameRequired    = errors.New("manifest: application name is required")
	errAppVersionRequired = errors.New("manifest: application version is required")
	errExecutableRequired = errors.New("manifest: executable name is required")
	errNoFileMappings     = errors.New("manifest: at least one file mapping is required")
)

// FromConfig builds the installer definition for the configured application:
// the whole bundle directory is mapped into {app}, shortcuts point at the
// bundled executable.
func FromConfig(cfg *config.Config) *Definition {
	return &Definition{
		AppName:            cfg.App.Name,
		AppVersion:         cfg.App.Version,
		Publisher:          cfg.App.Publisher,
		DefaultDirName:     `{autopf}\` + cfg.App.Name,
		DefaultGroupName:   cfg.App.Name,
		OutputDir:          winPath(cfg.Layout.InstallerOutputDir),
		OutputBaseFilename: cfg.Installer.OutputBaseFilename,
		SetupIconFile:      winPath(cfg.App.Icon),
		LicenseFile:        winPath(cfg.App.LicenseFile),
		ExecutableName:     cfg.App.OutputName + ".exe",
		Files: []FileMapping{
			{
				Source:  winPath(cfg.BundleDir()) + `\*`,
				DestDir: "{app}",
				Flags:   []string{"ignoreversion", "recursesubdirs", "createallsubdirs"},
			},
		},
		DesktopIcon:     cfg.Installer.DesktopIcon,
		RunAfterInstall: cfg.Installer.RunAfterInstall,
	}
}

// Validate checks the fields the renderer itself depends on.
func (d *Definition) Validate() error {
	switch {
	case d.AppName == "":
		return errAppNameRequired
	case d.AppVersion == "":
		return errAppVersionRequired
	case d.ExecutableName == "":
		return errExecutableRequired
	case len(d.Files) == 0:
		return errNoFileMappings
	}

	return nil
}

// Render produces the installer compiler script for this definition.
// The output format is the compiler's own: sections in square brackets,
// one directive or entry per line.
func (d *Definition) Render() (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString("; Installer definition for " + d.AppName + " " + d.AppVersion + ".\n")
	b.WriteString("; This file is generated; edit the build settings instead.\n\n")

	d.renderSetup(&b)
	d.renderTasks(&b)
	d.renderFiles(&b)
	d.renderIcons(&b)
	d.renderRun(&b)

	return b.String(), nil
}

// WriteFile renders the definition and writes it to the provided path,
// creating parent directories as needed.
func (d *Definition) WriteFile(path string) error {
	contents, err := d.Render()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create manifest directory: %w", err)
		}
	}

	if err = os.WriteFile(filepath.Clean(path), []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	return nil
}

func (d *Definition) renderSetup(b *strings.Builder) {
	b.WriteString("[Setup]\n")
	writeDirective(b, "AppName", d.AppName)
	writeDirective(b, "AppVersion", d.AppVersion)
	writeDirective(b, "AppPublisher", d.Publisher)
	writeDirective(b, "DefaultDirName", d.DefaultDirName)
	writeDirective(b, "DefaultGroupName", d.DefaultGroupName)
	writeDirective(b, "OutputDir", d.OutputDir)
	writeDirective(b, "OutputBaseFilename", d.OutputBaseFilename)
	writeDirective(b, "SetupIconFile", d.SetupIconFile)
	writeDirective(b, "LicenseFile", d.LicenseFile)
	writeDirective(b, "Compression", "lzma")
	writeDirective(b, "SolidCompression", "yes")
	writeDirective(b, "WizardStyle", "modern")
	b.WriteString("\n")
}

func (d *Definition) renderTasks(b *strings.Builder) {
	if !d.DesktopIcon {
		return
	}

	b.WriteString("[Tasks]\n")
	b.WriteString(`Name: "desktopicon"; Description: "{cm:CreateDesktopIcon}"; ` +
		`GroupDescription: "{cm:AdditionalIcons}"; Flags: unchecked` + "\n\n")
}

func (d *Definition) renderFiles(b *strings.Builder) {
	b.WriteString("[Files]\n")

	for _, m := range d.Files {
		fmt.Fprintf(b, `Source: "%s"; DestDir: "%s"`, m.Source, m.DestDir)

		if len(m.Flags) > 0 {
			fmt.Fprintf(b, "; Flags: %s", strings.Join(m.Flags, " "))
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")
}

func (d *Definition) renderIcons(b *strings.Builder) {
	b.WriteString("[Icons]\n")
	fmt.Fprintf(b, `Name: "%s"; Filename: "%s"`+"\n",
		`{group}\`+d.AppName, `{app}\`+d.ExecutableName)

	if d.DesktopIcon {
		fmt.Fprintf(b, `Name: "%s"; Filename: "%s"; Tasks: desktopicon`+"\n",
			`{autodesktop}\`+d.AppName, `{app}\`+d.ExecutableName)
	}

	b.WriteString("\n")
}

func (d *Definition) renderRun(b *strings.Builder) {
	if !d.RunAfterInstall {
		return
	}

	b.WriteString("[Run]\n")
	fmt.Fprintf(b, `Filename: "%s"; Description: "%s"; Flags: nowait postinstall skipifsilent`+"\n",
		`{app}\`+d.ExecutableName, "{cm:LaunchProgram,"+d.AppName+"}")
}

// writeDirective emits a single key=value line, skipping empty values so the
// compiler falls back to its own defaults.
func writeDirective(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}

	b.WriteString(key)
	b.WriteString("=")
	b.WriteString(value)
	b.WriteString("\n")
}

// winPath converts a config path to the backslash form the installer
// compiler expects.
func winPath(p string) string {
	return strings.ReplaceAll(p, "/", `\`)
}
