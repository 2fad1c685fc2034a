package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the build, packaging and distribution settings shared by the
// toolchain binaries.
type Config struct {
	// App describes the application being frozen and distributed.
	App AppConfig `yaml:"app"`
	// Tools names the external collaborators invoked by the pipeline.
	Tools ToolsConfig `yaml:"tools"`
	// Layout defines where build artifacts are produced.
	Layout LayoutConfig `yaml:"layout"`
	// Installer controls the generated installer definition.
	Installer InstallerConfig `yaml:"installer"`
	// Update configures the distribution feed for self-updates.
	Update UpdateConfig `yaml:"update"`
}

// AppConfig identifies the application being packaged.
type AppConfig struct {
	// Name is the human-readable application name.
	Name string `yaml:"name"`
	// OutputName is the filesystem-safe artifact base name.
	OutputName string `yaml:"output_name"`
	// Version is the application version shipped in artifacts and the feed.
	Version string `yaml:"version"`
	// Publisher appears in installer metadata.
	Publisher string `yaml:"publisher"`
	// EntryPoint is the module handed to the packaging tool.
	EntryPoint string `yaml:"entry_point"`
	// Icon is the icon resource embedded into the frozen executable.
	Icon string `yaml:"icon"`
	// LicenseFile is shown by the installer when set.
	LicenseFile string `yaml:"license_file"`
}

// ToolsConfig names the external executables. Both are used as opaque
// commands; only their arguments and exit codes are part of the contract.
type ToolsConfig struct {
	// Packager is the freezing tool command (PyInstaller-compatible CLI).
	Packager string `yaml:"packager"`
	// InstallerCompiler is the installer compiler command (Inno Setup CLI).
	InstallerCompiler string `yaml:"installer_compiler"`
}

// LayoutConfig defines the working tree of the pipeline.
type LayoutConfig struct {
	// BuildDir is the packaging tool's intermediate work directory.
	BuildDir string `yaml:"build_dir"`
	// DistDir is where frozen artifacts land.
	DistDir string `yaml:"dist_dir"`
	// InstallerOutputDir receives the compiled setup executable.
	InstallerOutputDir string `yaml:"installer_output_dir"`
	// ScriptPath is where the rendered installer definition is written.
	ScriptPath string `yaml:"script_path"`
}

// InstallerConfig tunes the declarative installer definition.
type InstallerConfig struct {
	// OutputBaseFilename is the setup executable name without extension.
	OutputBaseFilename string `yaml:"output_base_filename"`
	// DesktopIcon offers an install-time desktop shortcut choice.
	DesktopIcon bool `yaml:"desktop_icon"`
	// RunAfterInstall offers launching the application after installation.
	RunAfterInstall bool `yaml:"run_after_install"`
	// UseExistingScript skips rendering and compiles ScriptPath as-is.
	UseExistingScript bool `yaml:"use_existing_script"`
}

// UpdateConfig describes where update artifacts are published.
type UpdateConfig struct {
	// FeedURL is where clients fetch the update feed from.
	FeedURL string `yaml:"feed_url"`
	// DownloadURL is where the portable executable is hosted.
	DownloadURL string `yaml:"download_url"`
	// MinimumSupportedVersion marks older clients as requiring the update.
	MinimumSupportedVersion string `yaml:"minimum_supported_version"`
	// FeedPath is where the packager writes the feed locally.
	FeedPath string `yaml:"feed_path"`
}

const (
	// DefaultConfigFilename is the default filename for build settings.
	DefaultConfigFilename = "sysutil-builder.yaml"

	// DefaultFeedFilename is the default local name of the update feed.
	DefaultFeedFilename = "latest.json"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	defaultPackagerCommand          = "pyinstaller"
	defaultInstallerCompilerCommand = "iscc"
	defaultBuildDir                 = "build"
	defaultDistDir                  = "dist"
	defaultInstallerOutputDir       = "installer"

	// portableSuffix keeps bundle and portable artifact names from colliding.
	portableSuffix = "_Portable"

	setupSuffix = "_Setup"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAppNameRequired is returned when the application name is missing.
	errAppNameRequired = errors.New("application name must be provided")
	// errOutputNameRequired is returned when the artifact base name is missing.
	errOutputNameRequired = errors.New("application output name must be provided")
	// errEntryPointRequired is returned when the packaging entry point is missing.
	errEntryPointRequired = errors.New("application entry point must be provided")
	// errVersionRequired is returned when the application version is missing.
	errVersionRequired = errors.New("application version must be provided")
)

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields, fills defaults and verifies URL formats.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	switch {
	case cfg.App.Name == "":
		return errAppNameRequired
	case cfg.App.OutputName == "":
		return errOutputNameRequired
	case cfg.App.EntryPoint == "":
		return errEntryPointRequired
	case cfg.App.Version == "":
		return errVersionRequired
	}

	if cfg.Tools.Packager == "" {
		cfg.Tools.Packager = defaultPackagerCommand
	}

	if cfg.Tools.InstallerCompiler == "" {
		cfg.Tools.InstallerCompiler = defaultInstallerCompilerCommand
	}

	if cfg.Layout.BuildDir == "" {
		cfg.Layout.BuildDir = defaultBuildDir
	}

	if cfg.Layout.DistDir == "" {
		cfg.Layout.DistDir = defaultDistDir
	}

	if cfg.Layout.InstallerOutputDir == "" {
		cfg.Layout.InstallerOutputDir = defaultInstallerOutputDir
	}

	if cfg.Layout.ScriptPath == "" {
		cfg.Layout.ScriptPath = cfg.App.OutputName + ".iss"
	}

	if cfg.Installer.OutputBaseFilename == "" {
		cfg.Installer.OutputBaseFilename = cfg.App.OutputName + setupSuffix
	}

	if cfg.Update.FeedPath == "" {
		cfg.Update.FeedPath = DefaultFeedFilename
	}

	for _, rawURL := range []string{cfg.Update.FeedURL, cfg.Update.DownloadURL} {
		if rawURL == "" {
			continue
		}

		if _, err := url.ParseRequestURI(rawURL); err != nil {
			return fmt.Errorf("invalid update URL: %w", err)
		}
	}

	return nil
}

// PortableName returns the artifact base name of the single-file build.
func (c *Config) PortableName() string {
	return c.App.OutputName + portableSuffix
}

// BundleDir returns the directory populated by a bundle build.
func (c *Config) BundleDir() string {
	return filepath.Join(c.Layout.DistDir, c.App.OutputName)
}

// BundleExecutable returns the executable path inside the bundle directory.
func (c *Config) BundleExecutable() string {
	return filepath.Join(c.BundleDir(), c.App.OutputName+ExecutableExtension())
}

// PortableExecutable returns the single-file build output path.
func (c *Config) PortableExecutable() string {
	return filepath.Join(c.Layout.DistDir, c.PortableName()+ExecutableExtension())
}

// SetupExecutable returns the path of the compiled setup program.
// Installer output is always a Windows executable.
func (c *Config) SetupExecutable() string {
	return filepath.Join(c.Layout.InstallerOutputDir, c.Installer.OutputBaseFilename+".exe")
}

// SpecFile returns the packaging tool's intermediate file for an artifact name.
func (c *Config) SpecFile(outputName string) string {
	return outputName + ".spec"
}

// ExecutableExtension returns ".exe" on Windows and "" elsewhere.
func ExecutableExtension() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return ".exe"
	}

	return ""
}
