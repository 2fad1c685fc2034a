package builder

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
	"github.com/imreallyhimtho/sysutil-builder/internal/logger"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/common"
)

// Mode selects the packaging tool's output layout.
type Mode string

const (
	// ModeBundle produces a directory containing the executable and its
	// dependencies as separate files.
	ModeBundle Mode = "bundle"
	// ModePortable produces a single self-contained executable.
	ModePortable Mode = "portable"
)

// Options contains inputs for the build entry point.
type Options struct {
	// ConfigPath is an optional path to the build settings YAML.
	ConfigPath string
	// Mode selects between the directory bundle and the single-file output.
	Mode Mode
}

var (
	errUnknownMode      = errors.New("unknown build mode")
	errArtifactMissing  = errors.New("expected build artifact is missing")
	errArtifactNotADir  = errors.New("bundle artifact is not a directory")
	errArtifactNotAFile = errors.New("portable artifact is not a regular file")
)

// runner holds the state of a single build execution.
// It is unexported; callers use Run, which encapsulates setup and validation.
type runner struct {
	cfg  *config.Config
	mode Mode
}

// Run executes the build workflow: terminate lingering application
// processes, delete stale artifacts, invoke the packaging tool and verify
// the contracted output exists.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sysutil-"+string(opts.Mode))

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	b := &runner{cfg: cfg, mode: opts.Mode}

	if b.mode != ModeBundle && b.mode != ModePortable {
		return fmt.Errorf("%w: %s", errUnknownMode, b.mode)
	}

	if err = b.run(ctx); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Build completed", "artifact", b.artifactPath())

	return nil
}

func (b *runner) run(ctx context.Context) error {
	logger.Info(ctx, "Terminating lingering application instances")

	if err := b.terminateApplicationProcesses(); err != nil {
		return fmt.Errorf("terminate application processes: %w", err)
	}

	logger.Info(ctx, "Removing stale build artifacts")

	if err := b.removeStaleArtifacts(); err != nil {
		return fmt.Errorf("remove stale artifacts: %w", err)
	}

	logger.InfoKV(ctx, "Invoking packaging tool",
		"tool", b.cfg.Tools.Packager, "mode", string(b.mode))

	if err := common.RunTool(ctx, b.cfg.Tools.Packager, b.packagerArgs()...); err != nil {
		return err
	}

	logger.Info(ctx, "Verifying build output")

	if err := b.verifyArtifact(); err != nil {
		return err
	}

	return nil
}

// outputName returns the artifact base name for the active mode.
// Bundle and portable names never collide.
func (b *runner) outputName() string {
	if b.mode == ModePortable {
		return b.cfg.PortableName()
	}

	return b.cfg.App.OutputName
}

// artifactPath returns the path the packaging tool is expected to populate.
func (b *runner) artifactPath() string {
	if b.mode == ModePortable {
		return b.cfg.PortableExecutable()
	}

	return b.cfg.BundleDir()
}

// terminateApplicationProcesses kills running instances of the frozen
// application so stale artifact deletion cannot race an open executable.
func (b *runner) terminateApplicationProcesses() error {
	ext := config.ExecutableExtension()

	return common.TerminateProcessesByName(
		b.cfg.App.OutputName+ext,
		b.cfg.PortableName()+ext,
	)
}

// removeStaleArtifacts deletes the previous run's outputs so nothing leaks
// into the new build: the work directory, the mode's artifact and the
// packaging tool's intermediate file.
func (b *runner) removeStaleArtifacts() error {
	for _, path := range []string{
		b.cfg.Layout.BuildDir,
		b.artifactPath(),
	} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}

	if err := os.Remove(b.cfg.SpecFile(b.outputName())); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return nil
}

// packagerArgs assembles the packaging tool invocation: windowed/no-console
// mode, clean build, icon resource, output name and layout, and the
// application entry point. Portable mode adds the single-file flag.
func (b *runner) packagerArgs() []string {
	args := []string{
		"--noconsole",
		"--clean",
		"--name", b.outputName(),
		"--distpath", b.cfg.Layout.DistDir,
		"--workpath", b.cfg.Layout.BuildDir,
	}

	if b.cfg.App.Icon != "" {
		args = append(args, "--icon", b.cfg.App.Icon)
	}

	if b.mode == ModePortable {
		args = append(args, "--onefile")
	}

	return append(args, b.cfg.App.EntryPoint)
}

// verifyArtifact checks the packaging tool left the contracted output:
// a directory containing the executable for bundle mode, a single regular
// file for portable mode.
func (b *runner) verifyArtifact() error {
	info, err := os.Stat(b.artifactPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", b.artifactPath(), errArtifactMissing)
		}

		return err
	}

	if b.mode == ModePortable {
		if info.IsDir() {
			return fmt.Errorf("%s: %w", b.artifactPath(), errArtifactNotAFile)
		}

		return nil
	}

	if !info.IsDir() {
		return fmt.Errorf("%s: %w", b.artifactPath(), errArtifactNotADir)
	}

	if _, err = os.Stat(b.cfg.BundleExecutable()); err != nil {
		return fmt.Errorf("%s: %w", b.cfg.BundleExecutable(), errArtifactMissing)
	}

	return nil
}
