package installer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
	"github.com/imreallyhimtho/sysutil-builder/internal/logger"
	"github.com/imreallyhimtho/sysutil-builder/internal/manifest"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/builder"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/common"
)

// Options contains inputs for the installer chain entry point.
type Options struct {
	// ConfigPath is an optional path to the build settings YAML.
	ConfigPath string
}

var (
	errScriptMissing = errors.New("installer script is missing")
	errSetupMissing  = errors.New("setup executable was not produced")
)

// Run executes the installer chain: the directory build first, then the
// installer compiler against the declarative manifest. The chain is pure
// composition and halts on the first failing step, so the compiler is never
// invoked against a stale or missing source tree.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sysutil-installer")

	if err := builder.Run(ctx, &builder.Options{
		ConfigPath: opts.ConfigPath,
		Mode:       builder.ModeBundle,
	}); err != nil {
		return fmt.Errorf("directory build: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err = prepareScript(ctx, cfg); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Invoking installer compiler",
		"tool", cfg.Tools.InstallerCompiler, "script", cfg.Layout.ScriptPath)

	if err = common.RunTool(ctx, cfg.Tools.InstallerCompiler, cfg.Layout.ScriptPath); err != nil {
		return err
	}

	if _, err = os.Stat(cfg.SetupExecutable()); err != nil {
		return fmt.Errorf("%s: %w", cfg.SetupExecutable(), errSetupMissing)
	}

	logger.InfoKV(ctx, "Installer produced", "setup", cfg.SetupExecutable())

	return nil
}

// prepareScript renders the declarative manifest, or verifies a hand-authored
// script is present when the configuration points at an existing one.
func prepareScript(ctx context.Context, cfg *config.Config) error {
	if cfg.Installer.UseExistingScript {
		if _, err := os.Stat(cfg.Layout.ScriptPath); err != nil {
			return fmt.Errorf("%s: %w", cfg.Layout.ScriptPath, errScriptMissing)
		}

		logger.InfoKV(ctx, "Using existing installer script", "script", cfg.Layout.ScriptPath)

		return nil
	}

	logger.InfoKV(ctx, "Rendering installer script", "script", cfg.Layout.ScriptPath)

	if err := manifest.FromConfig(cfg).WriteFile(cfg.Layout.ScriptPath); err != nil {
		return fmt.Errorf("render installer script: %w", err)
	}

	return nil
}
