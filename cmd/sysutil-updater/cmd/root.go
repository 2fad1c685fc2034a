package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/updater"
	"github.com/imreallyhimtho/sysutil-builder/internal/version"
)

var (
	// configPath to the build settings YAML file.
	configPath string

	// targetPath is the executable replaced by the update.
	targetPath string

	// relaunch starts the updated executable after applying.
	relaunch bool

	// force applies the update even when versions already match.
	force bool

	// rootCmd represents the base command for the self-update workflow.
	rootCmd = &cobra.Command{
		Use:   "sysutil-updater",
		Short: "Check the update feed and apply the published update",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return updater.Run(ctx, &updater.Options{
				ConfigPath: configPath,
				TargetPath: targetPath,
				Relaunch:   relaunch,
				Force:      force,
			})
		},
	}
)

// Execute runs the sysutil-updater CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to build settings file")
	rootCmd.Flags().StringVarP(&targetPath, "target", "t", "", "executable to replace (defaults to the portable artifact)")
	rootCmd.Flags().BoolVar(&relaunch, "relaunch", false, "start the updated executable after applying")
	rootCmd.Flags().BoolVar(&force, "force", false, "apply the update even when versions match")
}
