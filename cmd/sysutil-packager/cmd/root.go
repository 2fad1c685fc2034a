package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/packager"
	"github.com/imreallyhimtho/sysutil-builder/internal/version"
)

var (
	// configPath to the build settings YAML file.
	configPath string

	// changelog is the release summary published in the feed.
	changelog string

	// rootCmd represents the base command for preparing the update feed.
	rootCmd = &cobra.Command{
		Use:   "sysutil-packager",
		Short: "Prepare the update feed for distribution",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return packager.Run(ctx, &packager.Options{
				ConfigPath: configPath,
				Changelog:  changelog,
			})
		},
	}
)

// Execute runs the sysutil-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to build settings file")
	rootCmd.Flags().StringVar(&changelog, "changelog", "", "release summary published in the feed")
}
