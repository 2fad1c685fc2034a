package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/builder"
	"github.com/imreallyhimtho/sysutil-builder/internal/version"
)

var (
	// configPath to the build settings YAML file.
	configPath string

	// rootCmd represents the base command for the single-file build.
	rootCmd = &cobra.Command{
		Use:   "sysutil-portable",
		Short: "Freeze the application into a single portable executable",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return builder.Run(ctx, &builder.Options{
				ConfigPath: configPath,
				Mode:       builder.ModePortable,
			})
		},
	}
)

// Execute runs the sysutil-portable CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to build settings file")
}
