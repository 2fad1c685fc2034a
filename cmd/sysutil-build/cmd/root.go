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

	// rootCmd represents the base command for the directory build.
	rootCmd = &cobra.Command{
		Use:   "sysutil-build",
		Short: "Freeze the application into a directory bundle",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return builder.Run(ctx, &builder.Options{
				ConfigPath: configPath,
				Mode:       builder.ModeBundle,
			})
		},
	}
)

// Execute runs the sysutil-build CLI and exits with non-zero status on error.
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
