package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/installer"
	"github.com/imreallyhimtho/sysutil-builder/internal/version"
)

var (
	// configPath to the build settings YAML file.
	configPath string

	// rootCmd represents the base command for the installer chain.
	rootCmd = &cobra.Command{
		Use:   "sysutil-installer",
		Short: "Build the application bundle and compile the setup executable",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return installer.Run(ctx, &installer.Options{
				ConfigPath: configPath,
			})
		},
	}
)

// Execute runs the sysutil-installer CLI and exits with non-zero status on error.
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
