package updater

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
	"github.com/imreallyhimtho/sysutil-builder/internal/logger"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/common"
)

const (
	// MarkerFilename marks that the updater is running right now to avoid
	// parallel execution.
	MarkerFilename = "sysutil-update-marker.bin"

	// markerLifetime is the period after which a stale update marker is ignored.
	markerLifetime = 30 * time.Second

	// updaterExecutableBase is the updater's own binary name, used when
	// recovering from a stale marker.
	updaterExecutableBase = "sysutil-updater"
)

// IsUpdaterRunningNow checks presence of a marker file and attempts recovery
// if it looks stale.
func IsUpdaterRunningNow(ctx context.Context) bool {
	logger.Info(ctx, "Checking for the presence of an update marker")

	fileInfo, err := os.Stat(MarkerFilename)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return true
		}

		logger.Info(ctx, "The update marker is too old, attempting cleanup")

		if err = common.TerminateProcessesByName(updaterExecutableBase + config.ExecutableExtension()); err != nil {
			return true
		}

		if err = os.Remove(MarkerFilename); err != nil {
			return true
		}

		return false
	}

	if errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Update marker not found, continuing")
		return false
	}

	logger.Infof(ctx, "Unable to read update marker: %v", err)

	return false
}
