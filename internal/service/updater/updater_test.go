package updater

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestParseVersionFromOutput accepts bare and decorated version outputs.
func TestParseVersionFromOutput(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1.0.0", parseVersionFromOutput("1.0.0\n"))
	require.Equal(t, "1.2.3", parseVersionFromOutput("version: 1.2.3, commit: abc, built at: now"))
	require.Equal(t, "2.0.0-beta1", parseVersionFromOutput("  2.0.0-beta1  "))
	require.Empty(t, parseVersionFromOutput(""))
}

// TestIsUpdaterRunningNow covers the marker lifecycle: absent, fresh, stale.
func TestIsUpdaterRunningNow(t *testing.T) {
	chdir(t, t.TempDir())

	ctx := context.Background()

	// No marker.
	require.False(t, IsUpdaterRunningNow(ctx))

	// Fresh marker blocks a second run.
	f, err := os.Create(MarkerFilename)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.True(t, IsUpdaterRunningNow(ctx))

	// Stale marker is recovered.
	past := time.Now().Add(-2 * markerLifetime)
	require.NoError(t, os.Chtimes(MarkerFilename, past, past))
	require.False(t, IsUpdaterRunningNow(ctx))

	_, err = os.Stat(MarkerFilename)
	require.ErrorIs(t, err, os.ErrNotExist)
}
