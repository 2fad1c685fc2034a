package updater

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
	"github.com/imreallyhimtho/sysutil-builder/internal/domain/release"
	"github.com/imreallyhimtho/sysutil-builder/internal/logger"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/common"
)

var (
	errUpdaterAlreadyRunning = errors.New("the updater is already running")
	errFeedURLRequired       = errors.New("feed URL is not configured")
	errEmptyFeed             = errors.New("update feed is empty")
	errNoChecksum            = errors.New("checksum missing for file")
	errBadHTTPStatus         = errors.New("unexpected http status")
	errUnsupportedOS         = errors.New("os not supported")
)

// versionCommandTimeout bounds the local version probe.
const versionCommandTimeout = 10 * time.Second

// Options are inputs accepted by the updater entry point.
type Options struct {
	// ConfigPath is the optional path to the build settings YAML.
	ConfigPath string
	// TargetPath is the executable to replace. Defaults to the portable
	// artifact name in the working directory.
	TargetPath string
	// Relaunch starts the updated executable after a successful apply.
	Relaunch bool
	// Force applies the update even when versions already match.
	Force bool
}

// runner holds the mutable state for a single update execution.
// It is intentionally unexported; call Run(ctx, Options) from callers.
type runner struct {
	cfg                *config.Config
	feed               *release.Feed
	targetPath         string
	localVersion       string
	temporaryDirectory string
	downloadedFile     string
	relaunch           bool
	force              bool
}

// Run executes the updater lifecycle and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sysutil-updater")

	u, err := newRunner(ctx, opts)
	if err != nil {
		return err
	}

	defer u.cleanup(ctx)

	if err = u.run(ctx); err != nil {
		logger.ErrorKV(ctx, "Updater run failed", "error", err)
		return err
	}

	logger.Info(ctx, "Updater completed")

	return nil
}

// newRunner prepares the run and writes a marker to avoid concurrent runs.
func newRunner(ctx context.Context, opts *Options) (*runner, error) {
	u := &runner{
		relaunch: opts.Relaunch,
		force:    opts.Force,
	}

	if IsUpdaterRunningNow(ctx) {
		return u, errUpdaterAlreadyRunning
	}

	updateMarker, err := os.Create(MarkerFilename)
	if err != nil {
		return u, err
	}

	if err = updateMarker.Close(); err != nil {
		return u, err
	}

	u.cfg, err = config.Load(opts.ConfigPath)
	if err != nil {
		return u, err
	}

	if u.cfg.Update.FeedURL == "" {
		return u, errFeedURLRequired
	}

	u.targetPath = opts.TargetPath
	if u.targetPath == "" {
		u.targetPath = filepath.Base(u.cfg.PortableExecutable())
	}

	return u, nil
}

// run executes the update workflow:
// 1) Fetch the remote feed.
// 2) Detect the local version.
// 3) Classify: up to date, update available, update required.
// 4) Terminate running application processes.
// 5) Download the new executable and verify its checksum.
// 6) Apply atomically and optionally relaunch.
func (u *runner) run(ctx context.Context) error {
	logger.Info(ctx, "Downloading the update feed")

	if err := u.fetchFeed(ctx); err != nil {
		return fmt.Errorf("fetch update feed: %w", err)
	}

	logger.Info(ctx, "Detecting local version from installed executable")
	u.localVersion = u.detectLocalVersion(ctx)

	status := u.feed.Classify(u.localVersion)
	logger.InfoKV(ctx, "Classified local install",
		"local", u.localVersion, "remote", u.feed.LatestVersion, "status", status.String())

	if status == release.StatusUpToDate && !u.force {
		logger.Info(ctx, "No update required")
		return nil
	}

	if status == release.StatusUpdateRequired {
		logger.Warn(ctx, "Local version is below the minimum supported one, update is mandatory")
	}

	logger.Info(ctx, "Terminating application processes before applying the update")

	if err := u.terminateApplicationProcesses(); err != nil {
		return fmt.Errorf("terminate application processes: %w", err)
	}

	logger.Info(ctx, "Downloading the update to a temporary folder")

	if err := u.downloadUpdate(ctx); err != nil {
		return fmt.Errorf("download update: %w", err)
	}

	logger.InfoKV(ctx, "Applying the update", "target", u.targetPath)

	if err := u.applyUpdate(ctx); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	if !u.relaunch {
		return nil
	}

	logger.InfoKV(ctx, "Starting updated executable", "executable", u.targetPath)

	if err := u.startTarget(ctx); err != nil {
		return fmt.Errorf("start updated executable: %w", err)
	}

	return nil
}

// fetchFeed downloads and parses the remote update feed.
func (u *runner) fetchFeed(ctx context.Context) error {
	response, err := u.getFromServer(ctx, u.cfg.Update.FeedURL)
	if response != nil {
		defer func() {
			_ = response.Body.Close()
		}()
	}

	if err != nil {
		return err
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	var feed release.Feed
	if err = json.Unmarshal(data, &feed); err != nil {
		return err
	}

	if feed.LatestVersion == "" {
		return errEmptyFeed
	}

	u.feed = &feed

	return nil
}

// getFromServer fetches a URL and requires a 200 response.
func (u *runner) getFromServer(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return response, err
	}

	if response.StatusCode != http.StatusOK {
		return response, fmt.Errorf("%s, %s: %w", rawURL, response.Status, errBadHTTPStatus)
	}

	return response, nil
}

// detectLocalVersion probes the installed executable for its version.
// An empty result is not an error; a first install has nothing to probe.
func (u *runner) detectLocalVersion(ctx context.Context) string {
	cmdCtx, cancel := context.WithTimeout(ctx, versionCommandTimeout)
	defer cancel()

	output, err := exec.CommandContext(cmdCtx, u.targetExecutable(), "--version").Output()
	if err != nil {
		logger.Warnf(ctx, "Could not get local version from %s: %v", u.targetPath, err)
		return ""
	}

	return parseVersionFromOutput(string(output))
}

// parseVersionFromOutput extracts a version string from probe output.
// Accepts either a bare version ("1.0.0") or the "version: 1.0.0, ..." form.
func parseVersionFromOutput(output string) string {
	output = strings.TrimSpace(output)
	if rest, found := strings.CutPrefix(output, "version: "); found {
		output = rest
		if comma := strings.IndexByte(output, ','); comma >= 0 {
			output = output[:comma]
		}
	}

	return strings.TrimSpace(output)
}

// targetExecutable returns the target path in a form exec will not resolve
// through PATH when it is a bare filename in the working directory.
func (u *runner) targetExecutable() string {
	if filepath.Base(u.targetPath) == u.targetPath {
		return "." + string(os.PathSeparator) + u.targetPath
	}

	return u.targetPath
}

// terminateApplicationProcesses kills running instances of the application
// so the executable can be replaced on disk.
func (u *runner) terminateApplicationProcesses() error {
	ext := config.ExecutableExtension()

	return common.TerminateProcessesByName(
		filepath.Base(u.targetPath),
		u.cfg.App.OutputName+ext,
		u.cfg.PortableName()+ext,
	)
}

// downloadUpdate fetches the published executable into a temporary directory.
func (u *runner) downloadUpdate(ctx context.Context) error {
	temporaryDirectory, err := os.MkdirTemp("", "sysutil-updater-")
	if err != nil {
		return err
	}

	u.temporaryDirectory = temporaryDirectory

	response, err := u.getFromServer(ctx, u.feed.DownloadURL)
	if response != nil {
		defer func() {
			_ = response.Body.Close()
		}()
	}

	if err != nil {
		return err
	}

	outputFileName := filepath.Join(temporaryDirectory, filepath.Base(u.targetPath))

	outputFile, err := os.Create(filepath.Clean(outputFileName))
	if err != nil {
		return err
	}

	if _, err = io.Copy(outputFile, response.Body); err != nil {
		_ = outputFile.Close()

		return err
	}

	if err = outputFile.Close(); err != nil {
		return err
	}

	u.downloadedFile = outputFileName
	logger.InfoKV(ctx, "Downloaded file", "path", outputFileName)

	return nil
}

// applyUpdate replaces the target executable atomically, validating the
// downloaded payload against the checksum published in the feed.
func (u *runner) applyUpdate(ctx context.Context) error {
	data, err := os.ReadFile(u.downloadedFile)
	if err != nil {
		return err
	}

	logger.Debug(ctx, "Looking for a checksum")

	checksumBase64, ok := u.feed.Files[filepath.Base(u.targetPath)]
	if !ok {
		return fmt.Errorf("checksum for %s: %w", u.targetPath, errNoChecksum)
	}

	checksum, err := base64.StdEncoding.DecodeString(checksumBase64)
	if err != nil {
		return err
	}

	if _, err = os.Stat(u.targetPath); err != nil && errors.Is(err, os.ErrNotExist) {
		if _, err = os.Create(u.targetPath); err != nil {
			return err
		}
	}

	logger.Debug(ctx, "Applying update")

	options := goupdate.Options{
		TargetPath: u.targetPath,
		TargetMode: common.DefaultFileMode,
		Checksum:   checksum,
		Hash:       common.DefaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return err
	}

	oldFileName := u.targetPath + ".old"
	if _, err = os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	return nil
}

// startTarget launches the updated executable.
func (u *runner) startTarget(ctx context.Context) error {
	osLC := strings.ToLower(runtime.GOOS)
	switch {
	case strings.Contains(osLC, "linux") || strings.Contains(osLC, "darwin"):
		return exec.CommandContext(ctx, u.targetExecutable()).Start()
	case strings.Contains(osLC, "windows"):
		return exec.CommandContext(ctx, "cmd.exe", "/C", "start", u.targetPath).Start()
	default:
		return fmt.Errorf("%s OS is not supported: %w", runtime.GOOS, errUnsupportedOS)
	}
}

// cleanup removes temporary artifacts and the running marker.
func (u *runner) cleanup(ctx context.Context) {
	if _, err := os.Stat(MarkerFilename); err == nil {
		_ = os.Remove(MarkerFilename)
	}

	if u.temporaryDirectory != "" {
		if _, err := os.Stat(u.temporaryDirectory); err == nil {
			_ = os.RemoveAll(u.temporaryDirectory)
		}
	}

	logger.Info(ctx, "The updater has been stopped")
}
