package packager

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/imreallyhimtho/sysutil-builder/internal/config"
	"github.com/imreallyhimtho/sysutil-builder/internal/domain/release"
	"github.com/imreallyhimtho/sysutil-builder/internal/logger"
	"github.com/imreallyhimtho/sysutil-builder/internal/service/common"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional path to the build settings YAML.
	ConfigPath string
	// Changelog is the release summary published in the feed.
	Changelog string
}

var (
	errDownloadURLRequired = errors.New("download URL must be configured to publish a feed")
	errPortableMissing     = errors.New("portable executable not found, run the portable build first")
)

// packager prepares the update feed for distribution.
// It is unexported; callers use Run, which encapsulates setup and validation.
type packager struct {
	cfg  *config.Config
	feed *release.Feed
}

// Run executes the feed packaging workflow: hash the distributable
// artifacts and write the update feed consumed by the updater and by the
// application's in-app update check.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sysutil-packager")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if cfg.Update.DownloadURL == "" {
		return errDownloadURLRequired
	}

	p := &packager{
		cfg: cfg,
		feed: &release.Feed{
			LatestVersion:           cfg.App.Version,
			MinimumSupportedVersion: cfg.Update.MinimumSupportedVersion,
			DownloadURL:             cfg.Update.DownloadURL,
			Changelog:               opts.Changelog,
			Files:                   make(map[string]string),
		},
	}

	if err = p.run(ctx); err != nil {
		return fmt.Errorf("packager failed: %w", err)
	}

	logger.Info(ctx, "Packager completed successfully")

	return nil
}

func (p *packager) run(ctx context.Context) error {
	logger.Info(ctx, "Hashing distributable artifacts")

	if err := p.fillChecksums(); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Saving update feed", "path", p.cfg.Update.FeedPath)

	if err := p.saveFeed(); err != nil {
		return err
	}

	p.printNextSteps(ctx)

	return nil
}

// fillChecksums hashes the portable executable and, when present, the setup
// executable. The portable artifact is mandatory: it is the feed's download
// target.
func (p *packager) fillChecksums() error {
	portable := p.cfg.PortableExecutable()
	if _, err := os.Stat(portable); err != nil {
		return fmt.Errorf("%s: %w", portable, errPortableMissing)
	}

	artifacts := []string{portable}

	setup := p.cfg.SetupExecutable()
	if _, err := os.Stat(setup); err == nil {
		artifacts = append(artifacts, setup)
	}

	for _, path := range artifacts {
		checksum, err := common.FileChecksum(path)
		if err != nil {
			return err
		}

		p.feed.Files[filepath.Base(path)] = base64.StdEncoding.EncodeToString(checksum)
	}

	return nil
}

// saveFeed writes the feed document to the configured local path.
func (p *packager) saveFeed() error {
	contents, err := json.MarshalIndent(p.feed, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(p.cfg.Update.FeedPath, append(contents, '\n'), common.DefaultFileMode)
}

// printNextSteps logs human-readable guidance for publishing the release.
func (p *packager) printNextSteps(ctx context.Context) {
	files := make([]string, 0, len(p.feed.Files)+1)
	for name := range p.feed.Files {
		files = append(files, name)
	}

	files = append(files, filepath.Base(p.cfg.Update.FeedPath))
	sort.Strings(files)

	var builder strings.Builder

	builder.WriteString("Upload the following files next to ")
	builder.WriteString(p.cfg.Update.DownloadURL)
	builder.WriteString(":\n")
	builder.WriteString(strings.Join(files, ",\n"))
	builder.WriteString("\nClients will pick up version ")
	builder.WriteString(p.feed.LatestVersion)
	builder.WriteString(" on their next update check.")

	logger.Info(ctx, builder.String())
}
