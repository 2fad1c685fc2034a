package release

import (
	"strconv"
	"strings"
)

// Feed is the update document published next to the distributed artifacts.
// Field names match the document consumed by the application's in-app update
// check, so both readers stay compatible.
type Feed struct {
	// LatestVersion is the newest published application version.
	LatestVersion string `json:"latest_version"`
	// MinimumSupportedVersion marks older installs as requiring the update.
	MinimumSupportedVersion string `json:"minimum_supported_version,omitempty"`
	// DownloadURL points at the portable executable of the latest release.
	DownloadURL string `json:"download_url"`
	// Changelog is a human-readable release summary.
	Changelog string `json:"changelog,omitempty"`
	// Files maps artifact filenames to their base64-encoded checksums.
	Files map[string]string `json:"files,omitempty"`
}

// Status classifies a local install against the published feed.
type Status int

const (
	// StatusUpToDate means the local version is the latest one or newer.
	StatusUpToDate Status = iota
	// StatusUpdateAvailable means a newer version exists.
	StatusUpdateAvailable
	// StatusUpdateRequired means the local version is below the minimum
	// supported one and must be updated.
	StatusUpdateRequired
)

// String returns a log-friendly status name.
func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "up_to_date"
	case StatusUpdateAvailable:
		return "update_available"
	case StatusUpdateRequired:
		return "update_required"
	default:
		return "unknown"
	}
}

// Classify compares a local version against the feed.
// An empty or unparsable local version counts as outdated: a fresh or broken
// install should always be brought to the latest release.
func (f *Feed) Classify(localVersion string) Status {
	if localVersion == "" {
		return StatusUpdateAvailable
	}

	if f.MinimumSupportedVersion != "" && Compare(localVersion, f.MinimumSupportedVersion) < 0 {
		return StatusUpdateRequired
	}

	if Compare(localVersion, f.LatestVersion) < 0 {
		return StatusUpdateAvailable
	}

	return StatusUpToDate
}

// Compare orders two dotted version strings by their numeric components.
// Pre-release suffixes after a dash ("2.0.0-beta1") are ignored for
// ordering. Missing components count as zero, so "1.0" equals "1.0.0".
// The result is negative when a is older, zero when equal, positive when newer.
func Compare(a, b string) int {
	av, bv := parseNumericCore(a), parseNumericCore(b)

	n := len(av)
	if len(bv) > n {
		n = len(bv)
	}

	for i := 0; i < n; i++ {
		var x, y int

		if i < len(av) {
			x = av[i]
		}

		if i < len(bv) {
			y = bv[i]
		}

		if x != y {
			return x - y
		}
	}

	return 0
}

// parseNumericCore extracts the leading dotted integer components of a
// version string. Components that do not parse stop the scan, so "1.x.3"
// yields [1].
func parseNumericCore(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if dash := strings.IndexByte(v, '-'); dash >= 0 {
		v = v[:dash]
	}

	parts := strings.Split(v, ".")
	numbers := make([]int, 0, len(parts))

	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}

		numbers = append(numbers, n)
	}

	return numbers
}
