// Package updater downloads and applies application updates from the
// published feed.
//
// It compares the local install against the feed, classifies the result
// (no update, update available, mandatory update below the minimum supported
// version), downloads the new executable to a temporary directory, verifies
// its checksum and applies it atomically. A marker file prevents concurrent
// runs; stale markers are recovered.
package updater
