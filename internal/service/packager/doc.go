// Package packager prepares the update feed consumed by the updater.
//
// It computes checksums for the distributable artifacts, fills release
// metadata and persists the feed document uploaded next to the hosted
// executables.
package packager
