// Package builder orchestrates the freezing of the application into either a
// directory bundle or a single portable executable.
//
// The packaging tool is an external collaborator invoked with a fixed flag
// set; this package only cleans stale artifacts beforehand and verifies the
// contracted output afterwards. Packaging failures surface as the tool's own
// exit status, without interpretation or recovery.
package builder
