// Package release holds the update feed model and version ordering rules.
// It is pure domain code: no I/O, no external tool knowledge.
package release
