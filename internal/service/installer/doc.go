// Package installer composes the directory build with the external installer
// compiler to produce a single setup executable.
package installer
