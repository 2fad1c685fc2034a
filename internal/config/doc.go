// Package config defines build and distribution settings shared by the
// toolchain binaries and provides helpers to load, validate and save them
// in YAML format.
//
// The Config type covers application identity, external tool commands,
// artifact layout, installer options and the update feed location.
package config
