// Package manifest models the declarative installer definition and renders
// it to the script format consumed by the external installer compiler.
//
// The definition covers application metadata, file mappings, Start Menu and
// optional desktop shortcuts, and the optional post-install launch. It holds
// no logic of its own; everything conditional happens inside the compiler.
package manifest
