// Package common holds helpers shared by the pipeline services: external
// tool invocation, artifact checksums and process termination.
package common
