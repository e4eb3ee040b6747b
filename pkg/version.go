// Package agrietl holds build information for the agrietl application.
package agrietl

var (
	// Version of agrietl, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
