// Package engine identifies the Flowgrid workflow automation engine
package engine

const (
	// Name is the service name reported in logs and health responses
	Name = "flowgrid"

	// Version is the engine version
	Version = "0.3.0"
)
