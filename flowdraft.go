// Package flowdraft identifies the workflow document service
package flowdraft

const (
	// Name is the service name reported in logs and health responses
	Name = "flowdraft"

	// Version is the service version reported in logs and health responses
	Version = "0.3.0"
)
