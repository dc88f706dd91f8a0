package api

import "encoding/json"

type (
	// SaveWorkflowRequest contains the document to create or update
	SaveWorkflowRequest struct {
		Name  string            `json:"name"`
		Nodes []json.RawMessage `json:"nodes,omitempty"`
		Edges []json.RawMessage `json:"edges,omitempty"`
	}

	// WorkflowSavedResponse is returned when a create-or-update succeeds.
	// Created reports which branch was taken and is informational only
	WorkflowSavedResponse struct {
		Workflow *Workflow `json:"workflow"`
		Message  string    `json:"message"`
		Created  bool      `json:"created"`
	}

	// WorkflowUpdatedResponse is returned when a partial update succeeds
	WorkflowUpdatedResponse struct {
		Workflow *Workflow `json:"workflow"`
		Message  string    `json:"message"`
	}

	// WorkflowsListResponse contains the stored workflow keys in ascending
	// order
	WorkflowsListResponse struct {
		Workflows []string `json:"workflows"`
		Count     int      `json:"count"`
	}

	// HealthResponse provides service liveness information
	HealthResponse struct {
		Service string       `json:"service"`
		Version string       `json:"version"`
		Status  HealthStatus `json:"status"`
		Message string       `json:"message,omitempty"`
	}

	// MessageResponse contains a simple message string
	MessageResponse struct {
		Message string `json:"message"`
	}

	// ErrorResponse contains error details for failed requests
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status,omitempty"`
	}

	// HealthStatus represents the liveness of the service
	HealthStatus string
)

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// Workflow builds the document carried by the request, with empty node and
// edge sequences where none were supplied
func (r *SaveWorkflowRequest) Workflow() *Workflow {
	res := &Workflow{
		Name:  r.Name,
		Nodes: r.Nodes,
		Edges: r.Edges,
	}
	return res.WithDefaults()
}
