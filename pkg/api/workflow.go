package api

import (
	"encoding/json"
	"time"
)

type (
	// Workflow is a named workflow document as authored in the editor. Nodes
	// and edges are opaque to the service
	Workflow struct {
		CreatedAt time.Time         `json:"createdAt"`
		UpdatedAt time.Time         `json:"updatedAt"`
		Name      string            `json:"name"`
		Nodes     []json.RawMessage `json:"nodes"`
		Edges     []json.RawMessage `json:"edges"`
	}

	// WorkflowPatch carries the fields of a partial update. A nil slice
	// leaves the stored value untouched
	WorkflowPatch struct {
		Nodes []json.RawMessage `json:"nodes,omitempty"`
		Edges []json.RawMessage `json:"edges,omitempty"`
	}
)

// DefaultWorkflowName is used for drafts that have never been named
const DefaultWorkflowName = "Untitled Workflow"

// Key returns the storage key derived from the workflow's name
func (w *Workflow) Key() string {
	return SanitizeName(w.Name)
}

// WithDefaults returns a copy of the workflow with nil node and edge
// sequences replaced by empty ones
func (w *Workflow) WithDefaults() *Workflow {
	res := *w
	if res.Nodes == nil {
		res.Nodes = []json.RawMessage{}
	}
	if res.Edges == nil {
		res.Edges = []json.RawMessage{}
	}
	return &res
}

// Apply returns a copy of the workflow with the patch's supplied fields
// merged in
func (w *Workflow) Apply(p *WorkflowPatch) *Workflow {
	res := *w
	if p.Nodes != nil {
		res.Nodes = p.Nodes
	}
	if p.Edges != nil {
		res.Edges = p.Edges
	}
	return &res
}

// IsEmpty returns true if the patch supplies no fields
func (p *WorkflowPatch) IsEmpty() bool {
	return p.Nodes == nil && p.Edges == nil
}
