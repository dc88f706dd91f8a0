package helpers

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kode4food/flowdraft/pkg/api"
)

// Clock is a manually advanced time source for deterministic timestamps
type Clock struct {
	now time.Time
	mu  sync.Mutex
}

// NewClock creates a Clock frozen at the provided time
func NewClock(at time.Time) *Clock {
	return &Clock{now: at}
}

// Now returns the clock's current time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewWorkflow creates a workflow with a single node and no edges
func NewWorkflow(name string) *api.Workflow {
	return &api.Workflow{
		Name:  name,
		Nodes: []json.RawMessage{Node("n1")},
		Edges: []json.RawMessage{},
	}
}

// NewRandomWorkflow creates a workflow with a unique name
func NewRandomWorkflow() *api.Workflow {
	return NewWorkflow("Test Workflow " + uuid.New().String()[:8])
}

// NewLinkedWorkflow creates a workflow with two nodes and one edge between
// them
func NewLinkedWorkflow(name string) *api.Workflow {
	return &api.Workflow{
		Name:  name,
		Nodes: []json.RawMessage{Node("n1"), Node("n2")},
		Edges: []json.RawMessage{Edge("e1", "n1", "n2")},
	}
}

// Node creates an editor node element
func Node(id string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"id":%q,"type":"default","position":{"x":0,"y":0},"data":{"label":%q}}`,
		id, id,
	))
}

// Edge creates an editor edge element
func Edge(id, source, target string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"id":%q,"source":%q,"target":%q}`, id, source, target,
	))
}

// SaveRequest builds the request body that would create the workflow
func SaveRequest(wf *api.Workflow) *api.SaveWorkflowRequest {
	return &api.SaveWorkflowRequest{
		Name:  wf.Name,
		Nodes: wf.Nodes,
		Edges: wf.Edges,
	}
}
