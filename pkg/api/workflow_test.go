package api_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/flowdraft/pkg/api"
)

func TestWorkflowKey(t *testing.T) {
	wf := &api.Workflow{Name: "My Flow"}
	assert.Equal(t, "my-flow", wf.Key())
}

func TestWorkflowWithDefaults(t *testing.T) {
	wf := &api.Workflow{Name: "Demo"}
	res := wf.WithDefaults()

	assert.NotNil(t, res.Nodes)
	assert.NotNil(t, res.Edges)
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Edges)
	assert.Nil(t, wf.Nodes)

	data, err := json.Marshal(res)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"nodes":[]`)
	assert.Contains(t, string(data), `"edges":[]`)
}

func TestWorkflowApply(t *testing.T) {
	wf := &api.Workflow{
		Name:  "Demo",
		Nodes: []json.RawMessage{json.RawMessage(`{"id":"a"}`)},
		Edges: []json.RawMessage{json.RawMessage(`{"id":"e"}`)},
	}

	t.Run("nodes only", func(t *testing.T) {
		res := wf.Apply(&api.WorkflowPatch{
			Nodes: []json.RawMessage{
				json.RawMessage(`{"id":"a"}`), json.RawMessage(`{"id":"b"}`),
			},
		})
		assert.Len(t, res.Nodes, 2)
		assert.Len(t, res.Edges, 1)
		assert.Len(t, wf.Nodes, 1)
	})

	t.Run("empty edges clears", func(t *testing.T) {
		res := wf.Apply(&api.WorkflowPatch{Edges: []json.RawMessage{}})
		assert.Len(t, res.Nodes, 1)
		assert.Empty(t, res.Edges)
	})

	t.Run("empty patch", func(t *testing.T) {
		p := &api.WorkflowPatch{}
		assert.True(t, p.IsEmpty())
		assert.Equal(t, wf, wf.Apply(p))
	})
}

func TestWorkflowPatchNullKeepsField(t *testing.T) {
	var p api.WorkflowPatch
	err := json.Unmarshal([]byte(`{"nodes":null,"edges":[]}`), &p)
	assert.NoError(t, err)
	assert.Nil(t, p.Nodes)
	assert.NotNil(t, p.Edges)
	assert.False(t, p.IsEmpty())
}

func TestWorkflowTimestampsRoundTrip(t *testing.T) {
	raw := `{
		"name": "Demo",
		"nodes": [{"id":"a"}],
		"edges": [],
		"createdAt": "2024-05-01T10:00:00.000Z",
		"updatedAt": "2024-05-01T10:05:00.123Z"
	}`

	var wf api.Workflow
	assert.NoError(t, json.Unmarshal([]byte(raw), &wf))
	assert.Equal(t, "Demo", wf.Name)
	assert.Equal(t,
		time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), wf.CreatedAt.UTC(),
	)
	assert.Equal(t, 123*time.Millisecond,
		wf.UpdatedAt.Sub(wf.CreatedAt)-5*time.Minute,
	)
}

func TestSaveWorkflowRequestWorkflow(t *testing.T) {
	var req api.SaveWorkflowRequest
	err := json.Unmarshal([]byte(`{"name":"Demo","createdAt":"x"}`), &req)
	assert.NoError(t, err)

	wf := req.Workflow()
	assert.Equal(t, "Demo", wf.Name)
	assert.NotNil(t, wf.Nodes)
	assert.NotNil(t, wf.Edges)
	assert.True(t, wf.CreatedAt.IsZero())
}
