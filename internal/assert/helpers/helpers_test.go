package helpers_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/flowdraft/internal/assert/helpers"
)

func TestClockAdvance(t *testing.T) {
	c := helpers.NewClock(helpers.TestEpoch)
	assert.Equal(t, helpers.TestEpoch, c.Now())

	c.Advance(time.Minute)
	assert.Equal(t, helpers.TestEpoch.Add(time.Minute), c.Now())
}

func TestNewLinkedWorkflow(t *testing.T) {
	wf := helpers.NewLinkedWorkflow("Linked")
	assert.Len(t, wf.Nodes, 2)
	assert.Len(t, wf.Edges, 1)

	var edge map[string]string
	require.NoError(t, json.Unmarshal(wf.Edges[0], &edge))
	assert.Equal(t, "n1", edge["source"])
	assert.Equal(t, "n2", edge["target"])
}

func TestNewRandomWorkflow(t *testing.T) {
	a := helpers.NewRandomWorkflow()
	b := helpers.NewRandomWorkflow()
	assert.NotEqual(t, a.Name, b.Name)
}

func TestSeed(t *testing.T) {
	env := helpers.NewTestEnv(t)
	defer env.Cleanup()

	env.Seed(t, "One", "Two")

	names, err := env.Store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, names)
	assert.Equal(t, helpers.TestEpoch.Add(2*time.Second), env.Clock.Now())
}
