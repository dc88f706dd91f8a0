package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/flowdraft/internal/assert/helpers"
	"github.com/kode4food/flowdraft/pkg/api"
	"github.com/kode4food/flowdraft/pkg/client"
)

func TestWatchAllEvents(t *testing.T) {
	r, _ := testRemote(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := r.Watch(ctx, nil)
	require.NoError(t, err)

	_, _, err = r.Write(ctx, helpers.NewWorkflow("Watched"))
	require.NoError(t, err)
	require.NoError(t, r.Delete(ctx, "watched"))

	ev := nextEvent(t, events)
	assert.Equal(t, api.EventTypeWorkflowCreated, ev.Type)
	assert.Equal(t, "watched", ev.Key)

	ev = nextEvent(t, events)
	assert.Equal(t, api.EventTypeWorkflowDeleted, ev.Type)
}

func TestWatchFiltered(t *testing.T) {
	r, _ := testRemote(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := r.Watch(ctx, &api.ClientSubscription{
		EventTypes: []api.EventType{api.EventTypeWorkflowUpdated},
	})
	require.NoError(t, err)

	_, _, err = r.Write(ctx, helpers.NewWorkflow("Filtered"))
	require.NoError(t, err)
	_, err = r.Update(ctx, "filtered", &api.WorkflowPatch{})
	require.NoError(t, err)

	ev := nextEvent(t, events)
	assert.Equal(t, api.EventTypeWorkflowUpdated, ev.Type)
	assert.Equal(t, "Filtered", ev.Name)
}

func TestWatchClosesOnCancel(t *testing.T) {
	r, _ := testRemote(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, err := r.Watch(ctx, nil)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(testTimeout):
		t.Fatal("watch channel not closed")
	}
}

func TestWatchUnreachable(t *testing.T) {
	r := client.NewRemote("http://127.0.0.1:1", testTimeout)
	_, err := r.Watch(context.Background(), nil)
	assert.ErrorIs(t, err, client.ErrUnreachable)
}

func nextEvent(
	t *testing.T, events <-chan *api.WorkflowEvent,
) *api.WorkflowEvent {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok)
		return ev
	case <-time.After(testTimeout):
		t.Fatal("timeout waiting for event")
		return nil
	}
}
