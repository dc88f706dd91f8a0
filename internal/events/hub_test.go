package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/flowdraft/internal/events"
	"github.com/kode4food/flowdraft/pkg/api"
)

const receiveTimeout = 2 * time.Second

func TestHubDeliversToConsumers(t *testing.T) {
	hub := events.NewHub()
	defer hub.Close()

	c1 := hub.NewConsumer()
	defer c1.Close()
	c2 := hub.NewConsumer()
	defer c2.Close()

	ev := api.NewWorkflowEvent(
		api.EventTypeWorkflowCreated, "Demo", time.Now(),
	)
	hub.Publish(ev)

	for _, c := range []events.Consumer{c1, c2} {
		select {
		case got := <-c.Receive():
			assert.Equal(t, ev, got)
		case <-time.After(receiveTimeout):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestHubPreservesOrder(t *testing.T) {
	hub := events.NewHub()
	defer hub.Close()

	c := hub.NewConsumer()
	defer c.Close()

	now := time.Now()
	types := []api.EventType{
		api.EventTypeWorkflowCreated,
		api.EventTypeWorkflowUpdated,
		api.EventTypeWorkflowDeleted,
	}
	for _, typ := range types {
		hub.Publish(api.NewWorkflowEvent(typ, "Demo", now))
	}

	for _, typ := range types {
		select {
		case got := <-c.Receive():
			assert.Equal(t, typ, got.Type)
		case <-time.After(receiveTimeout):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestHubPublishAfterClose(t *testing.T) {
	hub := events.NewHub()
	hub.Close()
	hub.Close()

	assert.NotPanics(t, func() {
		hub.Publish(api.NewWorkflowEvent(
			api.EventTypeWorkflowDeleted, "Demo", time.Now(),
		))
	})
}
