package helpers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/flowdraft/internal/assert/helpers"
	"github.com/kode4food/flowdraft/internal/events"
	"github.com/kode4food/flowdraft/pkg/api"
)

func TestEventWaiter(t *testing.T) {
	hub := events.NewHub()
	defer hub.Close()

	w := helpers.NewEventWaiter(hub, api.EventTypeWorkflowDeleted).
		ForName("My Flow")

	at := time.Now()
	hub.Publish(api.NewWorkflowEvent(api.EventTypeWorkflowCreated, "My Flow", at))
	hub.Publish(api.NewWorkflowEvent(api.EventTypeWorkflowDeleted, "Other", at))
	hub.Publish(api.NewWorkflowEvent(api.EventTypeWorkflowDeleted, "my flow", at))

	ev := w.Wait(t)
	assert.Equal(t, api.EventTypeWorkflowDeleted, ev.Type)
	assert.Equal(t, "my-flow", ev.Key)
}
