package helpers

import (
	"testing"
	"time"

	"github.com/kode4food/flowdraft/internal/events"
	"github.com/kode4food/flowdraft/pkg/api"
)

// EventWaiter waits for workflow events matching a subscription. Create it
// before triggering the action
type EventWaiter struct {
	consumer events.Consumer
	sub      api.ClientSubscription
}

// DefaultWaitTimeout bounds how long a waiter blocks
const DefaultWaitTimeout = 5 * time.Second

// NewEventWaiter subscribes to the hub, matching events of the given types
// (all types when none are given)
func NewEventWaiter(hub *events.Hub, types ...api.EventType) *EventWaiter {
	return &EventWaiter{
		consumer: hub.NewConsumer(),
		sub:      api.ClientSubscription{EventTypes: types},
	}
}

// ForName narrows the waiter to events about a single workflow
func (w *EventWaiter) ForName(name string) *EventWaiter {
	w.sub.Names = []string{name}
	return w
}

// Wait blocks until a matching event arrives and returns it
func (w *EventWaiter) Wait(t *testing.T) *api.WorkflowEvent {
	t.Helper()
	defer w.consumer.Close()

	deadline := time.After(DefaultWaitTimeout)
	for {
		select {
		case ev, ok := <-w.consumer.Receive():
			if !ok {
				t.Fatal("event hub closed while waiting")
			}
			if ev != nil && w.sub.Matches(ev) {
				return ev
			}
		case <-deadline:
			t.Fatalf("timeout waiting for events %v", w.sub.EventTypes)
		}
	}
}

// Close releases the waiter without waiting
func (w *EventWaiter) Close() {
	w.consumer.Close()
}
