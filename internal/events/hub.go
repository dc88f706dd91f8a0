package events

import (
	"sync"

	"github.com/kode4food/caravan"
	"github.com/kode4food/caravan/message"
	"github.com/kode4food/caravan/topic"

	"github.com/kode4food/flowdraft/pkg/api"
)

type (
	// Hub fans workflow change events out to any number of consumers.
	// Consumers only observe events published after they are created
	Hub struct {
		topic  topic.Topic[*api.WorkflowEvent]
		prod   topic.Producer[*api.WorkflowEvent]
		mu     sync.RWMutex
		closed bool
	}

	// Consumer receives workflow change events from a Hub
	Consumer = topic.Consumer[*api.WorkflowEvent]

	// Publisher accepts workflow change events
	Publisher interface {
		Publish(*api.WorkflowEvent)
	}
)

var _ Publisher = (*Hub)(nil)

// NewHub creates an open event hub
func NewHub() *Hub {
	t := caravan.NewTopic[*api.WorkflowEvent]()
	return &Hub{
		topic: t,
		prod:  t.NewProducer(),
	}
}

// Publish sends an event to all current consumers. Events published after
// Close are dropped
func (h *Hub) Publish(ev *api.WorkflowEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	message.Send(h.prod, ev)
}

// NewConsumer creates a consumer that receives subsequently published
// events. The caller must Close it
func (h *Hub) NewConsumer() Consumer {
	return h.topic.NewConsumer()
}

// Close stops accepting new events
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.prod.Close()
}
