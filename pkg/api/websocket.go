package api

import "slices"

type (
	// SubscribeRequest is sent by clients to narrow the event stream
	SubscribeRequest struct {
		Type string             `json:"type"`
		Data ClientSubscription `json:"data"`
	}

	// ClientSubscription configures which events a WebSocket client receives.
	// Empty lists match everything. Names are compared by storage key
	ClientSubscription struct {
		Names      []string    `json:"names,omitempty"`
		EventTypes []EventType `json:"event_types,omitempty"`
	}

	// SubscribedResult acknowledges a subscription change
	SubscribedResult struct {
		Type string             `json:"type"`
		Data ClientSubscription `json:"data"`
	}
)

// Matches returns true if the event passes the subscription's filters
func (s *ClientSubscription) Matches(ev *WorkflowEvent) bool {
	if len(s.EventTypes) > 0 && !slices.Contains(s.EventTypes, ev.Type) {
		return false
	}
	if len(s.Names) == 0 {
		return true
	}
	for _, n := range s.Names {
		if SanitizeName(n) == ev.Key {
			return true
		}
	}
	return false
}
