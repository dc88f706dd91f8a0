package api

import "time"

type (
	// EventType identifies the kind of change a WorkflowEvent describes
	EventType string

	// WorkflowEvent is published after a workflow document changes
	WorkflowEvent struct {
		Type      EventType `json:"type"`
		Name      string    `json:"name"`
		Key       string    `json:"key"`
		Timestamp int64     `json:"timestamp"`
	}
)

const (
	EventTypeWorkflowCreated EventType = "workflow_created"
	EventTypeWorkflowUpdated EventType = "workflow_updated"
	EventTypeWorkflowDeleted EventType = "workflow_deleted"
)

// NewWorkflowEvent creates an event for the named workflow stamped with the
// provided time
func NewWorkflowEvent(typ EventType, name string, at time.Time) *WorkflowEvent {
	return &WorkflowEvent{
		Type:      typ,
		Name:      name,
		Key:       SanitizeName(name),
		Timestamp: at.UnixMilli(),
	}
}
