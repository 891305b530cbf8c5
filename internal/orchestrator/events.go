package orchestrator

import "time"

// EventType identifies a lifecycle transition emitted by the orchestrator.
type EventType string

const (
	EventTaskQueued      EventType = "task_queued"
	EventTaskStarted     EventType = "task_started"
	EventTaskCompleted   EventType = "task_completed"
	EventTaskFailed      EventType = "task_failed"
	EventWorkflowCreated EventType = "workflow_created"
	EventWorkflowDone    EventType = "workflow_done"
)

// Event is a lifecycle notification delivered on the orchestrator's event
// channel. Delivery is best-effort: if no consumer is draining the channel,
// events are dropped rather than blocking task execution.
type Event struct {
	Type       EventType `json:"type"`
	TaskID     string    `json:"task_id,omitempty"`
	WorkflowID string    `json:"workflow_id,omitempty"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// emitEvent sends an event without blocking. Events are dropped if the
// buffer is full.
func (o *Orchestrator) emitEvent(ev Event) {
	ev.Timestamp = time.Now()
	select {
	case o.events <- ev:
	default:
	}
}
