package models

// Kind categorizes a task by the capability needed to execute it.
// Executors are registered per kind, so the set is closed: an unknown
// kind is routed to the registry's default executor or rejected there.
type Kind string

const (
	// KindPlanning is for product definition and roadmap work.
	KindPlanning Kind = "planning"
	// KindMarketing is for campaign and awareness work.
	KindMarketing Kind = "marketing"
	// KindSales is for revenue and customer acquisition work.
	KindSales Kind = "sales"
	// KindSupport is for customer support and satisfaction work.
	KindSupport Kind = "support"
)

// Valid returns true if the kind is a known value.
func (k Kind) Valid() bool {
	switch k {
	case KindPlanning, KindMarketing, KindSales, KindSupport:
		return true
	default:
		return false
	}
}

// Task represents a unit of work in the system.
// A Task is immutable after creation: its lifecycle (pending, queued,
// completed) is tracked by membership in the orchestrator's queue and
// completed set, never as a field on the Task itself.
type Task struct {
	// ID is the unique identifier for this task, assigned once at creation.
	ID string `json:"id"`
	// Kind is the capability category used for executor dispatch.
	Kind Kind `json:"kind"`
	// Content is the opaque task payload. The orchestration core never
	// interprets it; only executors do.
	Content string `json:"content"`
	// Sender is the agent that issued the task.
	Sender string `json:"sender"`
	// Recipient is the agent the task is addressed to, if any.
	Recipient string `json:"recipient,omitempty"`
	// Priority orders the task in the queue. Higher is more urgent.
	Priority int `json:"priority"`
	// Metadata carries opaque key-value annotations.
	Metadata map[string]string `json:"metadata,omitempty"`
	// DependsOn lists task IDs that must complete before this task is
	// considered complete. Declared dependency only: the queue drains
	// strictly by priority and does not gate dequeue on this list.
	DependsOn []string `json:"depends_on,omitempty"`
}
