package models

// WorkflowState represents the state reported for a workflow query.
type WorkflowState string

const (
	// WorkflowActive indicates the workflow is registered and tracked.
	WorkflowActive WorkflowState = "active"
	// WorkflowNotFound indicates the workflow id is not registered.
	// This is a normal query result, not an error.
	WorkflowNotFound WorkflowState = "not_found"
	// WorkflowCompleted indicates an execution pass has finished.
	WorkflowCompleted WorkflowState = "completed"
	// WorkflowCanceled indicates an execution pass was canceled.
	WorkflowCanceled WorkflowState = "canceled"
)

// Workflow is a named, fixed grouping of tasks. The task list is set
// at creation and never changes; all progress is derived state.
type Workflow struct {
	// ID is the caller-supplied unique identifier.
	ID string `json:"id"`
	// Tasks is the ordered task list, fixed at creation.
	Tasks []*Task `json:"tasks"`
}

// TaskIDs returns the ids of the workflow's tasks in definition order.
func (w *Workflow) TaskIDs() []string {
	ids := make([]string, 0, len(w.Tasks))
	for _, t := range w.Tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

// WorkflowStatus is the derived progress report for a workflow.
// Completed and Pending are computed by id membership against the
// live queue and completed set at query time.
type WorkflowStatus struct {
	// State is WorkflowActive, or WorkflowNotFound for unknown ids.
	State WorkflowState `json:"status"`
	// Total is the number of tasks in the workflow.
	Total int `json:"total_tasks"`
	// Completed is the number of workflow tasks in the completed set.
	Completed int `json:"completed"`
	// Pending is the number of workflow tasks still in the queue.
	Pending int `json:"pending"`
	// Progress is Completed/Total, 0.0 for an empty workflow.
	Progress float64 `json:"progress"`
}

// TaskResultState represents the outcome of a single task execution.
type TaskResultState string

const (
	// TaskResultCompleted indicates the executor finished the task.
	TaskResultCompleted TaskResultState = "completed"
	// TaskResultFailed indicates the executor reported an error.
	TaskResultFailed TaskResultState = "failed"
)

// TaskResult records the outcome of one task executed during a
// workflow drain.
type TaskResult struct {
	// TaskID is the id of the executed task.
	TaskID string `json:"task_id"`
	// State is the execution outcome.
	State TaskResultState `json:"status"`
	// Output is the executor's opaque result payload.
	Output string `json:"result,omitempty"`
	// Error holds the executor failure message, if any.
	Error string `json:"error,omitempty"`
}

// WorkflowResult is the outcome of an ExecuteWorkflow call.
type WorkflowResult struct {
	// WorkflowID is the workflow the execution was requested for.
	WorkflowID string `json:"workflow_id"`
	// State is WorkflowCompleted, WorkflowCanceled, or WorkflowNotFound.
	State WorkflowState `json:"status"`
	// Results holds one entry per task drained from the queue, in the
	// order they were executed.
	Results []TaskResult `json:"results"`
}
