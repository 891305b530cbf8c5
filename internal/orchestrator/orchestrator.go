// Package orchestrator coordinates task scheduling and workflow execution.
// Tasks flow through a single shared priority queue; workflows are named
// groupings of tasks whose status is computed from queue and completed-set
// membership rather than stored per task.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/castorlabs/crew/internal/agent"
	"github.com/castorlabs/crew/internal/queue"
	"github.com/castorlabs/crew/internal/registry"
	"github.com/castorlabs/crew/pkg/models"
)

var (
	// ErrWorkflowExists is returned when creating a workflow whose id is
	// already registered.
	ErrWorkflowExists = errors.New("workflow already exists")

	// ErrUnknownReference is returned when a workflow task names a
	// dependency or recipient the orchestrator has never seen.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrDuplicateTask is returned when a workflow claims a task id that
	// already belongs to another workflow.
	ErrDuplicateTask = errors.New("task already tracked by another workflow")
)

// Config holds the orchestrator's collaborators.
type Config struct {
	// Executor runs tasks during ExecuteWorkflow. Required.
	Executor agent.Executor

	// Agents validates task recipients at workflow creation when set.
	Agents *registry.Store

	// EventBuffer sizes the event channel. Defaults to 128.
	EventBuffer int
}

// Orchestrator owns the shared task queue, the completed set, and the
// workflow registry. All exported methods are safe for concurrent use.
type Orchestrator struct {
	executor agent.Executor
	agents   *registry.Store
	queue    *queue.TaskQueue
	events   chan Event

	mu             sync.RWMutex
	completed      map[string]bool
	completedOrder []string
	workflows      map[string]*models.Workflow
	workflowOrder  []string
	taskOwner      map[string]string
}

// New creates an orchestrator with an empty queue and no workflows.
func New(cfg Config) *Orchestrator {
	buf := cfg.EventBuffer
	if buf <= 0 {
		buf = 128
	}
	return &Orchestrator{
		executor:  cfg.Executor,
		agents:    cfg.Agents,
		queue:     queue.New(),
		events:    make(chan Event, buf),
		completed: make(map[string]bool),
		workflows: make(map[string]*models.Workflow),
		taskOwner: make(map[string]string),
	}
}

// TaskOptions carries the optional fields of a task. A nil options pointer
// means all defaults.
type TaskOptions struct {
	Recipient string
	Priority  int
	Metadata  map[string]string
	DependsOn []string
}

// CreateTask builds a task with a fresh unique id. It never fails; kinds
// outside the declared set are resolved at execution time by the executor
// registry, and dependency references are checked when the task joins a
// workflow.
func (o *Orchestrator) CreateTask(kind models.Kind, content, sender string, opts *TaskOptions) *models.Task {
	t := &models.Task{
		ID:      uuid.New().String(),
		Kind:    kind,
		Content: content,
		Sender:  sender,
	}
	if opts != nil {
		t.Recipient = opts.Recipient
		t.Priority = opts.Priority
		t.Metadata = opts.Metadata
		t.DependsOn = opts.DependsOn
	}
	return t
}

// Submit places a task on the shared queue. Tasks whose id is already in
// the completed set are skipped: the queue never holds a completed task.
func (o *Orchestrator) Submit(task *models.Task) {
	o.mu.RLock()
	done := o.completed[task.ID]
	o.mu.RUnlock()
	if done {
		log.Printf("[orchestrator] skipping already-completed task %s", task.ID)
		return
	}
	o.queue.Push(task)
	o.emitEvent(Event{Type: EventTaskQueued, TaskID: task.ID})
}

// MarkCompleted records a task as done. Calling it twice for the same id
// is a no-op; the completed set only grows.
func (o *Orchestrator) MarkCompleted(task *models.Task) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.completed[task.ID] {
		return
	}
	o.completed[task.ID] = true
	o.completedOrder = append(o.completedOrder, task.ID)
}

// IsCompleted reports whether the task id is in the completed set.
func (o *Orchestrator) IsCompleted(id string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.completed[id]
}

// QueueLen returns the number of tasks waiting on the shared queue.
func (o *Orchestrator) QueueLen() int {
	return o.queue.Len()
}

// CompletedCount returns the size of the completed set.
func (o *Orchestrator) CompletedCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.completedOrder)
}

// Events returns the channel carrying lifecycle notifications.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// CreateWorkflow registers a named group of tasks and queues them all.
// The id must be unused, every dependency must reference a task in this
// workflow or one the orchestrator already knows, every task id must be
// unclaimed by other workflows, and every non-empty recipient must be a
// registered agent when an agent store is configured. On any validation
// failure nothing is registered and nothing is queued.
func (o *Orchestrator) CreateWorkflow(id string, tasks []*models.Task) error {
	o.mu.Lock()
	if _, exists := o.workflows[id]; exists {
		o.mu.Unlock()
		return fmt.Errorf("workflow %q: %w", id, ErrWorkflowExists)
	}

	local := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		local[t.ID] = true
	}
	for _, t := range tasks {
		if owner, claimed := o.taskOwner[t.ID]; claimed {
			o.mu.Unlock()
			return fmt.Errorf("task %q already in workflow %q: %w", t.ID, owner, ErrDuplicateTask)
		}
		for _, dep := range t.DependsOn {
			if local[dep] || o.completed[dep] || o.queue.Contains(dep) {
				continue
			}
			o.mu.Unlock()
			return fmt.Errorf("task %q depends on %q: %w", t.ID, dep, ErrUnknownReference)
		}
		if t.Recipient != "" && o.agents != nil && !o.agents.Has(t.Recipient) {
			o.mu.Unlock()
			return fmt.Errorf("task %q recipient %q: %w", t.ID, t.Recipient, ErrUnknownReference)
		}
	}

	wf := &models.Workflow{ID: id, Tasks: tasks}
	o.workflows[id] = wf
	o.workflowOrder = append(o.workflowOrder, id)
	for _, t := range tasks {
		o.taskOwner[t.ID] = id
	}
	o.mu.Unlock()

	for _, t := range tasks {
		o.Submit(t)
	}
	o.emitEvent(Event{Type: EventWorkflowCreated, WorkflowID: id})
	return nil
}

// Workflow returns the registered workflow for id, or nil.
func (o *Orchestrator) Workflow(id string) *models.Workflow {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.workflows[id]
}

// WorkflowStatus computes a progress snapshot for the workflow. Counts
// come from live membership checks against the completed set and the
// queue, so repeated calls reflect execution as it advances. An unknown id yields a not_found state
// with zero counts rather than an error.
func (o *Orchestrator) WorkflowStatus(id string) models.WorkflowStatus {
	o.mu.RLock()
	wf, ok := o.workflows[id]
	if !ok {
		o.mu.RUnlock()
		return models.WorkflowStatus{State: models.WorkflowNotFound}
	}
	total := len(wf.Tasks)
	done, pending := 0, 0
	for _, t := range wf.Tasks {
		if o.completed[t.ID] {
			done++
		} else if o.queue.Contains(t.ID) {
			pending++
		}
	}
	o.mu.RUnlock()

	st := models.WorkflowStatus{
		State:     models.WorkflowActive,
		Total:     total,
		Completed: done,
		Pending:   pending,
	}
	if total > 0 {
		st.Progress = float64(done) / float64(total)
	}
	if done == total && total > 0 {
		st.State = models.WorkflowCompleted
	}
	return st
}

// ExecuteWorkflow drains the entire shared queue, not just the named
// workflow's tasks. Anything queued by other workflows or submitted
// directly is executed in the same pass; the id selects which workflow
// the returned result reports on. The queue is empty when it returns.
//
// A task whose executor fails is still marked completed so the drain can
// make progress; the failure is recorded in its task result. Cancellation
// is observed between tasks, never mid task.
func (o *Orchestrator) ExecuteWorkflow(ctx context.Context, id string) models.WorkflowResult {
	o.mu.RLock()
	_, ok := o.workflows[id]
	o.mu.RUnlock()
	if !ok {
		return models.WorkflowResult{WorkflowID: id, State: models.WorkflowNotFound}
	}

	var results []models.TaskResult
	for {
		select {
		case <-ctx.Done():
			log.Printf("[orchestrator] workflow %s canceled: %v", id, ctx.Err())
			return models.WorkflowResult{WorkflowID: id, State: models.WorkflowCanceled, Results: results}
		default:
		}

		task, ok := o.queue.Pop()
		if !ok {
			break
		}
		o.emitEvent(Event{Type: EventTaskStarted, TaskID: task.ID, WorkflowID: id})

		res, err := o.executor.Execute(ctx, task)
		tr := models.TaskResult{TaskID: task.ID}
		if err != nil {
			tr.State = models.TaskResultFailed
			tr.Error = err.Error()
			log.Printf("[orchestrator] task %s failed: %v", task.ID, err)
			o.emitEvent(Event{Type: EventTaskFailed, TaskID: task.ID, WorkflowID: id, Message: err.Error()})
		} else {
			tr.State = models.TaskResultCompleted
			tr.Output = res.Output
			o.emitEvent(Event{Type: EventTaskCompleted, TaskID: task.ID, WorkflowID: id})
		}
		results = append(results, tr)
		o.MarkCompleted(task)
	}

	o.emitEvent(Event{Type: EventWorkflowDone, WorkflowID: id})
	return models.WorkflowResult{WorkflowID: id, State: models.WorkflowCompleted, Results: results}
}

// ExecuteNext pops and runs a single task from the shared queue. The
// false return means the queue was empty. Like ExecuteWorkflow, a failed
// task is marked completed with the failure recorded in its result.
func (o *Orchestrator) ExecuteNext(ctx context.Context) (models.TaskResult, bool) {
	task, ok := o.queue.Pop()
	if !ok {
		return models.TaskResult{}, false
	}
	o.emitEvent(Event{Type: EventTaskStarted, TaskID: task.ID})

	res, err := o.executor.Execute(ctx, task)
	tr := models.TaskResult{TaskID: task.ID}
	if err != nil {
		tr.State = models.TaskResultFailed
		tr.Error = err.Error()
		log.Printf("[orchestrator] task %s failed: %v", task.ID, err)
		o.emitEvent(Event{Type: EventTaskFailed, TaskID: task.ID, Message: err.Error()})
	} else {
		tr.State = models.TaskResultCompleted
		tr.Output = res.Output
		o.emitEvent(Event{Type: EventTaskCompleted, TaskID: task.ID})
	}
	o.MarkCompleted(task)
	return tr, true
}
