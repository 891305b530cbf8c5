// Package agent provides the task execution collaborators consumed by
// the orchestrator. The orchestration core never interprets task
// content; it hands tasks to an Executor and records the outcome.
package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/castorlabs/crew/internal/cost"
	"github.com/castorlabs/crew/pkg/models"
)

// ErrNoExecutor indicates no executor is registered for a task kind.
var ErrNoExecutor = errors.New("no executor for task kind")

// Result is the opaque outcome of executing one task.
type Result struct {
	// TaskID is the id of the executed task.
	TaskID string
	// Output is the executor's result payload.
	Output string
	// Cost is the spend attributed to this execution, in dollars.
	Cost float64
}

// Executor runs a single task and returns its result. Implementations
// may block on I/O; they receive a context for cancellation.
type Executor interface {
	Execute(ctx context.Context, task *models.Task) (*Result, error)
}

// ExecuteFunc adapts a function to the Executor interface.
type ExecuteFunc func(ctx context.Context, task *models.Task) (*Result, error)

// Execute implements Executor.
func (f ExecuteFunc) Execute(ctx context.Context, task *models.Task) (*Result, error) {
	return f(ctx, task)
}

// Registry dispatches tasks to executors by task kind. The kind set is
// closed at wiring time: callers register one executor per kind, plus
// an optional default for kinds with no dedicated executor.
type Registry struct {
	mu       sync.RWMutex
	byKind   map[models.Kind]Executor
	fallback Executor
}

// NewRegistry creates an empty executor registry.
func NewRegistry() *Registry {
	return &Registry{
		byKind: make(map[models.Kind]Executor),
	}
}

// RegisterKind binds an executor to a task kind, replacing any
// previous binding for that kind.
func (r *Registry) RegisterKind(kind models.Kind, exec Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKind[kind] = exec
}

// SetDefault sets the executor used for kinds with no dedicated binding.
func (r *Registry) SetDefault(exec Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = exec
}

// Execute dispatches the task to the executor bound to its kind.
func (r *Registry) Execute(ctx context.Context, task *models.Task) (*Result, error) {
	r.mu.RLock()
	exec, ok := r.byKind[task.Kind]
	if !ok {
		exec = r.fallback
	}
	r.mu.RUnlock()

	if exec == nil {
		return nil, fmt.Errorf("task %s kind %q: %w", task.ID, task.Kind, ErrNoExecutor)
	}
	return exec.Execute(ctx, task)
}

// EchoExecutor is an offline executor for demos and tests. It returns
// a canned acknowledgement and charges a flat per-task cost to the
// ledger, if one is configured.
type EchoExecutor struct {
	// Ledger receives the per-task cost. Optional.
	Ledger *cost.Ledger
	// CostPerTask is the flat spend recorded per execution.
	CostPerTask float64
}

// Execute implements Executor.
func (e *EchoExecutor) Execute(ctx context.Context, task *models.Task) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if e.Ledger != nil {
		e.Ledger.AddCost(e.CostPerTask)
	}

	return &Result{
		TaskID: task.ID,
		Output: fmt.Sprintf("[%s] executed: %s", task.Kind, task.Content),
		Cost:   e.CostPerTask,
	}, nil
}
