package team

import (
	"context"
	"fmt"

	"github.com/castorlabs/crew/pkg/models"
)

// Scheduler is the slice of the orchestrator a queue environment needs:
// stepwise execution plus a view of pending work.
type Scheduler interface {
	ExecuteNext(ctx context.Context) (models.TaskResult, bool)
	QueueLen() int
}

// QueueEnvironment adapts a scheduler to the Environment interface. One
// round executes one task from the shared queue.
type QueueEnvironment struct {
	Scheduler Scheduler
}

// RunRound executes the next queued task and summarizes it for the run
// history. An empty queue is not an error; Run's idle check normally
// prevents reaching it.
func (e *QueueEnvironment) RunRound(ctx context.Context) (string, error) {
	res, ok := e.Scheduler.ExecuteNext(ctx)
	if !ok {
		return "idle round: queue empty", nil
	}
	if res.State == models.TaskResultFailed {
		return fmt.Sprintf("task %s failed: %s", res.TaskID, res.Error), nil
	}
	return fmt.Sprintf("task %s completed", res.TaskID), nil
}

// IsIdle reports whether the queue has no pending tasks.
func (e *QueueEnvironment) IsIdle() bool {
	return e.Scheduler.QueueLen() == 0
}
