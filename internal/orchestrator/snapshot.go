package orchestrator

import "github.com/castorlabs/crew/pkg/models"

// Snapshot captures the orchestrator's scheduling state for persistence.
// Queued tasks are recorded in pop order, so restoring them by pushing in
// sequence reproduces the original ordering.
type Snapshot struct {
	Queued    []*models.Task     `json:"queued"`
	Completed []string           `json:"completed"`
	Workflows []*models.Workflow `json:"workflows"`
}

// Snapshot returns a copy of the current scheduling state. The queue is
// not drained; workflows appear in creation order.
func (o *Orchestrator) Snapshot() *Snapshot {
	queued := o.queue.Tasks()

	o.mu.RLock()
	defer o.mu.RUnlock()

	s := &Snapshot{
		Queued:    queued,
		Completed: append([]string(nil), o.completedOrder...),
	}
	for _, id := range o.workflowOrder {
		s.Workflows = append(s.Workflows, o.workflows[id])
	}
	return s
}

// RestoreSnapshot replaces the orchestrator's scheduling state with the
// snapshot's contents. Existing queue entries, completions, and workflow
// registrations are discarded.
func (o *Orchestrator) RestoreSnapshot(s *Snapshot) {
	o.mu.Lock()
	o.completed = make(map[string]bool, len(s.Completed))
	o.completedOrder = append([]string(nil), s.Completed...)
	for _, id := range s.Completed {
		o.completed[id] = true
	}
	o.workflows = make(map[string]*models.Workflow, len(s.Workflows))
	o.workflowOrder = o.workflowOrder[:0]
	o.taskOwner = make(map[string]string)
	for _, wf := range s.Workflows {
		o.workflows[wf.ID] = wf
		o.workflowOrder = append(o.workflowOrder, wf.ID)
		for _, t := range wf.Tasks {
			o.taskOwner[t.ID] = wf.ID
		}
	}
	o.mu.Unlock()

	o.queue.Reset()
	for _, t := range s.Queued {
		o.queue.Push(t)
	}
}
