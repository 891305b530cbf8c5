// Package queue provides the priority-ordered task queue used by the
// orchestrator.
package queue

import (
	"container/heap"
	"sync"

	"github.com/castorlabs/crew/pkg/models"
)

// item pairs a task with its insertion sequence number. The sequence
// gives stable FIFO ordering among tasks of equal priority.
type item struct {
	task *models.Task
	seq  uint64
}

// taskHeap implements heap.Interface ordered by descending priority,
// ties broken by ascending insertion sequence.
type taskHeap []*item

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].task.Priority != h[j].task.Priority {
		return h[i].task.Priority > h[j].task.Priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(*item)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// TaskQueue is an ordered multiset of pending tasks. Pop order is
// strictly descending priority, then insertion order among equal
// priorities. Safe for concurrent use.
type TaskQueue struct {
	mu    sync.Mutex
	items taskHeap
	seq   uint64
}

// New creates an empty TaskQueue.
func New() *TaskQueue {
	return &TaskQueue{}
}

// Push inserts a task into the queue. It never fails and performs no
// duplicate detection; submitting the same task twice duplicates it.
func (q *TaskQueue) Push(task *models.Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	heap.Push(&q.items, &item{task: task, seq: q.seq})
	q.seq++
}

// Pop removes and returns the highest-priority task, earliest inserted
// among ties. The false return is the normal empty sentinel meaning
// "no work available", not a failure.
func (q *TaskQueue) Pop() (*models.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	it := heap.Pop(&q.items).(*item)
	return it.task, true
}

// Reset discards all queued tasks and restarts the insertion sequence.
func (q *TaskQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
	q.seq = 0
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Contains reports whether a task with the given id is queued.
func (q *TaskQueue) Contains(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, it := range q.items {
		if it.task.ID == id {
			return true
		}
	}
	return false
}

// Tasks returns a snapshot of the queued tasks in pop order. The
// queue itself is not modified. Used for status reporting and
// lossless persistence of queue contents.
func (q *TaskQueue) Tasks() []*models.Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	clone := make(taskHeap, len(q.items))
	copy(clone, q.items)
	heap.Init(&clone)

	out := make([]*models.Task, 0, len(clone))
	for clone.Len() > 0 {
		it := heap.Pop(&clone).(*item)
		out = append(out, it.task)
	}
	return out
}
