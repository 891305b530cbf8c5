package orchestrator

import (
	"testing"

	"github.com/castorlabs/crew/pkg/models"
)

func TestSnapshotRoundTrip(t *testing.T) {
	o := newTestOrchestrator()
	done := o.CreateTask(models.KindSales, "earlier", "user", nil)
	o.MarkCompleted(done)

	low := o.CreateTask(models.KindSales, "low", "user", &TaskOptions{Priority: 1})
	high := o.CreateTask(models.KindSales, "high", "user", &TaskOptions{Priority: 9})
	if err := o.CreateWorkflow("wf1", []*models.Task{low, high}); err != nil {
		t.Fatal(err)
	}

	snap := o.Snapshot()
	if len(snap.Queued) != 2 || snap.Queued[0].ID != high.ID {
		t.Fatalf("snapshot must list queued tasks in pop order: %+v", snap.Queued)
	}
	if len(snap.Completed) != 1 || snap.Completed[0] != done.ID {
		t.Fatalf("unexpected completed list: %v", snap.Completed)
	}

	restored := newTestOrchestrator()
	restored.RestoreSnapshot(snap)

	if !restored.IsCompleted(done.ID) {
		t.Fatal("completed set not restored")
	}
	st := restored.WorkflowStatus("wf1")
	if st.Total != 2 || st.Pending != 2 {
		t.Fatalf("workflow registry not restored: %+v", st)
	}
	first, ok := restored.queue.Pop()
	if !ok || first.ID != high.ID {
		t.Fatalf("queue order not restored, got %+v", first)
	}
}

func TestRestoreSnapshotDiscardsExistingState(t *testing.T) {
	o := newTestOrchestrator()
	stale := o.CreateTask(models.KindSales, "stale", "user", nil)
	o.Submit(stale)
	if err := o.CreateWorkflow("old", nil); err != nil {
		t.Fatal(err)
	}

	o.RestoreSnapshot(&Snapshot{})
	if o.QueueLen() != 0 {
		t.Fatalf("expected empty queue after restore, got %d", o.QueueLen())
	}
	if o.Workflow("old") != nil {
		t.Fatal("expected workflow registry cleared")
	}
	if o.CompletedCount() != 0 {
		t.Fatalf("expected empty completed set, got %d", o.CompletedCount())
	}
}
