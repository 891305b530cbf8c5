package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/castorlabs/crew/internal/orchestrator"
	"github.com/castorlabs/crew/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)

	queuedTask := &models.Task{
		ID:       "t-queued",
		Kind:     models.KindSales,
		Content:  "call the lead",
		Sender:   "user",
		Priority: 5,
		Metadata: map[string]string{"region": "emea"},
	}
	wfTask := &models.Task{
		ID:        "t-wf",
		Kind:      models.KindMarketing,
		Content:   "draft campaign",
		Sender:    "user",
		Recipient: "marketer",
		DependsOn: []string{"t-done"},
	}

	snap := &orchestrator.Snapshot{
		Queued:    []*models.Task{queuedTask, wfTask},
		Completed: []string{"t-done", "t-done-2"},
		Workflows: []*models.Workflow{
			{ID: "wf1", Tasks: []*models.Task{wfTask}},
		},
	}

	if err := db.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if len(got.Queued) != 2 {
		t.Fatalf("expected 2 queued tasks, got %d", len(got.Queued))
	}
	if got.Queued[0].ID != "t-queued" || got.Queued[1].ID != "t-wf" {
		t.Fatalf("queued order not preserved: %s, %s", got.Queued[0].ID, got.Queued[1].ID)
	}
	first := got.Queued[0]
	if first.Kind != models.KindSales || first.Priority != 5 || first.Metadata["region"] != "emea" {
		t.Fatalf("task fields lost: %+v", first)
	}

	if len(got.Completed) != 2 || got.Completed[0] != "t-done" {
		t.Fatalf("completed order not preserved: %v", got.Completed)
	}

	if len(got.Workflows) != 1 || got.Workflows[0].ID != "wf1" {
		t.Fatalf("workflows not restored: %+v", got.Workflows)
	}
	restored := got.Workflows[0].Tasks[0]
	if restored.Recipient != "marketer" || len(restored.DependsOn) != 1 || restored.DependsOn[0] != "t-done" {
		t.Fatalf("workflow task fields lost: %+v", restored)
	}
}

func TestSaveSnapshotReplacesPrevious(t *testing.T) {
	db := openTestDB(t)

	first := &orchestrator.Snapshot{
		Queued: []*models.Task{{ID: "old", Kind: models.KindSales, Content: "x"}},
	}
	if err := db.SaveSnapshot(first); err != nil {
		t.Fatal(err)
	}
	second := &orchestrator.Snapshot{Completed: []string{"only"}}
	if err := db.SaveSnapshot(second); err != nil {
		t.Fatal(err)
	}

	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Queued) != 0 {
		t.Fatalf("stale queued tasks survived: %+v", got.Queued)
	}
	if len(got.Completed) != 1 || got.Completed[0] != "only" {
		t.Fatalf("unexpected completed list: %v", got.Completed)
	}
}

func TestLoadSnapshotEmptyDatabase(t *testing.T) {
	db := openTestDB(t)
	got, err := db.LoadSnapshot()
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got.Queued) != 0 || len(got.Completed) != 0 || len(got.Workflows) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", got)
	}
}

func TestSaveAndListRuns(t *testing.T) {
	db := openTestDB(t)

	older := RunRecord{
		ID:         "run-1",
		Outcome:    "idle",
		RoundsRun:  3,
		Investment: 10,
		TotalCost:  2.5,
		History:    []string{"round 1", "round 2", "round 3"},
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	newer := RunRecord{
		ID:        "run-2",
		Outcome:   "bankrupt",
		CreatedAt: time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
	}
	if err := db.SaveRun(older); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveRun(newer); err != nil {
		t.Fatal(err)
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Fatalf("expected most recent first, got %s", runs[0].ID)
	}
	if runs[1].RoundsRun != 3 || len(runs[1].History) != 3 {
		t.Fatalf("run fields lost: %+v", runs[1])
	}

	limited, err := db.ListRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].ID != "run-2" {
		t.Fatalf("limit not applied: %+v", limited)
	}
}
