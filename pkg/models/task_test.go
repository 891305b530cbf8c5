package models

import "testing"

func TestKindValid(t *testing.T) {
	valid := []Kind{KindPlanning, KindMarketing, KindSales, KindSupport}
	for _, k := range valid {
		if !k.Valid() {
			t.Errorf("expected kind %q to be valid", k)
		}
	}

	invalid := []Kind{"", "finance", "PLANNING"}
	for _, k := range invalid {
		if k.Valid() {
			t.Errorf("expected kind %q to be invalid", k)
		}
	}
}

func TestWorkflowTaskIDs(t *testing.T) {
	wf := &Workflow{
		ID: "wf-1",
		Tasks: []*Task{
			{ID: "a"},
			{ID: "b"},
			{ID: "c"},
		},
	}

	ids := wf.TaskIDs()
	want := []string{"a", "b", "c"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("expected ids[%d] = %q, got %q", i, id, ids[i])
		}
	}
}

func TestWorkflowTaskIDsEmpty(t *testing.T) {
	wf := &Workflow{ID: "empty"}
	if ids := wf.TaskIDs(); len(ids) != 0 {
		t.Errorf("expected no ids for empty workflow, got %v", ids)
	}
}
