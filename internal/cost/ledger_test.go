package cost

import (
	"sync"
	"testing"
)

func TestLedgerAccumulates(t *testing.T) {
	l := NewLedger(10.0)

	l.AddCost(1.5)
	l.AddCost(2.5)

	if got := l.TotalCost(); got != 4.0 {
		t.Errorf("expected total cost 4.0, got %f", got)
	}
	if got := l.Remaining(); got != 6.0 {
		t.Errorf("expected remaining 6.0, got %f", got)
	}
}

func TestLedgerExhausted(t *testing.T) {
	l := NewLedger(5.0)

	if l.Exhausted() {
		t.Error("fresh ledger should not be exhausted")
	}

	l.AddCost(4.99)
	if l.Exhausted() {
		t.Error("ledger under budget should not be exhausted")
	}

	l.AddCost(0.01)
	if !l.Exhausted() {
		t.Error("ledger at budget should be exhausted")
	}

	l.AddCost(100)
	if l.Remaining() != 0 {
		t.Errorf("expected remaining 0 when over budget, got %f", l.Remaining())
	}
}

func TestLedgerSetMaxBudget(t *testing.T) {
	l := NewLedger(1.0)
	l.AddCost(1.0)

	if !l.Exhausted() {
		t.Fatal("expected exhaustion at ceiling")
	}

	l.SetMaxBudget(10.0)
	if l.Exhausted() {
		t.Error("raising the ceiling should clear exhaustion")
	}
}

func TestLedgerSnapshotRestore(t *testing.T) {
	l := NewLedger(20.0)
	l.AddCost(7.25)

	total, budget := l.Snapshot()

	restored := NewLedger(0)
	restored.Restore(total, budget)

	if restored.TotalCost() != 7.25 {
		t.Errorf("expected restored total 7.25, got %f", restored.TotalCost())
	}
	if restored.MaxBudget() != 20.0 {
		t.Errorf("expected restored budget 20.0, got %f", restored.MaxBudget())
	}
}

func TestLedgerConcurrentAddCost(t *testing.T) {
	l := NewLedger(1000.0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.AddCost(0.5)
		}()
	}
	wg.Wait()

	if got := l.TotalCost(); got != 50.0 {
		t.Errorf("expected total 50.0 after concurrent adds, got %f", got)
	}
}
