// Package cost tracks cumulative spend against a monetary ceiling.
package cost

import "sync"

// Ledger is the shared cost accountant. A single Ledger may be shared
// by many orchestrators in a team, so every budget decision is made
// under one lock together with the reads it depends on.
type Ledger struct {
	mu        sync.RWMutex
	totalCost float64
	maxBudget float64
}

// NewLedger creates a Ledger with the given budget ceiling.
func NewLedger(maxBudget float64) *Ledger {
	return &Ledger{maxBudget: maxBudget}
}

// AddCost records spend. Amounts accumulate; there is no refund path.
func (l *Ledger) AddCost(amount float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totalCost += amount
}

// TotalCost returns the cumulative spend so far.
func (l *Ledger) TotalCost() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalCost
}

// MaxBudget returns the current ceiling.
func (l *Ledger) MaxBudget() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.maxBudget
}

// SetMaxBudget updates the ceiling.
func (l *Ledger) SetMaxBudget(budget float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxBudget = budget
}

// Exhausted reports whether spend has reached the ceiling. The read of
// both values happens under one lock so the decision cannot race a
// concurrent AddCost that crosses the ceiling.
func (l *Ledger) Exhausted() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalCost >= l.maxBudget
}

// Remaining returns the spend left before the ceiling, never negative.
func (l *Ledger) Remaining() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.totalCost >= l.maxBudget {
		return 0
	}
	return l.maxBudget - l.totalCost
}

// Snapshot returns the current (total, budget) pair read atomically,
// for persistence and reporting.
func (l *Ledger) Snapshot() (totalCost, maxBudget float64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalCost, l.maxBudget
}

// Restore overwrites the ledger from a persisted snapshot.
func (l *Ledger) Restore(totalCost, maxBudget float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totalCost = totalCost
	l.maxBudget = maxBudget
}
