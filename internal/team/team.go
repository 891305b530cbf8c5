// Package team provides a budget-bounded round runner over an environment
// of collaborating agents. It owns the investment accounting and the run
// history; the actual work of a round is delegated.
package team

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/castorlabs/crew/internal/cost"
)

// ErrNoFunds is returned by Run when accumulated cost has reached the
// invested budget. It is fatal: the run stops immediately and no archive
// is written.
var ErrNoFunds = errors.New("insufficient funds")

// Environment is the collaborator a team drives round by round.
type Environment interface {
	// RunRound performs one round of work and returns a short summary
	// for the run history.
	RunRound(ctx context.Context) (string, error)

	// IsIdle reports whether the environment has no pending work.
	IsIdle() bool
}

// Archiver persists a finished run's history. Archival happens only on
// normal termination, never after a budget failure.
type Archiver interface {
	Archive(ctx context.Context, history []string) error
}

// Outcome describes how a run ended.
type Outcome string

const (
	// OutcomeIdle means the environment ran out of work before the
	// round limit.
	OutcomeIdle Outcome = "idle"

	// OutcomeRoundsExhausted means the round limit was reached with
	// work still pending.
	OutcomeRoundsExhausted Outcome = "rounds_exhausted"

	// OutcomeCanceled means the context was canceled at a round
	// boundary.
	OutcomeCanceled Outcome = "canceled"

	// OutcomeBankrupt means the budget was exhausted before a round
	// could start.
	OutcomeBankrupt Outcome = "bankrupt"
)

// Config holds a team's collaborators.
type Config struct {
	Environment Environment
	Ledger      *cost.Ledger
	Archiver    Archiver
}

// Team runs an environment for a bounded number of rounds under a budget.
type Team struct {
	env      Environment
	ledger   *cost.Ledger
	archiver Archiver

	mu         sync.Mutex
	investment float64
	history    []string
}

// New creates a team. Environment and Ledger are required; Archiver is
// optional.
func New(cfg Config) *Team {
	return &Team{
		env:      cfg.Environment,
		ledger:   cfg.Ledger,
		archiver: cfg.Archiver,
	}
}

// Invest sets the team's budget. The local investment figure and the
// ledger's max budget move together, so a concurrent ledger reader never
// sees one without the other.
func (t *Team) Invest(amount float64) {
	t.mu.Lock()
	t.investment = amount
	t.ledger.SetMaxBudget(amount)
	t.mu.Unlock()
	log.Printf("[team] investment set to %.2f", amount)
}

// Investment returns the budget set by Invest.
func (t *Team) Investment() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.investment
}

// History returns a copy of the round summaries accumulated so far.
func (t *Team) History() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.history...)
}

// RunReport summarizes a completed run.
type RunReport struct {
	Outcome   Outcome  `json:"outcome"`
	RoundsRun int      `json:"rounds_run"`
	History   []string `json:"history"`
}

// Run drives the environment for at most rounds rounds. Before each round
// it checks, in order: context cancellation, environment idleness, the
// round limit, and the budget. The budget check happens before any work
// starts, so a round whose cost would exceed the budget is never begun.
// A budget failure returns ErrNoFunds and skips archival; idle and
// round-limit terminations archive the history when an archiver is set.
func (t *Team) Run(ctx context.Context, rounds int) (*RunReport, error) {
	report := &RunReport{}
	outcome := OutcomeRoundsExhausted

	for rounds > 0 {
		select {
		case <-ctx.Done():
			report.Outcome = OutcomeCanceled
			report.History = t.History()
			return report, ctx.Err()
		default:
		}

		if t.env.IsIdle() {
			outcome = OutcomeIdle
			break
		}
		rounds--

		if t.ledger.Exhausted() {
			report.Outcome = OutcomeBankrupt
			report.History = t.History()
			return report, fmt.Errorf("cost %.2f reached budget %.2f: %w",
				t.ledger.TotalCost(), t.ledger.MaxBudget(), ErrNoFunds)
		}

		summary, err := t.env.RunRound(ctx)
		if err != nil {
			report.History = t.History()
			return report, fmt.Errorf("round %d: %w", report.RoundsRun+1, err)
		}
		t.mu.Lock()
		t.history = append(t.history, summary)
		t.mu.Unlock()
		report.RoundsRun++
		log.Printf("[team] round %d done, cost %.2f of %.2f",
			report.RoundsRun, t.ledger.TotalCost(), t.ledger.MaxBudget())
	}

	report.Outcome = outcome
	report.History = t.History()
	if t.archiver != nil {
		if err := t.archiver.Archive(ctx, report.History); err != nil {
			return report, fmt.Errorf("archive run: %w", err)
		}
	}
	return report, nil
}
