package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/castorlabs/crew/internal/agent"
	"github.com/castorlabs/crew/internal/config"
	"github.com/castorlabs/crew/internal/cost"
	"github.com/castorlabs/crew/internal/orchestrator"
	"github.com/castorlabs/crew/internal/registry"
	"github.com/castorlabs/crew/internal/state"
	"github.com/castorlabs/crew/internal/team"
	"github.com/castorlabs/crew/internal/workflowfile"
	"github.com/castorlabs/crew/pkg/models"
)

var (
	runInvestment float64
	runRounds     int
	runExecutor   string
	runNoSave     bool
)

var runCmd = &cobra.Command{
	Use:   "run <workflow.yaml>",
	Short: "Run a workflow with a budgeted team",
	Long: `Run a workflow declared in a YAML file.

Tasks are queued by priority, then the team executes them round by
round until the queue drains, the round limit is reached, or the
invested budget runs out. Budget exhaustion stops the run with an
error before the next task starts.

Executors (--executor):
  - echo:   offline executor, flat cost per task (default)
  - claude: Anthropic API executor, cost from real token usage`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflow,
}

func init() {
	runCmd.Flags().Float64Var(&runInvestment, "investment", 0, "Budget for this run (0 uses the configured default)")
	runCmd.Flags().IntVar(&runRounds, "rounds", 0, "Round limit for this run (0 uses the configured default)")
	runCmd.Flags().StringVar(&runExecutor, "executor", "", "Task executor: echo or claude")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "Skip persisting the run record and final state")
}

// defaultProfiles are the built-in agents available as task recipients.
var defaultProfiles = []registry.Profile{
	{Name: "planner", Role: "Planner", Goal: "Break work into ordered, actionable tasks"},
	{Name: "marketer", Role: "Marketing", Goal: "Produce campaign copy and channel plans"},
	{Name: "seller", Role: "Sales", Goal: "Drive outreach and close deals"},
	{Name: "support", Role: "Support", Goal: "Resolve customer issues clearly and quickly"},
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if runInvestment <= 0 {
		runInvestment = cfg.Defaults.Investment
	}
	if runRounds <= 0 {
		runRounds = cfg.Defaults.Rounds
	}
	if runExecutor == "" {
		runExecutor = cfg.Defaults.Executor
	}

	def, err := workflowfile.Load(args[0])
	if err != nil {
		return err
	}

	agents := registry.NewStore()
	for _, p := range defaultProfiles {
		if err := agents.Register(p); err != nil {
			return fmt.Errorf("register agent %s: %w", p.Name, err)
		}
	}

	ledger := cost.NewLedger(0)
	executor, err := buildExecutor(runExecutor, cfg, ledger, agents)
	if err != nil {
		return err
	}

	orch := orchestrator.New(orchestrator.Config{
		Executor: executor,
		Agents:   agents,
	})

	tasks := def.Materialize(func() string { return uuid.New().String() }, "cli")
	if err := orch.CreateWorkflow(def.Workflow, tasks); err != nil {
		return fmt.Errorf("create workflow: %w", err)
	}
	fmt.Printf("%s workflow %s with %d tasks\n",
		color.GreenString("✓"), color.New(color.Bold).Sprint(def.Workflow), len(tasks))

	tm := team.New(team.Config{
		Environment: &team.QueueEnvironment{Scheduler: orch},
		Ledger:      ledger,
		Archiver:    &team.FileArchiver{Dir: ".crew/history"},
	})
	tm.Invest(runInvestment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report, runErr := tm.Run(ctx, runRounds)
	printReport(orch, def.Workflow, ledger, report, runErr)

	if !runNoSave {
		if err := saveRun(cfg, orch, report, runInvestment, ledger.TotalCost()); err != nil {
			fmt.Fprintf(os.Stderr, "%s could not persist run: %v\n", color.YellowString("⚠"), err)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// buildExecutor wires the executor registry. The echo executor backs
// every declared kind; with --executor=claude the reasoning-heavy kinds
// go to the API while the rest stay on the cheap offline path.
func buildExecutor(name string, cfg *config.Config, ledger *cost.Ledger, agents *registry.Store) (agent.Executor, error) {
	echo := &agent.EchoExecutor{Ledger: ledger, CostPerTask: cfg.Defaults.CostPerTask}

	reg := agent.NewRegistry()
	reg.SetDefault(echo)

	switch name {
	case "echo":
	case "claude":
		claude, err := agent.NewClaudeExecutor(agent.ClaudeConfig{
			APIKey:    cfg.Anthropic.APIKey,
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
			Ledger:    ledger,
			Agents:    agents,
		})
		if err != nil {
			return nil, err
		}
		for _, kind := range []models.Kind{models.KindPlanning, models.KindMarketing, models.KindSales, models.KindSupport} {
			reg.RegisterKind(kind, claude)
		}
	default:
		return nil, fmt.Errorf("unknown executor %q (want echo or claude)", name)
	}
	return reg, nil
}

func printReport(orch *orchestrator.Orchestrator, workflowID string, ledger *cost.Ledger, report *team.RunReport, runErr error) {
	fmt.Println()
	for i, entry := range report.History {
		fmt.Printf("  %2d. %s\n", i+1, entry)
	}
	fmt.Println()

	st := orch.WorkflowStatus(workflowID)
	switch {
	case errors.Is(runErr, team.ErrNoFunds):
		fmt.Printf("%s budget exhausted after %d rounds\n", color.RedString("✗"), report.RoundsRun)
	case runErr != nil:
		fmt.Printf("%s run stopped: %v\n", color.RedString("✗"), runErr)
	case st.State == models.WorkflowCompleted:
		fmt.Printf("%s workflow complete in %d rounds\n", color.GreenString("✓"), report.RoundsRun)
	default:
		fmt.Printf("%s run ended (%s) with %d of %d tasks done\n",
			color.YellowString("⚠"), report.Outcome, st.Completed, st.Total)
	}
	fmt.Printf("  cost %.2f of %.2f invested\n", ledger.TotalCost(), ledger.MaxBudget())
}

func saveRun(cfg *config.Config, orch *orchestrator.Orchestrator, report *team.RunReport, investment, totalCost float64) error {
	db, err := openStateDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveSnapshot(orch.Snapshot()); err != nil {
		return err
	}
	return db.SaveRun(state.RunRecord{
		ID:         uuid.New().String(),
		Outcome:    string(report.Outcome),
		RoundsRun:  report.RoundsRun,
		Investment: investment,
		TotalCost:  totalCost,
		History:    report.History,
	})
}

func openStateDB(cfg *config.Config) (*state.DB, error) {
	var db *state.DB
	var err error
	if cfg.State.Path != "" {
		db, err = state.Open(cfg.State.Path)
	} else {
		db, err = state.OpenGlobal()
	}
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
