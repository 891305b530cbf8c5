package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/castorlabs/crew/internal/config"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored state and recent runs",
	RunE:  showStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "Maximum number of runs to show")
}

func showStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openStateDB(cfg)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer db.Close()

	snap, err := db.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	fmt.Printf("state: %s\n", db.Path())
	fmt.Printf("  queued %d, completed %d, workflows %d\n\n",
		len(snap.Queued), len(snap.Completed), len(snap.Workflows))

	runs, err := db.ListRuns(statusLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, r := range runs {
		symbol := color.GreenString("✓")
		if r.Outcome == "bankrupt" || r.Outcome == "canceled" {
			symbol = color.RedString("✗")
		}
		fmt.Printf("%s %s  %-16s rounds %-3d cost %.2f/%.2f\n",
			symbol, r.CreatedAt.Format("2006-01-02 15:04"), r.Outcome, r.RoundsRun, r.TotalCost, r.Investment)
	}
	return nil
}
