package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crew",
	Short: "Multi-agent task orchestration",
	Long: `Crew schedules tasks for a team of agents through a shared priority
queue, groups them into workflows, and runs the team round by round
under an invested budget.

Workflows are declared in YAML files and executed with 'crew run'.
Runs stop when the queue drains, the round limit is hit, or the
budget is spent.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
