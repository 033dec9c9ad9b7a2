package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "planpatch",
	Short: "Plan-driven code changes for any repository",
	Long: `PlanPatch - Plan-Driven Code Changes

PlanPatch compiles a token-budgeted digest of a codebase, asks a language
model for a step-by-step change plan, and applies each step through a
generation and self-review loop. Accepted changes can be pushed as a
branch and opened as a pull request.

Quick Start:
  planpatch compile              Compile the context digest for this repo
  planpatch plan "add auth"      Generate and preview a change plan
  planpatch apply "add auth"     Apply a plan to the working tree
  planpatch history              List past runs`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(historyCmd)
	// versionCmd is registered in version.go
}
