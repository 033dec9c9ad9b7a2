package cli

import (
	"fmt"

	"github.com/planpatch/planpatch/internal/storage"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyLogs  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs",
	Long: `List past apply runs recorded under .planpatch.

Example:
  planpatch history
  planpatch history --limit 5
  planpatch history --logs <run-id>`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Max runs to list")
	historyCmd.Flags().StringVar(&historyLogs, "logs", "", "Show the execution log for one run id")
}

func runHistory(cmd *cobra.Command, args []string) {
	store, err := storage.Open(".planpatch")
	if err != nil {
		fmt.Printf("Error opening run history: %v\n", err)
		return
	}
	defer store.Close()

	if historyLogs != "" {
		lines, err := store.RunLogs(historyLogs)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(lines) == 0 {
			fmt.Printf("No log entries for run %s\n", historyLogs)
			return
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return
	}

	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	for _, r := range runs {
		request := r.Request
		if len(request) > 60 {
			request = request[:57] + "..."
		}
		fmt.Printf("%s  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("    %s\n", request)
		fmt.Printf("    steps: %d, changed: %d, failed: %d, digest: %d files / %d tokens\n",
			r.Steps, r.ModifiedFiles, r.FailedSteps, r.Digest.IncludedFiles, r.Digest.TotalTokens)
	}
	fmt.Printf("\nTotal: %d run(s)\n", len(runs))
}
