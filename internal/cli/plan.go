package cli

import (
	"context"
	"fmt"

	"github.com/planpatch/planpatch/internal/config"
	"github.com/planpatch/planpatch/internal/llm"
	"github.com/planpatch/planpatch/internal/logging"
	"github.com/planpatch/planpatch/internal/patterns"
	"github.com/planpatch/planpatch/internal/plan"
	"github.com/spf13/cobra"
)

var planPath string

var planCmd = &cobra.Command{
	Use:   "plan <request>",
	Short: "Generate and preview a change plan",
	Long: `Generate a step-by-step change plan for a natural-language request.

The plan is previewed only; nothing is written. Use 'planpatch apply' to
execute a plan.

Example:
  planpatch plan "add a /api/health endpoint"`,
	Args: cobra.ExactArgs(1),
	Run:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planPath, "path", "p", ".", "Repository path")
}

func runPlan(cmd *cobra.Command, args []string) {
	request := args[0]
	log := logging.Get()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	client, err := newCompletionClient(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Compiling context...")
	digest, files, err := compileDigest(cfg, planPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		log.LogError(err)
		return
	}

	fmt.Println("Generating plan...")
	prompt := llm.PlanPrompt(digest.Text, request, stackKnowledgeFor(files))
	planText, err := client.Complete(context.Background(), prompt)
	if err != nil {
		fmt.Printf("Error generating plan: %v\n", err)
		log.LogError(err)
		return
	}
	log.LogPhase("plan", request)

	conventions := patterns.Analyze(digest.Text)
	steps := plan.Parse(planText, conventions)

	fmt.Println()
	fmt.Println(plan.FormatPlan(steps))
	fmt.Printf("\nParsed %d step(s).\n", len(steps))
}
