package cli

import (
	"context"
	"fmt"

	"github.com/planpatch/planpatch/internal/config"
	"github.com/planpatch/planpatch/internal/executor"
	"github.com/planpatch/planpatch/internal/genloop"
	"github.com/planpatch/planpatch/internal/hosting"
	"github.com/planpatch/planpatch/internal/llm"
	"github.com/planpatch/planpatch/internal/logging"
	"github.com/planpatch/planpatch/internal/patterns"
	"github.com/planpatch/planpatch/internal/plan"
	"github.com/planpatch/planpatch/internal/sandbox"
	"github.com/planpatch/planpatch/internal/storage"
	"github.com/planpatch/planpatch/pkg/types"
	"github.com/spf13/cobra"
)

var (
	applyPath    string
	applyDryRun  bool
	applyOpenPR  bool
	applyRepoURL string
	applyPRTitle string
)

var applyCmd = &cobra.Command{
	Use:   "apply <request>",
	Short: "Apply a change plan to the working tree",
	Long: `Generate a plan for the request and apply it step by step.

Each create/modify step goes through generation and self-review with
bounded retries; delete steps remove the target file. Step failures are
logged and do not stop later steps.

Example:
  planpatch apply "add a /api/health endpoint"
  planpatch apply "add dark mode" --dry-run
  planpatch apply "add dark mode" --pr --repo https://github.com/acme/widgets`,
	Args: cobra.ExactArgs(1),
	Run:  runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyPath, "path", "p", ".", "Repository path")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print the plan without applying it")
	applyCmd.Flags().BoolVar(&applyOpenPR, "pr", false, "Push changes to a branch and open a pull request")
	applyCmd.Flags().StringVar(&applyRepoURL, "repo", "", "Repository URL for --pr (https://github.com/<owner>/<repo>)")
	applyCmd.Flags().StringVar(&applyPRTitle, "title", "", "Pull request title (defaults to the request)")
}

func runApply(cmd *cobra.Command, args []string) {
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
	if applyOpenPR && applyRepoURL == "" {
		fmt.Println("Error: --pr requires --repo")
		return
	}

	fmt.Println("Compiling context...")
	digest, files, err := compileDigest(cfg, applyPath)
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

	conventions := patterns.Analyze(digest.Text)
	steps := plan.Parse(planText, conventions)
	if len(steps) == 0 {
		fmt.Println("No valid steps found in plan.")
		return
	}

	fmt.Println()
	fmt.Println(plan.FormatPlan(steps))
	fmt.Println()

	if applyDryRun {
		fmt.Println("Dry run: no changes applied.")
		return
	}

	ws, err := sandbox.Open(applyPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	loop := genloop.New(client,
		genloop.WithMaxAttempts(cfg.MaxAttempts),
		genloop.WithProgress(func(line string) { log.LogPhase("genloop", line) }),
	)
	result := executor.New(ws, loop).Apply(context.Background(), steps, digest.Text)

	for _, line := range result.Log.Entries {
		fmt.Println(line)
	}
	fmt.Printf("\nDone: %d file(s) changed, %d step(s) failed.\n",
		len(result.ModifiedFiles), result.FailedSteps)

	runID := saveRun(applyRepoURL, request, len(steps), result, digest.Stats)

	if applyOpenPR && len(result.ModifiedFiles) > 0 {
		openPullRequest(ws, result.ModifiedFiles, request, runID)
	}
}

// saveRun persists the run under .planpatch and returns its id. History
// failures are reported but never fail the apply.
func saveRun(repo, request string, steps int, result *types.ExecutionResult, stats types.DigestStats) string {
	store, err := storage.Open(".planpatch")
	if err != nil {
		fmt.Printf("Warning: could not open run history: %v\n", err)
		return ""
	}
	defer store.Close()

	id, err := store.SaveRun(repo, request, steps, result, stats)
	if err != nil {
		fmt.Printf("Warning: could not save run: %v\n", err)
		return ""
	}
	return id
}

// openPullRequest pushes the modified files to a new branch and opens a
// pull request for it.
func openPullRequest(ws *sandbox.Workspace, modified []string, request, runID string) {
	log := logging.Get()

	token := config.GitHubToken()
	if token == "" {
		fmt.Println("Error: --pr requires GITHUB_TOKEN in the environment")
		return
	}
	client, err := hosting.NewClient(applyRepoURL, token)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	changed := make(map[string]string, len(modified))
	for _, rel := range modified {
		content, err := ws.Read(rel)
		if err != nil {
			// Deleted files cannot be pushed through the file-set flow.
			continue
		}
		changed[rel] = content
	}
	if len(changed) == 0 {
		fmt.Println("Nothing to push: all changes were deletions.")
		return
	}

	branch := "planpatch/" + shortID(runID)
	title := applyPRTitle
	if title == "" {
		title = request
	}

	ctx := context.Background()
	base, err := client.DefaultBranch(ctx)
	if err != nil {
		fmt.Printf("Error resolving default branch: %v\n", err)
		log.LogError(err)
		return
	}
	fmt.Printf("Pushing %d file(s) to %s...\n", len(changed), branch)
	if err := client.PushFiles(ctx, branch, title, changed); err != nil {
		fmt.Printf("Error pushing branch: %v\n", err)
		log.LogError(err)
		return
	}

	url, err := client.OpenPullRequest(ctx, branch, base, title, "Automated change applied by planpatch.\n\nRequest: "+request)
	if err != nil {
		fmt.Printf("Error opening pull request: %v\n", err)
		log.LogError(err)
		return
	}
	fmt.Printf("Pull request: %s\n", url)
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	if id == "" {
		return "manual"
	}
	return id
}
