package cli

import (
	"fmt"
	"os"

	"github.com/planpatch/planpatch/internal/config"
	"github.com/planpatch/planpatch/internal/logging"
	"github.com/spf13/cobra"
)

var (
	compilePath string
	compileOut  string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the context digest for a repository",
	Long: `Compile a token-budgeted context digest of the repository.

The digest contains a summary header (tech stack, route map, symbol
index, dependency graph) followed by one block per included file. It is
the same text later fed to plan generation.

Example:
  planpatch compile
  planpatch compile --path ../other-repo --out digest.txt`,
	Run: runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compilePath, "path", "p", ".", "Repository path")
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "Write the digest to a file instead of stdout")
}

func runCompile(cmd *cobra.Command, args []string) {
	log := logging.Get()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	digest, _, err := compileDigest(cfg, compilePath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		log.LogError(err)
		return
	}
	log.LogPhase("compile", fmt.Sprintf("included=%d skipped=%d tokens=%d",
		digest.Stats.IncludedFiles, digest.Stats.SkippedFiles, digest.Stats.TotalTokens))

	if compileOut != "" {
		if err := os.WriteFile(compileOut, []byte(digest.Text), 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", compileOut, err)
			return
		}
		fmt.Printf("Digest written to %s\n", compileOut)
	} else {
		fmt.Println(digest.Text)
	}

	fmt.Printf("\nIncluded: %d files, Skipped: %d, Estimated tokens: %d\n",
		digest.Stats.IncludedFiles, digest.Stats.SkippedFiles, digest.Stats.TotalTokens)
}
