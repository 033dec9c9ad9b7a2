package cli

import (
	"fmt"
	"strings"

	"github.com/planpatch/planpatch/internal/compile"
	"github.com/planpatch/planpatch/internal/config"
	"github.com/planpatch/planpatch/internal/llm"
	"github.com/planpatch/planpatch/internal/patterns"
	"github.com/planpatch/planpatch/internal/sandbox"
	"github.com/planpatch/planpatch/pkg/types"
)

// compileDigest reads the workspace tree and compiles it under the
// configured budgets.
func compileDigest(cfg *config.Config, workspacePath string) (*types.Digest, map[string]string, error) {
	ws, err := sandbox.Open(workspacePath)
	if err != nil {
		return nil, nil, err
	}
	files, err := ws.ReadTree()
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no readable files under %s", workspacePath)
	}

	compiler := compile.New(compile.Options{
		IgnorePatterns: cfg.IgnorePatterns,
		MaxChars:       cfg.Budget.MaxChars,
		MaxFileChars:   cfg.Budget.MaxFileChars,
		MaxFileTokens:  cfg.Budget.MaxFileTokens,
	})
	return compiler.Compile(files), files, nil
}

// newCompletionClient builds the provider client from config and env.
func newCompletionClient(cfg *config.Config) (llm.Client, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, fmt.Errorf("no API key found for provider %q (set PLANPATCH_API_KEY)", cfg.Provider.Type)
	}
	return llm.New(llm.Config{
		Type:        cfg.Provider.Type,
		Model:       cfg.Provider.Model,
		APIKey:      key,
		BaseURL:     cfg.Provider.BaseURL,
		Temperature: cfg.Provider.Temperature,
	})
}

// stackKnowledgeFor renders the stack rule section when the tree carries
// a package.json. Empty when nothing matches.
func stackKnowledgeFor(files map[string]string) string {
	for p, content := range files {
		if p == "package.json" || strings.HasSuffix(p, "/package.json") {
			if stack := patterns.DetectStackFromPackageJSON(content); len(stack) > 0 {
				return patterns.RenderStackKnowledge(stack)
			}
		}
	}
	return ""
}
