// Package compile turns a workspace file map into a token-budgeted context
// digest: a global summary (tech stack, route map, symbol index, dependency
// graph) followed by one descriptive block per included file, ordered by
// classification priority. Trimming happens at file granularity, so a block
// either fits whole or is excluded.
package compile

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/planpatch/planpatch/internal/classify"
	"github.com/planpatch/planpatch/internal/depgraph"
	"github.com/planpatch/planpatch/internal/extract"
	"github.com/planpatch/planpatch/pkg/types"
)

// charsPerToken is the fallback token estimate ratio. Rough for English
// and code; callers must tolerate slight overshoot.
const charsPerToken = 4

// Default budgets. Zero-valued Options fields fall back to these.
const (
	defaultMaxFileChars  = 50000
	defaultMaxFileTokens = 3000
	defaultMaxChars      = 60000
)

// defaultIgnorePatterns excludes generated and mock content by substring
// match on the path.
var defaultIgnorePatterns = []string{
	".test.", "__mocks__", "mock", "node_modules", "dist", "build", ".next",
}

// importantExts is the inclusion allow-list.
var importantExts = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
	".py": true, ".java": true, ".go": true, ".json": true, ".md": true,
}

// Options configures one compilation pass.
type Options struct {
	IgnorePatterns []string
	MaxFileChars   int // per-file char ceiling
	MaxFileTokens  int // per-file token ceiling
	MaxChars       int // whole-digest char budget
}

// Compiler renders context digests. It is stateless between passes.
type Compiler struct {
	opts Options
}

// New returns a Compiler, filling defaults for zero-valued options.
func New(opts Options) *Compiler {
	if len(opts.IgnorePatterns) == 0 {
		opts.IgnorePatterns = defaultIgnorePatterns
	}
	if opts.MaxFileChars <= 0 {
		opts.MaxFileChars = defaultMaxFileChars
	}
	if opts.MaxFileTokens <= 0 {
		opts.MaxFileTokens = defaultMaxFileTokens
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = defaultMaxChars
	}
	return &Compiler{opts: opts}
}

// EstimateTokens approximates the token count of text at a fixed
// characters-per-token ratio.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// Compile builds the digest for a map of workspace-relative path -> content.
func (c *Compiler) Compile(files map[string]string) *types.Digest {
	ordered := orderedPaths(files)

	var included []string
	skipped := 0
	for _, p := range ordered {
		if c.shouldInclude(p, files[p]) {
			included = append(included, p)
		} else {
			skipped++
		}
	}

	techStack := InferTechStack(files)
	routeMap := RouteMap(files)
	graph := depgraph.Build(files)

	symbolIndex := make(map[string][]types.SymbolEntry)
	for _, p := range included {
		if symbols := extract.Symbols(p, files[p]); len(symbols) > 0 {
			symbolIndex[p] = symbols
		}
	}

	// Render blocks under the char budget. A block that does not fit is
	// excluded whole; later, smaller blocks may still fit.
	var blocks []string
	totalChars, totalTokens, budget := 0, 0, 0
	for _, p := range included {
		block := c.renderFileBlock(p, files[p])
		if budget+len(block) > c.opts.MaxChars {
			skipped++
			continue
		}
		budget += len(block)
		blocks = append(blocks, block)
		totalChars += len(files[p])
		totalTokens += EstimateTokens(files[p])
	}

	stats := types.DigestStats{
		IncludedFiles: len(blocks),
		SkippedFiles:  skipped,
		TotalChars:    totalChars,
		TotalTokens:   totalTokens,
	}

	var b strings.Builder
	b.WriteString(renderSummary(stats, techStack))
	b.WriteString("\n")
	b.WriteString(renderRouteMap(routeMap))
	b.WriteString("\n")
	b.WriteString(renderSymbolIndex(included, symbolIndex))
	b.WriteString("\n")
	b.WriteString(renderGraph(included, graph))
	b.WriteString("\n---\n")
	b.WriteString(strings.Join(blocks, "\n---\n"))

	return &types.Digest{
		Text:      b.String(),
		Stats:     stats,
		TechStack: techStack,
		RouteMap:  routeMap,
	}
}

// shouldInclude applies the inclusion policy: no ignore-pattern hit, under
// both per-file ceilings, not a test file, extension on the allow-list.
func (c *Compiler) shouldInclude(p, content string) bool {
	for _, pat := range c.opts.IgnorePatterns {
		if strings.Contains(p, pat) {
			return false
		}
	}
	if len(content) > c.opts.MaxFileChars {
		return false
	}
	if EstimateTokens(content) > c.opts.MaxFileTokens {
		return false
	}
	if classify.Classify(p) == classify.LabelTest {
		return false
	}
	return importantExts[strings.ToLower(path.Ext(p))]
}

// orderedPaths sorts paths ascending by classification priority rank.
// The sort is stable: equal-rank files keep lexical encounter order so a
// digest is reproducible for the same input map.
func orderedPaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	sort.SliceStable(paths, func(i, j int) bool {
		return classify.PriorityRank(paths[i]) < classify.PriorityRank(paths[j])
	})
	return paths
}

func (c *Compiler) renderFileBlock(p, content string) string {
	label := classify.Classify(p)
	summary := extract.Summary(content)
	symbols := extract.Symbols(p, content)
	deps := extract.Dependencies(content)

	lang := strings.TrimPrefix(path.Ext(p), ".")
	if lang == "" {
		lang = "txt"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FILE: %s\nTYPE: %s", p, label)
	if summary != "" {
		fmt.Fprintf(&b, "\nSUMMARY:\n%s", summary)
	}
	if len(symbols) > 0 {
		b.WriteString("\nSYMBOLS:")
		for _, s := range symbols {
			fmt.Fprintf(&b, "\n  - %s", s.Descriptor)
		}
	}
	if len(deps) > 0 {
		b.WriteString("\nDEPENDENCIES:")
		for _, d := range deps {
			fmt.Fprintf(&b, "\n  - %s", d)
		}
	}
	fmt.Fprintf(&b, "\nTOKENS: %d", EstimateTokens(content))
	fmt.Fprintf(&b, "\nCONTENT:\n```%s\n%s\n```\n", lang, strings.TrimSpace(content))
	return b.String()
}

func renderSummary(stats types.DigestStats, techStack []string) string {
	return fmt.Sprintf(
		"TOTAL FILES INCLUDED: %d\nTOTAL CHARACTERS: %d\nTOTAL TOKENS: %d\nTECH STACK: %s\nSKIPPED FILES: %d\n",
		stats.IncludedFiles, stats.TotalChars, stats.TotalTokens,
		strings.Join(techStack, ", "), stats.SkippedFiles)
}

func renderRouteMap(routes []string) string {
	var b strings.Builder
	b.WriteString("ROUTE MAP:\n")
	for _, r := range routes {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	return b.String()
}

func renderSymbolIndex(ordered []string, index map[string][]types.SymbolEntry) string {
	var b strings.Builder
	b.WriteString("FUNCTION & INTERFACE INDEX:\n")
	for _, p := range ordered {
		symbols, ok := index[p]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s:\n", p)
		for _, s := range symbols {
			fmt.Fprintf(&b, "    - %s\n", s.Descriptor)
		}
	}
	return b.String()
}

func renderGraph(ordered []string, graph map[string][]string) string {
	var b strings.Builder
	b.WriteString("FILE DEPENDENCY GRAPH:\n")
	for _, p := range ordered {
		deps, ok := graph[p]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s -> %s\n", p, strings.Join(deps, ", "))
	}
	return b.String()
}
