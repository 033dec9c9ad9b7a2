// Package patterns mines compiled context text for project conventions:
// directory roles, dominant filename case style, and the frameworks,
// libraries, build tools, databases and package managers in play. All
// detection is substring and keyword matching over free text; results are
// advisory and feed plan-step warnings only.
package patterns

import (
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/planpatch/planpatch/pkg/types"
)

// pathPattern pulls path-looking tokens out of free text. Context digests
// carry explicit FILE: lines, but plan text and raw trees do not.
var pathPattern = regexp.MustCompile(`[A-Za-z0-9_@.-]+(?:/[A-Za-z0-9_@.\-\[\]]+)+\.[A-Za-z0-9]{1,5}`)

// Directory-role fragments, matched by substring against each path.
var (
	componentFragments = []string{"components/", "/ui/", "widgets/"}
	testFragments      = []string{"__tests__", ".test.", ".spec.", "/tests/", "/test/"}
	configFragments    = []string{"config", ".github/", ".vscode/"}
	assetFragments     = []string{"assets/", "public/", "static/", "images/"}
	sourceFragments    = []string{"src/", "app/", "lib/", "pages/", "api/"}
)

// Keyword vocabularies. Membership is tested against the lowered text.
var (
	frameworkVocab = map[string]string{
		"next":    "Next.js",
		"react":   "React",
		"vue":     "Vue",
		"svelte":  "Svelte",
		"express": "Express",
		"nestjs":  "NestJS",
		"django":  "Django",
		"flask":   "Flask",
		"fastapi": "FastAPI",
	}
	libraryVocab = map[string]string{
		"tailwind": "Tailwind CSS",
		"chart.js": "Chart.js",
		"zustand":  "Zustand",
		"redux":    "Redux",
		"axios":    "Axios",
		"prisma":   "Prisma",
		"zod":      "Zod",
	}
	buildToolVocab = map[string]string{
		"webpack":   "Webpack",
		"vite":      "Vite",
		"turbopack": "Turbopack",
		"esbuild":   "esbuild",
		"babel":     "Babel",
	}
	databaseVocab = map[string]string{
		"postgres": "PostgreSQL",
		"mysql":    "MySQL",
		"sqlite":   "SQLite",
		"mongodb":  "MongoDB",
		"supabase": "Supabase",
		"redis":    "Redis",
	}
	packageManagerVocab = map[string]string{
		"package-lock.json": "npm",
		"yarn.lock":         "yarn",
		"pnpm-lock.yaml":    "pnpm",
		"requirements.txt":  "pip",
		"poetry.lock":       "poetry",
		"go.mod":            "go modules",
	}
)

// Filename case-style patterns, checked in order.
var (
	pascalPattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	camelPattern  = regexp.MustCompile(`^[a-z]+[A-Z][a-zA-Z0-9]*$`)
	kebabPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)+$`)
	snakePattern  = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)+$`)
	lowerPattern  = regexp.MustCompile(`^[a-z0-9.]+$`)
)

// Analyze mines context text for the project's convention profile.
func Analyze(contextText string) *types.ProjectPatterns {
	paths := extractPaths(contextText)
	lower := strings.ToLower(contextText)

	p := &types.ProjectPatterns{
		Naming: make(map[string]types.NamingStyle),
	}

	buckets := map[string][]string{}
	for _, fp := range paths {
		bucket := classifyDir(fp)
		buckets[bucket] = append(buckets[bucket], fp)
	}
	p.ComponentDirs = dirsOf(buckets["component"])
	p.TestDirs = dirsOf(buckets["test"])
	p.ConfigDirs = dirsOf(buckets["config"])
	p.AssetDirs = dirsOf(buckets["asset"])
	p.SourceDirs = dirsOf(buckets["source"])

	for category, files := range buckets {
		if style, ok := dominantNaming(files); ok {
			p.Naming[category] = style
		}
	}

	p.Frameworks = matchVocab(lower, frameworkVocab)
	p.Libraries = matchVocab(lower, libraryVocab)
	p.BuildTools = matchVocab(lower, buildToolVocab)
	p.Databases = matchVocab(lower, databaseVocab)
	p.PackageManagers = matchVocab(lower, packageManagerVocab)

	return p
}

// extractPaths returns the deduplicated path tokens found in the text,
// preferring explicit "FILE:" lines when present.
func extractPaths(text string) []string {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p != "" && !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if rest, ok := strings.CutPrefix(line, "FILE: "); ok {
			add(rest)
		}
	}
	if len(paths) > 0 {
		return paths
	}

	for _, m := range pathPattern.FindAllString(text, -1) {
		add(m)
	}
	return paths
}

// classifyDir assigns a path to a directory-role bucket. Test beats
// component so component test files do not skew component naming.
func classifyDir(p string) string {
	lower := strings.ToLower(p)
	for _, f := range testFragments {
		if strings.Contains(lower, f) {
			return "test"
		}
	}
	for _, f := range componentFragments {
		if strings.Contains(lower, f) {
			return "component"
		}
	}
	for _, f := range assetFragments {
		if strings.Contains(lower, f) {
			return "asset"
		}
	}
	for _, f := range configFragments {
		if strings.Contains(lower, f) {
			return "config"
		}
	}
	for _, f := range sourceFragments {
		if strings.Contains(lower, f) {
			return "source"
		}
	}
	return "source"
}

// dominantNaming returns the majority case style over the basenames of
// files, sans extension. Ties resolve toward the stricter style first.
func dominantNaming(files []string) (types.NamingStyle, bool) {
	counts := make(map[types.NamingStyle]int)
	for _, fp := range files {
		base := path.Base(fp)
		base = strings.TrimSuffix(base, path.Ext(base))
		if style, ok := nameStyle(base); ok {
			counts[style]++
		}
	}

	order := []types.NamingStyle{
		types.NamingPascal, types.NamingCamel, types.NamingKebab,
		types.NamingSnake, types.NamingLowercase,
	}
	var best types.NamingStyle
	bestCount := 0
	for _, style := range order {
		if counts[style] > bestCount {
			best = style
			bestCount = counts[style]
		}
	}
	if bestCount == 0 {
		return "", false
	}
	return best, true
}

func nameStyle(base string) (types.NamingStyle, bool) {
	switch {
	case pascalPattern.MatchString(base):
		return types.NamingPascal, true
	case camelPattern.MatchString(base):
		return types.NamingCamel, true
	case kebabPattern.MatchString(base):
		return types.NamingKebab, true
	case snakePattern.MatchString(base):
		return types.NamingSnake, true
	case lowerPattern.MatchString(base):
		return types.NamingLowercase, true
	}
	return "", false
}

func matchVocab(lowerText string, vocab map[string]string) []string {
	var found []string
	for keyword, name := range vocab {
		if strings.Contains(lowerText, keyword) {
			found = append(found, name)
		}
	}
	sort.Strings(found)
	return found
}

func dirsOf(files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, fp := range files {
		d := path.Dir(fp)
		if d == "." || seen[d] {
			continue
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}
