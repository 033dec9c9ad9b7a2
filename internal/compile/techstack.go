package compile

import (
	"sort"
	"strings"
)

// Manifest and documentation keyword tables for stack inference. Matching
// is substring membership over whatever text happens to be in the file
// map; there is no structured manifest parsing.
var packageJSONSignals = map[string]string{
	"next":     "Next.js",
	"react":    "React",
	"tailwind": "Tailwind CSS",
	"chart.js": "Chart.js",
	"supabase": "Supabase",
	"express":  "Express",
	"zustand":  "Zustand",
}

var readmeSignals = map[string]string{
	"postgres":     "PostgreSQL",
	"supabase":     "Supabase",
	"tailwind":     "Tailwind CSS",
	"forecast":     "Holt-Winters Forecasting",
	"holt-winters": "Holt-Winters Forecasting",
}

// InferTechStack pattern-matches known dependency manifests and README
// keywords to name the technologies in play. Best effort: a stack entry
// appears only if its signal text is present in the file map.
func InferTechStack(files map[string]string) []string {
	stack := make(map[string]bool)

	if pkg, ok := findFile(files, "package.json"); ok {
		lower := strings.ToLower(pkg)
		for signal, name := range packageJSONSignals {
			if strings.Contains(lower, signal) {
				stack[name] = true
			}
		}
	}

	if _, ok := findFile(files, "tsconfig.json"); ok {
		stack["TypeScript"] = true
	}

	if readme, ok := findFile(files, "README.md"); ok {
		lower := strings.ToLower(readme)
		for signal, name := range readmeSignals {
			if strings.Contains(lower, signal) {
				stack[name] = true
			}
		}
	}

	if _, ok := findFile(files, "go.mod"); ok {
		stack["Go"] = true
	}
	if _, ok := findFile(files, "requirements.txt"); ok {
		stack["Python"] = true
	}

	names := make([]string, 0, len(stack))
	for name := range stack {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// findFile locates a file by basename anywhere in the map: an exact key
// match first, then any path ending with "/<name>".
func findFile(files map[string]string, name string) (string, bool) {
	if content, ok := files[name]; ok {
		return content, true
	}
	for p, content := range files {
		if strings.HasSuffix(p, "/"+name) {
			return content, true
		}
	}
	return "", false
}
