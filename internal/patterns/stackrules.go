package patterns

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// stackRules holds tech-specific guidance lines keyed by dependency name.
// Matched rules are rendered into the generation prompt so produced code
// respects the stack's known sharp edges.
var stackRules = map[string][]string{
	"next": {
		"Do not access `localStorage` or `window` directly outside `useEffect`.",
		"Use `'use client'` in top-level files that use client-only state or effects.",
		"Prevent hydration mismatches using `suppressHydrationWarning` where needed.",
	},
	"tailwindcss": {
		"Use `dark:` variants for dark mode styling.",
		"Ensure responsive design using Tailwind's mobile-first utilities.",
	},
	"zustand": {
		"Zustand stores must be initialized outside React components.",
		"Use shallow comparison to avoid re-renders when subscribing to store slices.",
	},
	"react": {
		"Always use hooks inside function components or custom hooks.",
		"Avoid SSR-incompatible hooks or global state directly in root layout files.",
	},
}

// DetectStackFromPackageJSON returns the sorted dependency names from a
// package.json payload that have stack rules. Malformed JSON yields nil.
func DetectStackFromPackageJSON(raw string) []string {
	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(raw), &pkg); err != nil {
		return nil
	}

	all := make(map[string]string, len(pkg.Dependencies)+len(pkg.DevDependencies))
	for dep := range pkg.Dependencies {
		all[dep] = dep
	}
	for dep := range pkg.DevDependencies {
		all[dep] = dep
	}

	var stack []string
	for dep := range all {
		lower := strings.ToLower(dep)
		for core := range stackRules {
			if strings.Contains(lower, core) {
				stack = append(stack, lower)
				break
			}
		}
	}
	sort.Strings(stack)
	return stack
}

// RenderStackKnowledge formats the matched stack rules as a markdown
// section for prompt injection. Unknown entries render nothing.
func RenderStackKnowledge(stack []string) string {
	var b strings.Builder
	b.WriteString("# STACK_KNOWLEDGE\n\n")
	b.WriteString("Tech-specific rules for this codebase.\n\n")
	for _, lib := range stack {
		rules, ok := stackRules[lib]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n", lib)
		for _, rule := range rules {
			fmt.Fprintf(&b, "- %s\n", rule)
		}
		b.WriteString("\n")
	}
	return b.String()
}
