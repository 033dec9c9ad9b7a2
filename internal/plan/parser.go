// Package plan extracts ordered change steps from XML-style plan text.
// The parser is tolerant: records missing a required field or carrying an
// unknown action are dropped without error, and any text around valid
// records is ignored. Step order equals order of appearance; the executor
// relies on it.
package plan

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/planpatch/planpatch/pkg/types"
)

var (
	stepPattern        = regexp.MustCompile(`(?s)<step>(.*?)</step>`)
	actionPattern      = regexp.MustCompile(`(?s)<action>(.*?)</action>`)
	filePattern        = regexp.MustCompile(`(?s)<file>(.*?)</file>`)
	descriptionPattern = regexp.MustCompile(`(?s)<description>(.*?)</description>`)
)

var validActions = map[types.Action]bool{
	types.ActionCreate: true,
	types.ActionModify: true,
	types.ActionDelete: true,
}

// componentExts marks extensions that can hold UI components.
var componentExts = map[string]bool{".tsx": true, ".jsx": true, ".vue": true, ".svelte": true}

// technologyVocab maps description keywords to technology names, used for
// per-step detection and stack-mismatch warnings.
var technologyVocab = map[string]string{
	"next":     "Next.js",
	"react":    "React",
	"tailwind": "Tailwind CSS",
	"chart.js": "Chart.js",
	"zustand":  "Zustand",
	"supabase": "Supabase",
	"postgres": "PostgreSQL",
	"express":  "Express",
	"prisma":   "Prisma",
}

// dependencyVocab maps description keywords to installable package names.
var dependencyVocab = map[string]string{
	"axios":     "axios",
	"zod":       "zod",
	"lodash":    "lodash",
	"chart.js":  "chart.js",
	"zustand":   "zustand",
	"prisma":    "prisma",
	"supabase":  "@supabase/supabase-js",
	"react-dom": "react-dom",
}

// Parse extracts ordered steps from plan text and derives advisory fields
// against the detected project conventions. conventions may be nil.
func Parse(planText string, conventions *types.ProjectPatterns) []types.PlanStep {
	var steps []types.PlanStep

	for _, raw := range stepPattern.FindAllStringSubmatch(planText, -1) {
		record := raw[1]
		action := firstMatch(actionPattern, record)
		file := firstMatch(filePattern, record)
		description := firstMatch(descriptionPattern, record)

		// Silent drop: a record missing any field is skipped, not an error.
		if action == "" || file == "" || description == "" {
			continue
		}

		step := types.PlanStep{
			Action:      types.Action(strings.ToLower(action)),
			File:        file,
			Description: description,
		}
		if !validActions[step.Action] {
			continue
		}

		deriveFields(&step, conventions)
		steps = append(steps, step)
	}

	return steps
}

func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// deriveFields computes isComponent, detected technologies/dependencies
// and the advisory warnings for one accepted step.
func deriveFields(step *types.PlanStep, conventions *types.ProjectPatterns) {
	lowerDesc := strings.ToLower(step.Description)

	step.IsComponent = isComponent(step.File, lowerDesc)
	step.DetectedTechnologies = matchKeywords(lowerDesc, technologyVocab)
	step.DetectedDependencies = matchKeywords(lowerDesc, dependencyVocab)

	if conventions == nil {
		return
	}

	if step.Action != types.ActionDelete {
		if w := namingWarning(step, conventions); w != "" {
			step.Warnings = append(step.Warnings, w)
		}
		if w := placementWarning(step, conventions); w != "" {
			step.Warnings = append(step.Warnings, w)
		}
	}
	for _, tech := range step.DetectedTechnologies {
		if !conventions.HasTechnology(tech) {
			step.Warnings = append(step.Warnings,
				fmt.Sprintf("%s is referenced in the description but not detected in the project stack", tech))
		}
	}
}

// isComponent combines the extension check with naming and placement
// signals; the description mentioning a component also counts.
func isComponent(file, lowerDesc string) bool {
	if !componentExts[strings.ToLower(path.Ext(file))] {
		return false
	}
	base := strings.TrimSuffix(path.Base(file), path.Ext(file))
	if base != "" && base[0] >= 'A' && base[0] <= 'Z' {
		return true
	}
	if strings.Contains(strings.ToLower(file), "components/") {
		return true
	}
	return strings.Contains(lowerDesc, "component")
}

// namingWarning compares the step file's basename style against the
// dominant convention for its category.
func namingWarning(step *types.PlanStep, conventions *types.ProjectPatterns) string {
	category := "source"
	if step.IsComponent {
		category = "component"
	}
	want, ok := conventions.Naming[category]
	if !ok {
		return ""
	}

	base := strings.TrimSuffix(path.Base(step.File), path.Ext(step.File))
	got, ok := baseNameStyle(base)
	if !ok || got == want {
		return ""
	}
	return fmt.Sprintf("%s uses %s naming; this project's %s files use %s", step.File, got, category, want)
}

// placementWarning flags a component created outside every detected
// component directory.
func placementWarning(step *types.PlanStep, conventions *types.ProjectPatterns) string {
	if !step.IsComponent || len(conventions.ComponentDirs) == 0 {
		return ""
	}
	dir := path.Dir(step.File)
	for _, cd := range conventions.ComponentDirs {
		if dir == cd || strings.HasPrefix(dir, cd+"/") {
			return ""
		}
	}
	return fmt.Sprintf("component %s is placed outside the detected component directories (%s)",
		step.File, strings.Join(conventions.ComponentDirs, ", "))
}

var (
	basePascal = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	baseCamel  = regexp.MustCompile(`^[a-z]+[A-Z][a-zA-Z0-9]*$`)
	baseKebab  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)+$`)
	baseSnake  = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)+$`)
	baseLower  = regexp.MustCompile(`^[a-z0-9.]+$`)
)

func baseNameStyle(base string) (types.NamingStyle, bool) {
	switch {
	case basePascal.MatchString(base):
		return types.NamingPascal, true
	case baseCamel.MatchString(base):
		return types.NamingCamel, true
	case baseKebab.MatchString(base):
		return types.NamingKebab, true
	case baseSnake.MatchString(base):
		return types.NamingSnake, true
	case baseLower.MatchString(base):
		return types.NamingLowercase, true
	}
	return "", false
}

func matchKeywords(lowerText string, vocab map[string]string) []string {
	seen := make(map[string]bool)
	var found []string
	for keyword, name := range vocab {
		if strings.Contains(lowerText, keyword) && !seen[name] {
			seen[name] = true
			found = append(found, name)
		}
	}
	sort.Strings(found)
	return found
}
