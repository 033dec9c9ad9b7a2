// Package classify assigns a role label to a file path. Classification is
// a pure function of the path: rules are evaluated top to bottom and the
// first match wins. The rule order is a priority policy: inclusion
// filtering and digest packing both depend on these labels being stable,
// so new rules must be appended with care.
package classify

import "strings"

// Label is the role assigned to a file.
type Label string

const (
	LabelAPIRoute      Label = "API Route"
	LabelAuth          Label = "Authentication"
	LabelDashboard     Label = "Dashboard Page"
	LabelLogin         Label = "Login Page"
	LabelVisualization Label = "Visualization"
	LabelUtilities     Label = "Utilities"
	LabelMiddleware    Label = "Middleware"
	LabelConfig        Label = "Configuration"
	LabelSource        Label = "Source Code"
	LabelStylesheet    Label = "Stylesheet"
	LabelGitHook       Label = "Git Hook"
	LabelTest          Label = "Test File"
	LabelDocs          Label = "Documentation"
)

// priorityOrder is the packing preference: lower index means the file is
// rendered earlier in the digest and survives budget trimming longer.
var priorityOrder = []Label{
	LabelAPIRoute,
	LabelAuth,
	LabelDashboard,
	LabelLogin,
	LabelVisualization,
	LabelUtilities,
	LabelMiddleware,
	LabelConfig,
	LabelSource,
	LabelStylesheet,
	LabelGitHook,
	LabelTest,
	LabelDocs,
}

// Classify labels a file path. It never fails; unmatched paths fall back
// to LabelSource.
func Classify(path string) Label {
	lower := strings.ToLower(path)

	switch {
	case strings.Contains(lower, "test") || strings.Contains(lower, ".test.") || strings.Contains(lower, "_test"):
		return LabelTest
	case strings.Contains(lower, "login"):
		return LabelLogin
	case strings.Contains(lower, "dashboard"):
		return LabelDashboard
	case strings.Contains(lower, "api"):
		return LabelAPIRoute
	case strings.Contains(lower, "auth"):
		return LabelAuth
	case strings.Contains(lower, "hooks/"):
		return LabelGitHook
	case strings.Contains(lower, "charts/"):
		return LabelVisualization
	}

	if hasSuffixAny(path, ".env", ".env.local", ".env.production") {
		return LabelConfig
	}
	if hasSuffixAny(path, ".json", ".config.js", ".config.ts") {
		return LabelConfig
	}
	if hasSuffixAny(path, ".css", ".scss") {
		return LabelStylesheet
	}
	if strings.HasSuffix(path, ".md") {
		return LabelDocs
	}

	switch {
	case strings.Contains(lower, "utils") || strings.Contains(lower, "helper"):
		return LabelUtilities
	case strings.Contains(lower, "middleware"):
		return LabelMiddleware
	}

	return LabelSource
}

// PriorityRank returns the packing rank of a path's label. Unknown labels
// rank after every known one.
func PriorityRank(path string) int {
	label := Classify(path)
	for i, l := range priorityOrder {
		if l == label {
			return i
		}
	}
	return len(priorityOrder)
}

func hasSuffixAny(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
