package types

import "time"

// =============================================================================
// SOURCE & DIGEST TYPES
// =============================================================================

// SourceFile is one file read from the workspace. Immutable once read.
type SourceFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Chars    int    `json:"chars"`
	TokenEst int    `json:"token_est"`
}

// SymbolEntry is a short textual descriptor of one exported construct,
// e.g. "function fetchUsers(...)" or "interface UserProfile".
type SymbolEntry struct {
	Descriptor string `json:"descriptor"`
}

// DigestStats summarizes one context compilation pass.
type DigestStats struct {
	IncludedFiles int `json:"included_files"`
	SkippedFiles  int `json:"skipped_files"`
	TotalChars    int `json:"total_chars"`
	TotalTokens   int `json:"total_tokens"`
}

// Digest is the compiled context handed to the plan/generation prompts.
type Digest struct {
	Text      string      `json:"text"`
	Stats     DigestStats `json:"stats"`
	TechStack []string    `json:"tech_stack,omitempty"`
	RouteMap  []string    `json:"route_map,omitempty"`
}

// =============================================================================
// PLAN TYPES
// =============================================================================

// Action is the kind of change a plan step performs.
type Action string

const (
	ActionCreate Action = "create"
	ActionModify Action = "modify"
	ActionDelete Action = "delete"
)

// PlanStep is one atomic file-level change instruction parsed from plan
// text. Derived fields are advisory and never block execution.
type PlanStep struct {
	Action      Action `json:"action"`
	File        string `json:"file"`
	Description string `json:"description"`

	IsComponent          bool     `json:"is_component,omitempty"`
	DetectedTechnologies []string `json:"detected_technologies,omitempty"`
	DetectedDependencies []string `json:"detected_dependencies,omitempty"`
	Warnings             []string `json:"warnings,omitempty"`
}

// =============================================================================
// REVIEW TYPES
// =============================================================================

// ReviewIssue is one problem found by the self-review pass.
type ReviewIssue struct {
	Severity    string `json:"severity"` // low, medium, high
	Description string `json:"description"`
}

// ReviewSuggestion is one improvement proposed by the self-review pass.
type ReviewSuggestion struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ReviewResult is the structured critique of one generation attempt.
type ReviewResult struct {
	Score            int                `json:"score"` // 1-10
	Issues           []ReviewIssue      `json:"issues,omitempty"`
	Suggestions      []ReviewSuggestion `json:"suggestions,omitempty"`
	Confidence       string             `json:"confidence"` // high, medium, low
	ShouldRegenerate bool               `json:"should_regenerate"`
	Summary          string             `json:"summary,omitempty"`
}

// =============================================================================
// EXECUTION TYPES
// =============================================================================

// ExecutionLog is an ordered, append-only sequence of human-readable
// progress strings. It is an observability channel, never re-parsed.
type ExecutionLog struct {
	Entries []string `json:"entries"`
}

// Append adds one progress line.
func (l *ExecutionLog) Append(line string) {
	l.Entries = append(l.Entries, line)
}

// ExecutionResult is the outcome of applying one plan.
type ExecutionResult struct {
	Log           *ExecutionLog `json:"log"`
	ModifiedFiles []string      `json:"modified_files"`
	FailedSteps   int           `json:"failed_steps"`
}

// =============================================================================
// RUN HISTORY TYPES
// =============================================================================

// RunRecord is one persisted pipeline run.
type RunRecord struct {
	ID            string      `json:"id"`
	Repo          string      `json:"repo"`
	Request       string      `json:"request"`
	Steps         int         `json:"steps"`
	ModifiedFiles int         `json:"modified_files"`
	FailedSteps   int         `json:"failed_steps"`
	Digest        DigestStats `json:"digest"`
	CreatedAt     time.Time   `json:"created_at"`
}

// =============================================================================
// PROJECT PATTERN TYPES
// =============================================================================

// NamingStyle is a detected filename case convention.
type NamingStyle string

const (
	NamingPascal    NamingStyle = "PascalCase"
	NamingCamel     NamingStyle = "camelCase"
	NamingKebab     NamingStyle = "kebab-case"
	NamingSnake     NamingStyle = "snake_case"
	NamingLowercase NamingStyle = "lowercase"
)

// ProjectPatterns is the advisory convention profile mined from context
// text. All fields are best-effort; consumers must tolerate empties.
type ProjectPatterns struct {
	ComponentDirs   []string               `json:"component_dirs,omitempty"`
	SourceDirs      []string               `json:"source_dirs,omitempty"`
	TestDirs        []string               `json:"test_dirs,omitempty"`
	ConfigDirs      []string               `json:"config_dirs,omitempty"`
	AssetDirs       []string               `json:"asset_dirs,omitempty"`
	Naming          map[string]NamingStyle `json:"naming,omitempty"` // category -> style
	Frameworks      []string               `json:"frameworks,omitempty"`
	Libraries       []string               `json:"libraries,omitempty"`
	BuildTools      []string               `json:"build_tools,omitempty"`
	Databases       []string               `json:"databases,omitempty"`
	PackageManagers []string               `json:"package_managers,omitempty"`
}

// HasTechnology reports whether a keyword appears in any detected
// framework/library/build-tool/database bucket.
func (p *ProjectPatterns) HasTechnology(name string) bool {
	for _, group := range [][]string{p.Frameworks, p.Libraries, p.BuildTools, p.Databases} {
		for _, t := range group {
			if t == name {
				return true
			}
		}
	}
	return false
}
