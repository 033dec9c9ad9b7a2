package llm

import (
	"fmt"
	"strings"

	"github.com/planpatch/planpatch/pkg/types"
)

// Context caps per prompt kind, in characters. Generation sees more
// context than review; both are hard truncation points for token safety.
const (
	GenerationContextLimit = 12000
	ReviewContextLimit     = 8000
)

// DefaultTemperature keeps generation conservative.
const DefaultTemperature = 0.2

const planTemplate = `You are a senior engineer planning a code change.

CODEBASE CONTEXT:
%s

%s
USER REQUEST:
%s

Produce a plan as a sequence of steps in exactly this format:

<plan>
<step>
<action>create|modify|delete</action>
<file>relative/path/to/file</file>
<description>what to do and why</description>
</step>
</plan>

Rules:
- Use only the three actions shown.
- File paths are relative to the repository root.
- Keep the plan minimal: only the files that must change.
- Output nothing outside the <plan> block.`

const createTemplate = `You are a senior engineer implementing one planned change.

CODEBASE CONTEXT:
%s

TASK: create the file %s
DESCRIPTION: %s

Write the complete content of the new file. Match the conventions visible
in the context. Output only the file content, no explanations and no
markdown fences.`

const modifyTemplate = `You are a senior engineer implementing one planned change.

CODEBASE CONTEXT:
%s

TASK: modify the file %s
DESCRIPTION: %s

CURRENT CONTENT:
%s

Write the complete updated content of the file. Match the conventions
visible in the context. Output only the file content, no explanations and
no markdown fences.`

const reviewTemplate = `You are reviewing generated code before it is written to a repository.

CODEBASE CONTEXT:
%s

PLANNED CHANGE: %s %s
DESCRIPTION: %s

GENERATED CONTENT:
%s

Respond with only a JSON object in exactly this shape:
{
  "score": <integer 1-10>,
  "issues": [{"severity": "low|medium|high", "description": "..."}],
  "suggestions": [{"type": "...", "description": "..."}],
  "confidence": "high|medium|low",
  "should_regenerate": <bool>,
  "summary": "..."
}`

// PlanPrompt renders the plan-generation prompt. stackKnowledge may be
// empty; when present it is injected between context and request.
func PlanPrompt(contextText, request, stackKnowledge string) string {
	section := ""
	if strings.TrimSpace(stackKnowledge) != "" {
		section = stackKnowledge + "\n\n"
	}
	return fmt.Sprintf(planTemplate, truncate(contextText, GenerationContextLimit), section, request)
}

// GenerationPrompt renders the create or modify prompt for one step.
// originalContent is only used for modify steps.
func GenerationPrompt(contextText string, step types.PlanStep, originalContent string) string {
	ctx := truncate(contextText, GenerationContextLimit)
	if step.Action == types.ActionModify {
		return fmt.Sprintf(modifyTemplate, ctx, step.File, step.Description, originalContent)
	}
	return fmt.Sprintf(createTemplate, ctx, step.File, step.Description)
}

// ReviewPrompt renders the structured self-review prompt for generated
// content. Review context is capped tighter than generation context.
func ReviewPrompt(contextText string, step types.PlanStep, content string) string {
	return fmt.Sprintf(reviewTemplate,
		truncate(contextText, ReviewContextLimit),
		step.Action, step.File, step.Description, content)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
