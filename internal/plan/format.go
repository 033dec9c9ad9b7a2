package plan

import (
	"fmt"
	"strings"

	"github.com/planpatch/planpatch/pkg/types"
)

// FormatPlan renders parsed steps as a markdown bullet list for preview.
func FormatPlan(steps []types.PlanStep) string {
	if len(steps) == 0 {
		return "**No valid steps found in plan.**"
	}

	lines := []string{"### Plan", ""}
	for i, step := range steps {
		lines = append(lines, fmt.Sprintf("%d. **%s** `%s`: %s", i+1, step.Action, step.File, step.Description))
		for _, w := range step.Warnings {
			lines = append(lines, fmt.Sprintf("   - warning: %s", w))
		}
	}
	return strings.Join(lines, "\n")
}
