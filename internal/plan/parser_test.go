package plan

import (
	"strings"
	"testing"

	"github.com/planpatch/planpatch/pkg/types"
)

const wellFormedPlan = `Here is the plan:
<plan>
<step>
<action>create</action>
<file>src/x.ts</file>
<description>add x</description>
</step>
</plan>
Some trailing commentary.`

func TestParseSingleStep(t *testing.T) {
	steps := Parse(wellFormedPlan, nil)

	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	s := steps[0]
	if s.Action != types.ActionCreate || s.File != "src/x.ts" || s.Description != "add x" {
		t.Errorf("step = %+v", s)
	}
}

func TestParseDropsMalformedRecords(t *testing.T) {
	text := `<step>
<action>create</action>
<file>src/a.ts</file>
<description>good</description>
</step>
<step>
<action>modify</action>
<file>src/b.ts</file>
</step>`

	steps := Parse(text, nil)
	if len(steps) != 1 {
		t.Fatalf("malformed record must be dropped silently, got %d steps", len(steps))
	}
	if steps[0].File != "src/a.ts" {
		t.Errorf("kept step = %+v", steps[0])
	}
}

func TestParseDropsUnknownActions(t *testing.T) {
	text := `<step>
<action>rename</action>
<file>src/a.ts</file>
<description>rename it</description>
</step>`

	if steps := Parse(text, nil); len(steps) != 0 {
		t.Errorf("unknown action must drop the record, got %v", steps)
	}
}

func TestParseNormalizesAction(t *testing.T) {
	text := `<step>
<action>  CREATE  </action>
<file> src/a.ts </file>
<description> add a </description>
</step>`

	steps := Parse(text, nil)
	if len(steps) != 1 {
		t.Fatal("expected one step")
	}
	if steps[0].Action != types.ActionCreate || steps[0].File != "src/a.ts" || steps[0].Description != "add a" {
		t.Errorf("step = %+v", steps[0])
	}
}

func TestParsePreservesOrder(t *testing.T) {
	text := `<step><action>create</action><file>b.ts</file><description>second file</description></step>
<step><action>delete</action><file>a.ts</file><description>first to go</description></step>
<step><action>modify</action><file>c.ts</file><description>third</description></step>`

	steps := Parse(text, nil)
	if len(steps) != 3 {
		t.Fatalf("got %d steps", len(steps))
	}
	want := []string{"b.ts", "a.ts", "c.ts"}
	for i, s := range steps {
		if s.File != want[i] {
			t.Errorf("step[%d].File = %q, want %q", i, s.File, want[i])
		}
	}
}

func TestParseDerivedFields(t *testing.T) {
	conventions := &types.ProjectPatterns{
		ComponentDirs: []string{"src/components"},
		Naming:        map[string]types.NamingStyle{"component": types.NamingPascal},
		Frameworks:    []string{"Next.js", "React"},
	}
	text := `<step>
<action>create</action>
<file>src/pages/user-card.tsx</file>
<description>Add a React user card component with a chart.js sparkline</description>
</step>`

	steps := Parse(text, conventions)
	if len(steps) != 1 {
		t.Fatal("expected one step")
	}
	s := steps[0]

	if !s.IsComponent {
		t.Error("a .tsx under components or with a component shape must set IsComponent")
	}
	if !containsString(s.DetectedTechnologies, "React") || !containsString(s.DetectedTechnologies, "Chart.js") {
		t.Errorf("technologies = %v", s.DetectedTechnologies)
	}
	if !containsString(s.DetectedDependencies, "chart.js") {
		t.Errorf("dependencies = %v", s.DetectedDependencies)
	}

	// kebab-case name against a PascalCase convention, placed outside the
	// component dirs, using a library outside the detected stack: three
	// advisory warnings, none fatal.
	if len(s.Warnings) != 3 {
		t.Errorf("warnings = %v", s.Warnings)
	}
}

func TestParseDeleteSkipsNamingWarnings(t *testing.T) {
	conventions := &types.ProjectPatterns{
		Naming: map[string]types.NamingStyle{"source": types.NamingCamel},
	}
	text := `<step>
<action>delete</action>
<file>src/old_helper.ts</file>
<description>remove dead code</description>
</step>`

	steps := Parse(text, conventions)
	if len(steps) != 1 {
		t.Fatal("expected one step")
	}
	if len(steps[0].Warnings) != 0 {
		t.Errorf("delete steps get no naming warnings, got %v", steps[0].Warnings)
	}
}

func TestFormatPlan(t *testing.T) {
	steps := []types.PlanStep{
		{Action: types.ActionCreate, File: "src/a.ts", Description: "add a"},
		{Action: types.ActionDelete, File: "src/b.ts", Description: "drop b", Warnings: []string{"b is imported by c"}},
	}

	md := FormatPlan(steps)
	for _, want := range []string{"1. **create** `src/a.ts`: add a", "2. **delete** `src/b.ts`: drop b", "warning: b is imported by c"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}

func TestFormatPlanEmpty(t *testing.T) {
	if md := FormatPlan(nil); !strings.Contains(md, "No valid steps") {
		t.Errorf("FormatPlan(nil) = %q", md)
	}
}

func containsString(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
