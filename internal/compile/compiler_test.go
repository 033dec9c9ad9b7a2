package compile

import (
	"strings"
	"testing"
)

func TestShouldIncludePolicy(t *testing.T) {
	c := New(Options{})

	cases := []struct {
		name    string
		path    string
		content string
		want    bool
	}{
		{"source file", "src/lib/db.ts", "export const db = {};", true},
		{"ignore pattern", "node_modules/react/index.js", "x", false},
		{"mock pattern", "src/__mocks__/db.ts", "x", false},
		{"test file", "src/db.test.ts", "x", false},
		{"disallowed extension", "styles/app.css", "body {}", false},
		{"markdown allowed", "README.md", "# hi", true},
	}
	for _, tc := range cases {
		if got := c.shouldInclude(tc.path, tc.content); got != tc.want {
			t.Errorf("%s: shouldInclude(%q) = %v, want %v", tc.name, tc.path, got, tc.want)
		}
	}
}

func TestShouldIncludeSizeCeilings(t *testing.T) {
	c := New(Options{MaxFileChars: 100, MaxFileTokens: 10})

	if c.shouldInclude("big.ts", strings.Repeat("a", 101)) {
		t.Error("file over MaxFileChars must be excluded")
	}
	if c.shouldInclude("tokens.ts", strings.Repeat("a", 60)) {
		t.Error("file over MaxFileTokens must be excluded")
	}
	if !c.shouldInclude("ok.ts", strings.Repeat("a", 30)) {
		t.Error("file under both ceilings must be included")
	}
}

func TestCompileOrdersByPriority(t *testing.T) {
	c := New(Options{})
	files := map[string]string{
		"docs/notes.md":          "# notes",
		"app/api/users/route.ts": "export function GET() {}",
		"src/utils/format.ts":    "export const formatName = (n) => n;",
	}

	digest := c.Compile(files)

	api := strings.Index(digest.Text, "FILE: app/api/users/route.ts")
	utils := strings.Index(digest.Text, "FILE: src/utils/format.ts")
	docs := strings.Index(digest.Text, "FILE: docs/notes.md")
	if api < 0 || utils < 0 || docs < 0 {
		t.Fatalf("missing file blocks in digest:\n%s", digest.Text)
	}
	if !(api < utils && utils < docs) {
		t.Errorf("priority order violated: api=%d utils=%d docs=%d", api, utils, docs)
	}
}

func TestCompileStableOrderWithinRank(t *testing.T) {
	c := New(Options{})
	// All three classify as Source Code; order must be lexical and
	// identical across runs.
	files := map[string]string{
		"src/b.ts": "export const b = 1;",
		"src/a.ts": "export const a = 1;",
		"src/c.ts": "export const c = 1;",
	}

	first := c.Compile(files).Text
	for i := 0; i < 5; i++ {
		if got := c.Compile(files).Text; got != first {
			t.Fatal("digest differs across runs for the same input")
		}
	}

	a := strings.Index(first, "FILE: src/a.ts")
	b := strings.Index(first, "FILE: src/b.ts")
	cc := strings.Index(first, "FILE: src/c.ts")
	if !(a < b && b < cc) {
		t.Errorf("equal-rank files out of lexical order: a=%d b=%d c=%d", a, b, cc)
	}
}

func TestCompileBudgetTrimsWholeBlocks(t *testing.T) {
	c := New(Options{MaxChars: 900})
	files := map[string]string{
		"app/api/a/route.ts": strings.Repeat("// filler\n", 40),
		"app/api/b/route.ts": strings.Repeat("// filler\n", 40),
		"src/small.ts":       "export const x = 1;",
	}

	digest := c.Compile(files)

	if digest.Stats.IncludedFiles == len(files) {
		t.Fatal("expected the budget to exclude at least one file")
	}
	if digest.Stats.SkippedFiles == 0 {
		t.Error("skipped counter must reflect budget exclusions")
	}
	// Every included file appears as a complete block, never truncated.
	for _, p := range []string{"app/api/a/route.ts", "app/api/b/route.ts", "src/small.ts"} {
		if strings.Contains(digest.Text, "FILE: "+p) && !strings.Contains(digest.Text, "```ts") {
			t.Errorf("block for %s present but truncated", p)
		}
	}
}

func TestRouteMap(t *testing.T) {
	files := map[string]string{
		"app/page.tsx":           "export default function Home() {}",
		"app/api/users/route.ts": "export function GET() {}",
		"app/dashboard/page.tsx": "export default function Dashboard() {}",
		"src/lib/db.ts":          "export const db = {};",
	}

	got := RouteMap(files)
	want := []string{
		"/ -> app/page.tsx",
		"/api/users -> app/api/users/route.ts",
		"/dashboard -> app/dashboard/page.tsx",
	}
	if len(got) != len(want) {
		t.Fatalf("RouteMap = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("route[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInferTechStack(t *testing.T) {
	files := map[string]string{
		"package.json":  `{"dependencies": {"next": "14.0.0", "react": "18.2.0", "chart.js": "4.0.0"}}`,
		"tsconfig.json": "{}",
		"README.md":     "Dashboard backed by Supabase Postgres.",
	}

	got := InferTechStack(files)

	for _, name := range []string{"Next.js", "React", "Chart.js", "TypeScript", "Supabase", "PostgreSQL"} {
		found := false
		for _, g := range got {
			if g == name {
				found = true
			}
		}
		if !found {
			t.Errorf("expected %s in stack, got %v", name, got)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(strings.Repeat("a", 400)); got != 100 {
		t.Errorf("EstimateTokens = %d, want 100", got)
	}
}
