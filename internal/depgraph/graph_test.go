package depgraph

import (
	"reflect"
	"testing"
)

func TestBuildResolvesRelativeImports(t *testing.T) {
	files := map[string]string{
		"src/app/page.tsx": "import { db } from '../lib/db';\nimport { Chart } from './chart';\n",
		"src/lib/db.ts":    "export const db = {};\n",
		"src/app/chart.jsx": "export function Chart() {}\n",
	}

	graph := Build(files)

	want := []string{"src/lib/db.ts", "src/app/chart.jsx"}
	if !reflect.DeepEqual(graph["src/app/page.tsx"], want) {
		t.Errorf("edges = %v, want %v", graph["src/app/page.tsx"], want)
	}
}

func TestBuildExtensionProbeOrder(t *testing.T) {
	// Both db.ts and db.py exist; .ts is probed first and wins.
	files := map[string]string{
		"src/main.ts": "import { db } from './db';\n",
		"src/db.ts":   "",
		"src/db.py":   "",
	}
	graph := Build(files)
	if got := graph["src/main.ts"]; len(got) != 1 || got[0] != "src/db.ts" {
		t.Errorf("expected first-probe .ts to win, got %v", got)
	}
}

func TestBuildDropsUnresolved(t *testing.T) {
	files := map[string]string{
		"src/main.ts": "import { gone } from './missing';\n",
	}
	graph := Build(files)
	if _, ok := graph["src/main.ts"]; ok {
		t.Errorf("unresolved import must produce no entry, got %v", graph["src/main.ts"])
	}
}

func TestBuildAllowsCycles(t *testing.T) {
	files := map[string]string{
		"a.ts": "import { b } from './b';\n",
		"b.ts": "import { a } from './a';\n",
	}
	graph := Build(files)
	if len(graph["a.ts"]) != 1 || len(graph["b.ts"]) != 1 {
		t.Errorf("cycles are legal, graph = %v", graph)
	}
}

func TestResolveParentDirectory(t *testing.T) {
	files := map[string]string{"lib/util.py": ""}
	got, ok := Resolve("app/main.py", "../lib/util", files)
	if !ok || got != "lib/util.py" {
		t.Errorf("Resolve = %q, %v", got, ok)
	}
}
