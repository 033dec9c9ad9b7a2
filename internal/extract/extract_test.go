package extract

import (
	"reflect"
	"testing"
)

func TestSymbolsTypeScript(t *testing.T) {
	content := `import { db } from './db';

export function fetchUsers() {
  return db.query('users');
}

export const formatName = (u) => u.name;

export interface UserProfile {
  id: string;
}

export default function Page() {
  return null;
}
`
	symbols := Symbols("src/users.ts", content)

	var got []string
	for _, s := range symbols {
		got = append(got, s.Descriptor)
	}
	want := []string{
		"function fetchUsers(...)",
		"function formatName(...)",
		"interface UserProfile",
		"function default(...)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Symbols = %v, want %v", got, want)
	}
}

func TestSymbolsPython(t *testing.T) {
	content := "import os\n\ndef load_config(path):\n    pass\n\nclass Loader:\n    pass\n"
	symbols := Symbols("config.py", content)
	if len(symbols) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(symbols))
	}
	if symbols[0].Descriptor != "def load_config(path):" {
		t.Errorf("unexpected first symbol: %q", symbols[0].Descriptor)
	}
}

func TestSymbolsUnknownExtension(t *testing.T) {
	if got := Symbols("main.rs", "pub fn main() {}"); len(got) != 0 {
		t.Errorf("expected no symbols for unrecognized extension, got %v", got)
	}
}

func TestRelativeImports(t *testing.T) {
	content := `import React from 'react';
import { db } from './lib/db';
import utils from '../utils';
const lazy = import('./lazy');
`
	got := RelativeImports("src/app/page.tsx", content)
	want := []string{"./lib/db", "../utils"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RelativeImports = %v, want %v", got, want)
	}
}

func TestRelativeImportsSkipsPackages(t *testing.T) {
	content := "import fmt from 'react'\nfrom os import path\n"
	if got := RelativeImports("a.py", content); len(got) != 0 {
		t.Errorf("expected no relative imports, got %v", got)
	}
}

func TestRelativeImportsNonScriptFile(t *testing.T) {
	if got := RelativeImports("style.css", "@import './base.css';"); got != nil {
		t.Errorf("expected nil for css file, got %v", got)
	}
}

func TestDependenciesSortedDeduped(t *testing.T) {
	content := "import react\nimport zod\nimport react\nfrom axios import get\n"
	got := Dependencies(content)
	want := []string{"axios", "react", "zod"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Dependencies = %v, want %v", got, want)
	}
}

func TestSummaryLeadingComments(t *testing.T) {
	content := `// Handles user session state.
// Keep in sync with the auth middleware.
import { cookies } from 'next/headers';
`
	got := Summary(content)
	want := "// Handles user session state.\n// Keep in sync with the auth middleware."
	if got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestSummaryBlockComment(t *testing.T) {
	content := "/**\n * Revenue chart component.\n */\nexport function Chart() {}\n"
	got := Summary(content)
	if got == "" {
		t.Fatal("expected block comment summary")
	}
	if want := "/**"; got[:3] != want {
		t.Errorf("summary should start with block comment, got %q", got)
	}
}

func TestSummaryStopsAtCode(t *testing.T) {
	content := "const x = 1;\n// trailing comment never reached\n"
	if got := Summary(content); got != "" {
		t.Errorf("expected empty summary, got %q", got)
	}
}

func TestSummaryDocstringAfterDeclaration(t *testing.T) {
	content := "def main():\n    \"\"\"Entry point.\"\"\"\n    pass\n"
	got := Summary(content)
	if got != `// """Entry point."""` {
		t.Errorf("Summary = %q", got)
	}
}
