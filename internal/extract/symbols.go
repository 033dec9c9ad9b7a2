// Package extract recovers structural signals from source text with
// line-level heuristics: exported symbols, leading comment summaries, and
// import targets. Everything here is best-effort: false negatives are
// acceptable, and no function in this package returns an error for
// unrecognized input.
package extract

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/planpatch/planpatch/pkg/types"
)

// Script-family symbol patterns. Keyword-at-line-start anchoring keeps
// false positives down.
var (
	tsExportFunc    = regexp.MustCompile(`^export (function|const|async function) `)
	tsExportDefault = regexp.MustCompile(`^export default function `)
	tsFuncName      = regexp.MustCompile(`(function|const)\s+(\w+)`)
	tsInterfaceName = regexp.MustCompile(`interface (\w+)`)
	tsArrowConst    = regexp.MustCompile(`^const \w+ = \(`)
	tsConstName     = regexp.MustCompile(`const (\w+)`)
)

// scriptExts are the extensions treated as TypeScript/JavaScript family.
var scriptExts = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
}

// Symbols extracts exported construct descriptors from a file, in document
// order. Duplicates are kept.
func Symbols(path, content string) []types.SymbolEntry {
	ext := strings.ToLower(filepath.Ext(path))
	lines := strings.Split(content, "\n")

	var symbols []types.SymbolEntry
	add := func(desc string) {
		symbols = append(symbols, types.SymbolEntry{Descriptor: desc})
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if scriptExts[ext] {
			switch {
			case tsExportDefault.MatchString(line):
				add("function default(...)")
			case tsExportFunc.MatchString(line):
				if m := tsFuncName.FindStringSubmatch(line); m != nil {
					add("function " + m[2] + "(...)")
				}
			case strings.Contains(line, "interface ") && strings.Contains(line, "export"):
				if m := tsInterfaceName.FindStringSubmatch(line); m != nil {
					add("interface " + m[1])
				}
			case tsArrowConst.MatchString(line) && nextLineHasArrow(lines, i):
				if m := tsConstName.FindStringSubmatch(line); m != nil {
					add("function " + m[1])
				}
			}
			continue
		}

		if ext == ".py" {
			if strings.HasPrefix(line, "def ") || strings.HasPrefix(line, "class ") {
				add(line)
			}
		}
	}

	return symbols
}

func nextLineHasArrow(lines []string, i int) bool {
	return i+1 < len(lines) && strings.Contains(lines[i+1], "=>")
}
