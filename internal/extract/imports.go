package extract

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	importSpecifier = regexp.MustCompile(`(?:from|import)\s+['"](.+?)['"]`)
	dependencyName  = regexp.MustCompile(`(?:import|from)\s+([a-zA-Z0-9_.]+)`)
)

// importableExts are the extensions whose import lines are scanned for
// relative specifiers.
var importableExts = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".py": true,
}

// RelativeImports returns the raw relative import specifiers of a file, in
// document order. Only specifiers beginning with "." are candidates for
// local resolution; package imports are ignored here.
func RelativeImports(path, content string) []string {
	ext := strings.ToLower(filepath.Ext(path))
	if !importableExts[ext] {
		return nil
	}

	var imports []string
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "import") && !strings.HasPrefix(line, "from") {
			continue
		}
		if m := importSpecifier.FindStringSubmatch(line); m != nil {
			if strings.HasPrefix(m[1], ".") {
				imports = append(imports, m[1])
			}
		}
	}
	return imports
}

// Dependencies lists every import-ish name in a file, deduplicated and
// sorted. This is display material for file blocks, not graph input.
func Dependencies(content string) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "import") && !strings.HasPrefix(line, "from") {
			continue
		}
		m := dependencyName.FindStringSubmatch(line)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		deps = append(deps, m[1])
	}
	sort.Strings(deps)
	return deps
}
