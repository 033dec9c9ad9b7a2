// Package depgraph resolves relative imports against the known file set
// to build a file-level adjacency map. The map is advisory context for the
// digest: cycles are legal, unresolved imports are dropped without error,
// and nothing downstream depends on it for ordering.
package depgraph

import (
	"path"
	"strings"

	"github.com/planpatch/planpatch/internal/extract"
)

// candidateExts is the ordered probe list for extension-less imports.
// First hit wins.
var candidateExts = []string{".ts", ".tsx", ".js", ".jsx", ".py"}

// Build returns the dependency adjacency map for a set of files keyed by
// workspace-relative path. Only files with at least one resolved import
// get an entry.
func Build(files map[string]string) map[string][]string {
	graph := make(map[string][]string)

	for filePath, content := range files {
		var resolved []string
		for _, imp := range extract.RelativeImports(filePath, content) {
			if target, ok := Resolve(filePath, imp, files); ok {
				resolved = append(resolved, target)
			}
		}
		if len(resolved) > 0 {
			graph[filePath] = resolved
		}
	}

	return graph
}

// Resolve joins a relative import against the importing file's directory
// and probes the candidate extensions in order. It returns the matched
// path and whether resolution succeeded.
func Resolve(importer, imp string, files map[string]string) (string, bool) {
	base := path.Dir(importer)
	joined := path.Clean(path.Join(base, imp))
	joined = strings.ReplaceAll(joined, "\\", "/")

	for _, ext := range candidateExts {
		candidate := joined + ext
		if _, ok := files[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}
