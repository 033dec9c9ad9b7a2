package extract

import "strings"

// summaryMaxLines caps how far into a file the summary scan looks.
const summaryMaxLines = 20

var jsdocTags = []string{"@param", "@returns", "@description", "@example"}

// Summary collects the leading comment/docstring block of a file: single
// line comments, multi-line comment bodies, JSDoc tag lines, and the
// docstring that follows the first declaration. The scan stops at the
// first non-comment code line.
func Summary(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	var out []string
	inBlockComment := false

	limit := len(lines)
	if limit > summaryMaxLines {
		limit = summaryMaxLines
	}

	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if strings.Contains(line, "/**") || strings.Contains(line, "/*") {
			inBlockComment = true
			out = append(out, line)
			continue
		}
		if strings.Contains(line, "*/") && inBlockComment {
			inBlockComment = false
			out = append(out, line)
			continue
		}
		if inBlockComment {
			out = append(out, line)
			continue
		}

		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, `"""`) || strings.HasPrefix(line, "'''") {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(line, "*") && containsAny(line, jsdocTags) {
			out = append(out, line)
			continue
		}

		if isDeclaration(line) {
			// Look for a docstring right after the declaration.
			for j := i + 1; j < len(lines) && j < i+5; j++ {
				doc := strings.TrimSpace(lines[j])
				if strings.HasPrefix(doc, `"""`) || strings.HasPrefix(doc, "'''") || strings.HasPrefix(doc, "//") {
					out = append(out, "// "+doc)
					break
				}
			}
			break
		}

		// First non-comment code line ends the summary.
		break
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func isDeclaration(line string) bool {
	return strings.HasPrefix(line, "def ") ||
		strings.HasPrefix(line, "class ") ||
		strings.HasPrefix(line, "function ") ||
		strings.HasPrefix(line, "export ")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
