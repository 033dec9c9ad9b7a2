package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/planpatch/planpatch/pkg/types"
)

var fenceOpenPattern = regexp.MustCompile("```[a-zA-Z0-9]*")

// StripCodeFence removes markdown code fencing from a completion. Models
// wrap file content in fences despite instructions; the stored content
// must be the bare file text.
func StripCodeFence(text string) string {
	if !strings.Contains(text, "```") {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(fenceOpenPattern.ReplaceAllString(text, ""))
}

// DegradedReview is the substitute result used when review output cannot
// be parsed. Score sits mid-scale and regeneration is not requested, so
// a malformed review never aborts or extends the loop.
func DegradedReview() types.ReviewResult {
	return types.ReviewResult{
		Score: 5,
		Issues: []types.ReviewIssue{
			{Severity: "medium", Description: "review output could not be parsed"},
		},
		Confidence:       "low",
		ShouldRegenerate: false,
		Summary:          "parse failure",
	}
}

// ParseReview extracts a ReviewResult from completion text. The bool
// reports whether parsing succeeded; on failure the degraded default is
// returned instead of an error.
func ParseReview(text string) (types.ReviewResult, bool) {
	payload := extractJSONObject(StripCodeFence(text))
	if payload == "" {
		return DegradedReview(), false
	}

	var result types.ReviewResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return DegradedReview(), false
	}
	if result.Score < 1 || result.Score > 10 {
		return DegradedReview(), false
	}
	if result.Confidence == "" {
		result.Confidence = "low"
	}
	return result, true
}

// extractJSONObject returns the first balanced top-level JSON object in
// the text, tolerating prose around it.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
