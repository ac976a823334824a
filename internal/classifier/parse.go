package classifier

import (
	"regexp"
	"strings"

	"call-triage-go/internal/types"
)

// The model is asked for a fixed tag format but treated as returning
// untyped text: any tag missing from the response resolves to an empty
// field, never an error, and the raw output is always preserved.

var (
	classificationRe = regexp.MustCompile(`(?s)<classification>(.*?)</classification>`)
	categoryRe       = regexp.MustCompile(`(?s)<category>(.*?)</category>`)
	justificationRe  = regexp.MustCompile(`(?s)<justification>(.*?)</justification>`)
)

// ParseAnalysis extracts the tag-delimited fields from a raw model response.
func ParseAnalysis(raw string) types.LLMResult {
	return types.LLMResult{
		Classification: extract(classificationRe, raw),
		Category:       extract(categoryRe, raw),
		Justification:  extract(justificationRe, raw),
		LLMRawOutput:   raw,
	}
}

func extract(re *regexp.Regexp, raw string) string {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
