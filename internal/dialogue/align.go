// Package dialogue merges the two channels' transcript fragments into one
// chronological conversation.
package dialogue

import (
	"sort"
	"strings"

	"call-triage-go/internal/types"
)

// Align concatenates both channels' fragments and orders them by padded start
// sample, ascending. The sort is stable: ties keep input order, agent first.
// Nothing is dropped or deduplicated; overlapping windows from both channels
// simply appear in sequence.
func Align(agent, customer []types.TranscriptFragment) []types.TranscriptFragment {
	merged := make([]types.TranscriptFragment, 0, len(agent)+len(customer))
	merged = append(merged, agent...)
	merged = append(merged, customer...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start < merged[j].Start
	})
	return merged
}

// Render produces the dialogue text: newline-joined "channel: text" lines.
func Render(fragments []types.TranscriptFragment) string {
	lines := make([]string, len(fragments))
	for i, f := range fragments {
		lines[i] = f.Channel + ": " + f.Text
	}
	return strings.Join(lines, "\n")
}
