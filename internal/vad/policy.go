package vad

import "call-triage-go/internal/types"

// DropEarlyCustomerSegments suppresses customer-channel segments that start
// more than two seconds before the agent's first detected segment. In-scope
// calls open with the agent speaking, so earlier customer audio is hold music
// or IVR rather than speech worth transcribing. The heuristic misfires when
// the agent's first segment is itself spurious; keep it isolated here so it
// can be revisited without touching alignment.
func DropEarlyCustomerSegments(agent, customer []types.Segment, sampleRate int) []types.Segment {
	if len(agent) == 0 {
		return customer
	}
	cutoff := agent[0].Start - 2*sampleRate
	kept := make([]types.Segment, 0, len(customer))
	for _, seg := range customer {
		if seg.Start >= cutoff {
			kept = append(kept, seg)
		}
	}
	return kept
}
