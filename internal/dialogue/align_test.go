package dialogue

import (
	"reflect"
	"sort"
	"testing"

	"call-triage-go/internal/types"
)

func frag(channel string, start, end int, text string) types.TranscriptFragment {
	return types.TranscriptFragment{Channel: channel, Start: start, End: end, Text: text}
}

func TestAlign_SingleSegmentPerChannel(t *testing.T) {
	agent := []types.TranscriptFragment{frag("agent", 1000, 2000, "hello")}
	customer := []types.TranscriptFragment{frag("customer", 1500, 2500, "hi")}

	got := Render(Align(agent, customer))
	want := "agent: hello\ncustomer: hi"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestAlign_SortedAndComplete(t *testing.T) {
	agent := []types.TranscriptFragment{
		frag("agent", 100, 300, "one"),
		frag("agent", 5000, 5200, "three"),
		frag("agent", 9000, 9100, "five"),
	}
	customer := []types.TranscriptFragment{
		frag("customer", 400, 600, "two"),
		frag("customer", 6000, 6300, "four"),
	}

	merged := Align(agent, customer)

	if len(merged) != len(agent)+len(customer) {
		t.Fatalf("Align() returned %d fragments, want %d", len(merged), len(agent)+len(customer))
	}
	if !sort.SliceIsSorted(merged, func(i, j int) bool { return merged[i].Start < merged[j].Start }) {
		t.Errorf("Align() output not sorted by start: %+v", merged)
	}

	// no fragment dropped or duplicated: the output is a permutation of the input
	seen := map[types.TranscriptFragment]int{}
	for _, f := range merged {
		seen[f]++
	}
	for _, f := range append(append([]types.TranscriptFragment{}, agent...), customer...) {
		seen[f]--
	}
	for f, n := range seen {
		if n != 0 {
			t.Errorf("fragment %+v count off by %d", f, n)
		}
	}
}

func TestAlign_StableOnTies(t *testing.T) {
	// same start sample on both channels: agent comes first (input order)
	agent := []types.TranscriptFragment{frag("agent", 1000, 2000, "a")}
	customer := []types.TranscriptFragment{frag("customer", 1000, 1800, "b")}

	merged := Align(agent, customer)
	want := []types.TranscriptFragment{agent[0], customer[0]}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("Align() = %+v, want %+v", merged, want)
	}
}

func TestAlign_OverlappingWindowsBothKept(t *testing.T) {
	agent := []types.TranscriptFragment{frag("agent", 1000, 3000, "talking over")}
	customer := []types.TranscriptFragment{frag("customer", 1500, 2500, "me too")}

	got := Render(Align(agent, customer))
	want := "agent: talking over\ncustomer: me too"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil) = %q, want empty", got)
	}
}
