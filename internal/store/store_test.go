package store

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"call-triage-go/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return New(filepath.Join(dir, "system_output.csv"), filepath.Join(dir, "annotated.csv"))
}

func writeSystemOutput(t *testing.T, s *Store, rows []types.SystemOutput) {
	t.Helper()
	f, err := os.Create(s.SystemPath)
	if err != nil {
		t.Fatalf("create system output: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString("file_id,transcript,classification,category,justification\n"); err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		if _, err := f.WriteString(r.FileID + "," + r.Transcript + "," + r.Classification + "," + r.Category + "," + r.Justification + "\n"); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAnnotationRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := types.Annotation{
		FileID:              "call_001",
		FinalClassification: "Unnecessary Call",
		FinalCategory:       "Installation",
		Excluded:            true,
		ExclusionNote:       "wrong recording, second half is silence",
		AnnotationDate:      "2026-08-30 10:15:00",
	}
	if err := s.WriteAnnotations(map[string]types.Annotation{want.FileID: want}); err != nil {
		t.Fatalf("WriteAnnotations: %v", err)
	}

	got, err := s.ReadAnnotations()
	if err != nil {
		t.Fatalf("ReadAnnotations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d annotations, want 1", len(got))
	}
	if !reflect.DeepEqual(got[want.FileID], want) {
		t.Errorf("round trip = %+v, want %+v", got[want.FileID], want)
	}
}

func TestBooleanSerializedAsText(t *testing.T) {
	s := newTestStore(t)
	annotations := map[string]types.Annotation{
		"a": {FileID: "a", Excluded: true, AnnotationDate: "2026-08-30 09:00:00"},
		"b": {FileID: "b", Excluded: false, AnnotationDate: "2026-08-30 09:01:00"},
	}
	if err := s.WriteAnnotations(annotations); err != nil {
		t.Fatalf("WriteAnnotations: %v", err)
	}

	raw, err := os.ReadFile(s.AnnotatedPath)
	if err != nil {
		t.Fatal(err)
	}
	content := string(raw)
	for _, want := range []string{"True", "False"} {
		if !strings.Contains(content, want) {
			t.Errorf("annotations file missing literal %q:\n%s", want, content)
		}
	}

	got, err := s.ReadAnnotations()
	if err != nil {
		t.Fatalf("ReadAnnotations: %v", err)
	}
	if !got["a"].Excluded || got["b"].Excluded {
		t.Errorf("excluded flags did not round trip: %+v", got)
	}
}

func TestResubmissionReplacesPrior(t *testing.T) {
	s := newTestStore(t)

	first := types.Annotation{
		FileID:              "call_002",
		FinalClassification: "Potential Customer",
		AnnotationDate:      "2026-08-29 12:00:00",
	}
	if err := s.WriteAnnotations(map[string]types.Annotation{first.FileID: first}); err != nil {
		t.Fatal(err)
	}

	annotations, err := s.ReadAnnotations()
	if err != nil {
		t.Fatal(err)
	}
	second := types.Annotation{
		FileID:              "call_002",
		FinalClassification: "Unnecessary Call",
		FinalCategory:       "Repeat Customer Call",
		AnnotationDate:      "2026-08-30 08:30:00",
	}
	annotations[second.FileID] = second
	if err := s.WriteAnnotations(annotations); err != nil {
		t.Fatal(err)
	}

	got, err := s.ReadAnnotations()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d annotations for one file_id, want 1", len(got))
	}
	if !reflect.DeepEqual(got[second.FileID], second) {
		t.Errorf("annotation = %+v, want the second submission %+v", got[second.FileID], second)
	}
}

func TestSplitPartition(t *testing.T) {
	s := newTestStore(t)
	writeSystemOutput(t, s, []types.SystemOutput{
		{FileID: "call_001", Transcript: "agent: hello", Classification: "Potential Customer"},
		{FileID: "call_002", Transcript: "agent: hi", Classification: "Unnecessary Call", Category: "Installation"},
		{FileID: "call_003", Transcript: "agent: hey"},
	})
	if err := s.WriteAnnotations(map[string]types.Annotation{
		"call_002": {FileID: "call_002", FinalClassification: "Unnecessary Call", AnnotationDate: "2026-08-30 09:00:00"},
		"call_003": {FileID: "call_003"}, // no date: still pending
	}); err != nil {
		t.Fatal(err)
	}

	annotated, pending, err := s.Split()
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if len(annotated) != 1 || annotated[0].FileID != "call_002" {
		t.Errorf("annotated = %+v, want only call_002", annotated)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %+v, want call_001 and call_003", pending)
	}

	// each row in exactly one side
	seen := map[string]int{}
	for _, r := range annotated {
		seen[r.FileID]++
	}
	for _, r := range pending {
		seen[r.FileID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("file_id %s appears %d times across splits", id, n)
		}
	}
}

func TestSplitKeepsOnDiskOrder(t *testing.T) {
	s := newTestStore(t)
	writeSystemOutput(t, s, []types.SystemOutput{
		{FileID: "z_call"},
		{FileID: "a_call"},
		{FileID: "m_call"},
	})

	_, pending, err := s.Split()
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range pending {
		ids = append(ids, r.FileID)
	}
	want := []string{"z_call", "a_call", "m_call"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("pending order = %v, want on-disk order %v", ids, want)
	}
}

func TestMissingFilesAreEmptyTables(t *testing.T) {
	s := newTestStore(t)

	outputs, err := s.ReadSystemOutput()
	if err != nil {
		t.Fatalf("ReadSystemOutput: %v", err)
	}
	if len(outputs) != 0 {
		t.Errorf("outputs = %+v, want empty", outputs)
	}

	annotations, err := s.ReadAnnotations()
	if err != nil {
		t.Fatalf("ReadAnnotations: %v", err)
	}
	if len(annotations) != 0 {
		t.Errorf("annotations = %+v, want empty", annotations)
	}
}

func TestQuotedFieldsSurviveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := types.Annotation{
		FileID:         "call_004",
		ExclusionNote:  `audio contains "beeps", commas, and` + "\nnewlines",
		AnnotationDate: "2026-08-30 11:00:00",
	}
	if err := s.WriteAnnotations(map[string]types.Annotation{want.FileID: want}); err != nil {
		t.Fatal(err)
	}
	got, err := s.ReadAnnotations()
	if err != nil {
		t.Fatal(err)
	}
	if got[want.FileID].ExclusionNote != want.ExclusionNote {
		t.Errorf("exclusion note = %q, want %q", got[want.FileID].ExclusionNote, want.ExclusionNote)
	}
}
