// Package store reads and writes the results and annotations tables backing
// the review tool. Both are flat CSV files; the annotations file is rewritten
// whole on every submission (last write wins, single-operator tool).
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"call-triage-go/internal/types"
)

var (
	systemHeader    = []string{"file_id", "transcript", "classification", "category", "justification"}
	annotatedHeader = []string{"file_id", "final_classification", "final_category", "excluded", "exclusion_note", "annotation_date"}
)

type Store struct {
	SystemPath    string
	AnnotatedPath string
}

func New(systemPath, annotatedPath string) *Store {
	return &Store{SystemPath: systemPath, AnnotatedPath: annotatedPath}
}

// ReadSystemOutput loads all results rows in on-disk order. A missing file is
// an empty table, not an error.
func (s *Store) ReadSystemOutput() ([]types.SystemOutput, error) {
	rows, idx, err := readTable(s.SystemPath)
	if err != nil || rows == nil {
		return nil, err
	}
	out := make([]types.SystemOutput, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.SystemOutput{
			FileID:         field(row, idx, "file_id"),
			Transcript:     field(row, idx, "transcript"),
			Classification: field(row, idx, "classification"),
			Category:       field(row, idx, "category"),
			Justification:  field(row, idx, "justification"),
		})
	}
	return out, nil
}

// ReadAnnotations loads the annotations table keyed by file_id.
func (s *Store) ReadAnnotations() (map[string]types.Annotation, error) {
	rows, idx, err := readTable(s.AnnotatedPath)
	if err != nil {
		return nil, err
	}
	annotations := make(map[string]types.Annotation, len(rows))
	for _, row := range rows {
		a := types.Annotation{
			FileID:              field(row, idx, "file_id"),
			FinalClassification: field(row, idx, "final_classification"),
			FinalCategory:       field(row, idx, "final_category"),
			Excluded:            field(row, idx, "excluded") == "True",
			ExclusionNote:       field(row, idx, "exclusion_note"),
			AnnotationDate:      field(row, idx, "annotation_date"),
		}
		annotations[a.FileID] = a
	}
	return annotations, nil
}

// WriteAnnotations rewrites the whole annotations file: header plus one row
// per annotation, file_id order, booleans as the literals "True"/"False".
func (s *Store) WriteAnnotations(annotations map[string]types.Annotation) error {
	f, err := os.Create(s.AnnotatedPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(annotatedHeader); err != nil {
		return err
	}
	ids := make([]string, 0, len(annotations))
	for id := range annotations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		a := annotations[id]
		excluded := "False"
		if a.Excluded {
			excluded = "True"
		}
		if err := w.Write([]string{
			a.FileID,
			a.FinalClassification,
			a.FinalCategory,
			excluded,
			a.ExclusionNote,
			a.AnnotationDate,
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// MergedRow is one results row joined with its annotation (empty if none).
type MergedRow struct {
	types.SystemOutput
	FinalClassification string
	FinalCategory       string
	Excluded            bool
	ExclusionNote       string
	AnnotationDate      string
}

// Split joins results with annotations and partitions them: rows whose
// annotation carries a non-empty date are annotated, everything else is
// pending. Every row lands in exactly one side.
func (s *Store) Split() (annotated, pending []MergedRow, err error) {
	outputs, err := s.ReadSystemOutput()
	if err != nil {
		return nil, nil, err
	}
	annotations, err := s.ReadAnnotations()
	if err != nil {
		return nil, nil, err
	}

	for _, out := range outputs {
		a, ok := annotations[out.FileID]
		if !ok {
			a = types.Annotation{FileID: out.FileID}
		}
		row := MergedRow{
			SystemOutput:        out,
			FinalClassification: a.FinalClassification,
			FinalCategory:       a.FinalCategory,
			Excluded:            a.Excluded,
			ExclusionNote:       a.ExclusionNote,
			AnnotationDate:      a.AnnotationDate,
		}
		if a.AnnotationDate != "" {
			annotated = append(annotated, row)
		} else {
			pending = append(pending, row)
		}
	}
	return annotated, pending, nil
}

// readTable returns the data rows and a header-name index, or (nil, nil, nil)
// when the file does not exist.
func readTable(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	idx := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		idx[name] = i
	}
	return records[1:], idx, nil
}

func field(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
