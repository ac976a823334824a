package review

import (
	"net/http"

	"github.com/xuri/excelize/v2"

	"call-triage-go/internal/logger"
	"call-triage-go/internal/store"
)

// handleExport streams the merged review tables as an Excel workbook, one
// sheet per split, for reporting outside the tool.
func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	log := logger.New().WithRequest(r)
	annotated, pending, err := a.Store.Split()
	if err != nil {
		log.WithError(err).Error("load review data")
		http.Error(w, "failed to load review data", http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := buildWorkbook(f, annotated, pending); err != nil {
		log.WithError(err).Error("build workbook")
		http.Error(w, "failed to build workbook", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="call_review.xlsx"`)
	if err := f.Write(w); err != nil {
		log.WithError(err).Error("write workbook")
	}
}

func buildWorkbook(f *excelize.File, annotated, pending []store.MergedRow) error {
	if err := writeSheet(f, "Annotated", annotated); err != nil {
		return err
	}
	if err := writeSheet(f, "Pending", pending); err != nil {
		return err
	}
	// drop the default sheet once the real ones exist
	return f.DeleteSheet("Sheet1")
}

func writeSheet(f *excelize.File, name string, rows []store.MergedRow) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	header := []interface{}{
		"file_id", "transcript", "classification", "category", "justification",
		"final_classification", "final_category", "excluded", "exclusion_note", "annotation_date",
	}
	if err := setRow(f, name, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		excluded := "False"
		if row.Excluded {
			excluded = "True"
		}
		values := []interface{}{
			row.FileID, row.Transcript, row.Classification, row.Category, row.Justification,
			row.FinalClassification, row.FinalCategory, excluded, row.ExclusionNote, row.AnnotationDate,
		}
		if err := setRow(f, name, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
