// Package review serves the human annotation web app: a pending list, an
// annotated list, one submission action, and an Excel export.
package review

import (
	_ "embed"
	"html/template"
	"net/http"
	"time"

	"call-triage-go/internal/config"
	"call-triage-go/internal/logger"
	"call-triage-go/internal/store"
	"call-triage-go/internal/types"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type App struct {
	Store *store.Store
}

func NewApp(s *store.Store) *App {
	return &App{Store: s}
}

// Routes registers the review surface on a fresh mux.
func (a *App) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/pending", http.StatusFound)
	})
	mux.HandleFunc("/pending", a.handlePending)
	mux.HandleFunc("/annotated", a.handleAnnotated)
	mux.HandleFunc("/annotate", a.handleAnnotate)
	mux.HandleFunc("/export.xlsx", a.handleExport)
	return mux
}

type viewData struct {
	Pending         []store.MergedRow
	Annotated       []store.MergedRow
	ActiveTab       string
	Classifications []config.Choice
	Categories      []config.Choice
}

func (a *App) handlePending(w http.ResponseWriter, r *http.Request) {
	log := logger.New().WithRequest(r)
	_, pending, err := a.Store.Split()
	if err != nil {
		log.WithError(err).Error("load review data")
		http.Error(w, "failed to load review data", http.StatusInternalServerError)
		return
	}
	a.render(w, viewData{Pending: pending, ActiveTab: "pending"})
}

func (a *App) handleAnnotated(w http.ResponseWriter, r *http.Request) {
	log := logger.New().WithRequest(r)
	annotated, _, err := a.Store.Split()
	if err != nil {
		log.WithError(err).Error("load review data")
		http.Error(w, "failed to load review data", http.StatusInternalServerError)
		return
	}
	a.render(w, viewData{Annotated: annotated, ActiveTab: "annotated"})
}

// handleAnnotate stores one reviewer decision. file_id is the only required
// field; everything else defaults to empty/false. The server stamps
// annotation_date, which is what moves the row to the annotated list, and the
// submission fully replaces any prior annotation for the same file_id.
func (a *App) handleAnnotate(w http.ResponseWriter, r *http.Request) {
	log := logger.New().WithRequest(r)
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fileID := r.FormValue("file_id")
	if fileID == "" {
		http.Error(w, "missing file_id", http.StatusBadRequest)
		return
	}

	annotations, err := a.Store.ReadAnnotations()
	if err != nil {
		log.WithError(err).Error("read annotations")
		http.Error(w, "failed to read annotations", http.StatusInternalServerError)
		return
	}
	if annotations == nil {
		annotations = map[string]types.Annotation{}
	}
	annotations[fileID] = types.Annotation{
		FileID:              fileID,
		FinalClassification: r.FormValue("final_classification"),
		FinalCategory:       r.FormValue("final_category"),
		Excluded:            r.FormValue("excluded") == "on",
		ExclusionNote:       r.FormValue("exclusion_note"),
		AnnotationDate:      time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := a.Store.WriteAnnotations(annotations); err != nil {
		log.WithError(err).Error("write annotations")
		http.Error(w, "failed to write annotations", http.StatusInternalServerError)
		return
	}
	log.WithField("file_id", fileID).Info("annotation saved")
	http.Redirect(w, r, "/pending", http.StatusFound)
}

func (a *App) render(w http.ResponseWriter, data viewData) {
	data.Classifications = config.ClassificationChoices
	data.Categories = config.CategoryChoices
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		logger.NewComponent("review").WithError(err).Error("render template")
	}
}
