package handlers

import (
	"fmt"
	"net/http"

	"github.com/learnableai/readassist/internal/export"
	"github.com/learnableai/readassist/internal/session"
)

// ExportHandler serves downloadable copies of the session's text, audio and
// lesson plan.
type ExportHandler struct {
	store *session.Store
}

func NewExportHandler(store *session.Store) *ExportHandler {
	return &ExportHandler{store: store}
}

func (h *ExportHandler) Text(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	doc := s.Document()
	if doc.Empty() {
		writeDomainError(w, session.ErrNoDocument)
		return
	}

	writeAttachment(w, export.TextFilename, "text/plain; charset=utf-8", []byte(doc.RawText))
}

func (h *ExportHandler) Audio(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	asset, err := s.Asset()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeAttachment(w, export.AudioFilename, asset.ContentType, asset.Audio)
}

func (h *ExportHandler) Plan(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	plan := s.Plan()
	if plan == nil {
		writeError(w, http.StatusNotFound, "no lesson plan generated")
		return
	}

	writeAttachment(w, export.PlanFilename(plan.Topic), "text/markdown; charset=utf-8", export.PlanMarkdown(plan))
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
