package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/learnableai/readassist/internal/document"
	"github.com/learnableai/readassist/internal/session"
)

const maxUploadBytes = 20 << 20 // 20 MB

// DocumentHandler loads reading material into a session, from either a
// pasted body or an uploaded file.
type DocumentHandler struct {
	store *session.Store
}

func NewDocumentHandler(store *session.Store) *DocumentHandler {
	return &DocumentHandler{store: store}
}

type pasteRequest struct {
	Text string `json:"text"`
}

// Paste accepts raw text. It goes through the same ingestion path as a .txt
// upload: the text is kept verbatim apart from edge trimming, so markup
// characters survive as ordinary tokens. Only PDF extraction strips markup.
func (h *DocumentHandler) Paste(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req pasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw := []byte(req.Text)
	doc, err := document.Ingest(bytes.NewReader(raw), int64(len(raw)), "text/plain")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.SetDocument(doc)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Upload accepts a multipart file under the "file" field. The content type
// comes from the part header, falling back to the filename extension.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = filepath.Ext(header.Filename)
	}

	doc, err := document.Ingest(file, header.Size, contentType)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.SetDocument(doc)
	writeJSON(w, http.StatusOK, s.Snapshot())
}
