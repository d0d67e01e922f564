package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnableai/readassist/internal/session"
	"github.com/learnableai/readassist/internal/speech"
)

// SessionHandler manages the reading-session lifecycle and its style and
// voice preferences.
type SessionHandler struct {
	store *session.Store
}

func NewSessionHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.store.Create()
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, session.ErrNotFound)
		return
	}
	if err := h.store.Delete(id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) UpdateStyle(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var style session.StyleConfig
	if err := json.NewDecoder(r.Body).Decode(&style); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, s.UpdateStyle(style))
}

func (h *SessionHandler) UpdateVoice(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var voice speech.VoiceConfig
	if err := json.NewDecoder(r.Body).Decode(&voice); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, s.UpdateVoice(voice))
}
