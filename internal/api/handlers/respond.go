package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/learnableai/readassist/internal/document"
	"github.com/learnableai/readassist/internal/generative"
	"github.com/learnableai/readassist/internal/playback"
	"github.com/learnableai/readassist/internal/session"
	"github.com/learnableai/readassist/internal/speech"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps the service error taxonomy onto HTTP statuses.
// Upstream synthesis failures carry the remote status so a client can tell
// a bad credential from an outage.
func writeDomainError(w http.ResponseWriter, err error) {
	var synthErr *speech.SynthesisError
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, document.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, document.ErrExtractionFailure):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &synthErr):
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":           synthErr.Error(),
			"upstream_status": synthErr.Status,
		})
	case errors.Is(err, generative.ErrServiceUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, playback.ErrInvalidTransition),
		errors.Is(err, session.ErrLocalPauseUnsupported):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNoDocument),
		errors.Is(err, session.ErrNoAudio):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// sessionFromRequest resolves the {id} route parameter against the store.
func sessionFromRequest(r *http.Request, store *session.Store) (*session.Session, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, session.ErrNotFound
	}
	return store.Get(id)
}
