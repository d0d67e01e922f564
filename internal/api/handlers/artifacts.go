package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/learnableai/readassist/internal/session"
)

// ArtifactHandler produces the derived learning artifacts: simplified text,
// quizzes, lesson plans and illustration search results.
type ArtifactHandler struct {
	store   *session.Store
	actions *session.Actions
}

func NewArtifactHandler(store *session.Store, actions *session.Actions) *ArtifactHandler {
	return &ArtifactHandler{store: store, actions: actions}
}

// Simplify rewrites the session document in dyslexia-friendly language and
// replaces the loaded text with the result.
func (h *ArtifactHandler) Simplify(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.actions.Simplify(r.Context(), s); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

type quizRequest struct {
	Difficulty string `json:"difficulty"`
}

func (h *ArtifactHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quiz, err := h.actions.GenerateQuiz(r.Context(), s, req.Difficulty)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

type planRequest struct {
	Topic    string `json:"topic"`
	Grade    string `json:"grade"`
	Duration string `json:"duration"`
}

func (h *ArtifactHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	plan, err := h.actions.GeneratePlan(r.Context(), s, req.Topic, req.Grade, req.Duration)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type imageSearchRequest struct {
	Count int `json:"count"`
}

// SearchImages finds illustrations for the loaded text. The query is seeded
// from the head of the document, not from client input.
func (h *ArtifactHandler) SearchImages(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req imageSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	photos, err := h.actions.SearchImages(r.Context(), s, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"photos": photos})
}
