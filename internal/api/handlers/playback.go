package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/learnableai/readassist/internal/playback"
	"github.com/learnableai/readassist/internal/session"
	"github.com/learnableai/readassist/internal/speech"
)

// PlaybackHandler drives speech acquisition and the playback state machine,
// and streams cursor updates to the reader view.
type PlaybackHandler struct {
	store   *session.Store
	actions *session.Actions
}

func NewPlaybackHandler(store *session.Store, actions *session.Actions) *PlaybackHandler {
	return &PlaybackHandler{store: store, actions: actions}
}

// Voices lists the selectable narration voices and tones.
func (h *PlaybackHandler) Voices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"voices": speech.Voices(),
		"tones":  speech.Tones(),
	})
}

// Acquire synthesizes audio for the session's current document. The call
// blocks until synthesis finishes or fails; a newer acquisition supersedes
// this one and its result is discarded.
func (h *PlaybackHandler) Acquire(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.actions.AcquireSpeech(r.Context(), s); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *PlaybackHandler) Play(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.actions.Play)
}

func (h *PlaybackHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.actions.Pause)
}

func (h *PlaybackHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.actions.Stop)
}

func (h *PlaybackHandler) transition(w http.ResponseWriter, r *http.Request, op func(*session.Session) error) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := op(s); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot().Playback)
}

// State returns the current playback snapshot without transitioning.
func (h *PlaybackHandler) State(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot().Playback)
}

type cursorEvent struct {
	State          string  `json:"state"`
	Cursor         int     `json:"cursor"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

func toCursorEvent(u playback.Update) cursorEvent {
	return cursorEvent{
		State:          u.State.String(),
		Cursor:         u.Cursor,
		ElapsedSeconds: u.Elapsed.Seconds(),
	}
}

// Stream sends playback updates as server-sent events until the client
// disconnects. The first event is the current snapshot, so a late joiner
// immediately sees where the cursor is.
func (h *PlaybackHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, err := sessionFromRequest(r, h.store)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	updates, cancel := s.Engine().Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(u playback.Update) {
		payload, _ := json.Marshal(toCursorEvent(u))
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	send(s.Engine().Snapshot())

	for {
		select {
		case <-r.Context().Done():
			return
		case u, open := <-updates:
			if !open {
				return
			}
			send(u)
		}
	}
}

// Audio serves the held speech asset for the in-browser player.
func (h *PlaybackHandler) Audio(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(asset.Audio)))
	w.WriteHeader(http.StatusOK)
	w.Write(asset.Audio)
}
