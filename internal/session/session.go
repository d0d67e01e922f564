package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/learnableai/readassist/internal/document"
	"github.com/learnableai/readassist/internal/generative"
	"github.com/learnableai/readassist/internal/images"
	"github.com/learnableai/readassist/internal/playback"
	"github.com/learnableai/readassist/internal/speech"
	"github.com/learnableai/readassist/pkg/segment"
)

var (
	// ErrNoDocument is returned by actions that need ingested text.
	ErrNoDocument = errors.New("session has no document")

	// ErrNoAudio is returned when no downloadable audio asset is held.
	ErrNoAudio = errors.New("session has no audio")
)

// StyleConfig is the presentation state for rendering the document. Pure
// display data: the server only stores, clamps and returns it.
type StyleConfig struct {
	FontSizePx     int     `json:"font_size_px"`
	LetterSpacing  float64 `json:"letter_spacing"`
	LineHeight     float64 `json:"line_height"`
	DyslexicFont   bool    `json:"dyslexic_font"`
	HighlightColor string  `json:"highlight_color"`
	HighlightWords bool    `json:"highlight_words"`
}

// DefaultStyle mirrors the reader's initial typography settings.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		FontSizePx:     21,
		LetterSpacing:  1.2,
		LineHeight:     1.8,
		DyslexicFont:   true,
		HighlightColor: "#3b82f6",
		HighlightWords: true,
	}
}

// Clamp forces numeric fields into their supported ranges.
func (s StyleConfig) Clamp() StyleConfig {
	s.FontSizePx = clampInt(s.FontSizePx, 12, 32)
	s.LetterSpacing = clampFloat(s.LetterSpacing, 1.0, 3.0)
	s.LineHeight = clampFloat(s.LineHeight, 1.2, 2.5)
	if s.HighlightColor == "" {
		s.HighlightColor = DefaultStyle().HighlightColor
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Session is one in-memory reading session: the current document, its token
// sequence, presentation and voice settings, the playback engine, the held
// audio asset, and the derived-artifact caches. All mutation goes through
// the named methods here and the action functions in this package; nothing
// is persisted.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	doc      document.Document
	words    []string
	style    StyleConfig
	voice    speech.VoiceConfig
	engine   *playback.Engine
	asset    *speech.Asset
	quiz     *generative.Quiz
	plan     *generative.LessonPlan
	photos   []images.Photo
	lastSeen time.Time

	localCancel context.CancelFunc
}

func New() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now,
		style:     DefaultStyle(),
		voice:     speech.DefaultVoiceConfig(),
		engine:    playback.NewEngine(),
		lastSeen:  now,
	}
}

// Engine exposes the playback engine; its own locking makes it safe to use
// outside the session lock.
func (s *Session) Engine() *playback.Engine {
	return s.engine
}

// SetDocument replaces the session's document. The playback engine is reset
// and the held audio released BEFORE the new text is segmented, so no
// cursor can reference the old token sequence against the new document.
func (s *Session) SetDocument(doc document.Document) {
	s.engine.Reset()
	s.stopLocal()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset != nil {
		s.asset.Release()
		s.asset = nil
	}
	s.doc = doc
	s.words = segment.Words(doc.RawText)
	s.quiz = nil
	s.photos = nil
}

// Document returns the current document.
func (s *Session) Document() document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Words returns the token sequence derived from the current document. The
// returned slice is shared and must not be mutated.
func (s *Session) Words() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.words
}

// UpdateStyle clamps and stores new presentation settings.
func (s *Session) UpdateStyle(style StyleConfig) StyleConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = style.Clamp()
	return s.style
}

// UpdateVoice clamps and stores new voice settings. They take effect on the
// next speech acquisition.
func (s *Session) UpdateVoice(voice speech.VoiceConfig) speech.VoiceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voice = voice.Clamp()
	return s.voice
}

// SpeechInput returns what the next synthesis call needs: the document text
// and the voice settings frozen for that call.
func (s *Session) SpeechInput() (string, speech.VoiceConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.RawText, s.voice
}

// AttachAsset stores a new audio asset, releasing the previous one.
func (s *Session) AttachAsset(a *speech.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset != nil {
		s.asset.Release()
	}
	s.asset = a
}

// Asset returns the held audio asset, or ErrNoAudio when none exists (the
// local speech path produces none).
func (s *Session) Asset() (*speech.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil || s.asset.Audio == nil {
		return nil, ErrNoAudio
	}
	return s.asset, nil
}

func (s *Session) SetQuiz(q *generative.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = q
}

func (s *Session) Quiz() *generative.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quiz
}

func (s *Session) SetPlan(p *generative.LessonPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = p
}

func (s *Session) Plan() *generative.LessonPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

func (s *Session) SetPhotos(p []images.Photo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = p
}

func (s *Session) Photos() []images.Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photos
}

// View is a read snapshot for rendering.
type View struct {
	ID        uuid.UUID          `json:"id"`
	Text      string             `json:"text"`
	WordCount int                `json:"word_count"`
	Style     StyleConfig        `json:"style"`
	Voice     speech.VoiceConfig `json:"voice"`
	Playback  PlaybackView       `json:"playback"`
	HasAudio  bool               `json:"has_audio"`
	HasQuiz   bool               `json:"has_quiz"`
	HasPlan   bool               `json:"has_plan"`
	Images    int                `json:"images"`
}

// PlaybackView is the playback portion of a session snapshot.
type PlaybackView struct {
	State           string  `json:"state"`
	Cursor          int     `json:"cursor"`
	ElapsedSeconds  float64 `json:"elapsed_seconds"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Snapshot assembles a consistent view of the session for rendering.
func (s *Session) Snapshot() View {
	u := s.engine.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	var duration float64
	if s.asset != nil {
		duration = s.asset.Duration.Seconds()
	}

	return View{
		ID:        s.ID,
		Text:      s.doc.RawText,
		WordCount: len(s.words),
		Style:     s.style,
		Voice:     s.voice,
		Playback: PlaybackView{
			State:           u.State.String(),
			Cursor:          u.Cursor,
			ElapsedSeconds:  u.Elapsed.Seconds(),
			DurationSeconds: duration,
		},
		HasAudio: s.asset != nil && s.asset.Audio != nil,
		HasQuiz:  s.quiz != nil,
		HasPlan:  s.plan != nil,
		Images:   len(s.photos),
	}
}

// Close releases everything the session holds. Called on delete and expiry.
func (s *Session) Close() {
	s.engine.Reset()
	s.stopLocal()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset != nil {
		s.asset.Release()
		s.asset = nil
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// setLocalCancel stores the kill switch for a running local utterance,
// cancelling any previous one first.
func (s *Session) setLocalCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	prev := s.localCancel
	s.localCancel = cancel
	s.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// stopLocal kills the running local utterance, if any.
func (s *Session) stopLocal() {
	s.mu.Lock()
	cancel := s.localCancel
	s.localCancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
