package session

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/learnableai/readassist/internal/cache"
	"github.com/learnableai/readassist/internal/document"
	"github.com/learnableai/readassist/internal/generative"
	"github.com/learnableai/readassist/internal/images"
	"github.com/learnableai/readassist/internal/playback"
	"github.com/learnableai/readassist/internal/speech"
	"github.com/learnableai/readassist/pkg/segment"
)

// ErrLocalPauseUnsupported is returned when pause is requested on the local
// speech path; the on-device engine can only be cancelled, not suspended.
var ErrLocalPauseUnsupported = errors.New("pause is not supported for local speech playback")

// imageQueryBytes is how much of the document seeds the image search query.
const imageQueryBytes = 100

// Actions drives session state transitions that involve external
// collaborators. All remote failures surface to the caller; nothing is
// retried automatically.
type Actions struct {
	synth     speech.Synthesizer // nil when no remote credential is configured
	local     *speech.LocalEngine
	gen       *generative.Service
	imgs      *images.Client
	artifacts *cache.ArtifactCache
}

func NewActions(synth speech.Synthesizer, local *speech.LocalEngine, gen *generative.Service, imgs *images.Client, artifacts *cache.ArtifactCache) *Actions {
	return &Actions{
		synth:     synth,
		local:     local,
		gen:       gen,
		imgs:      imgs,
		artifacts: artifacts,
	}
}

// RemoteSpeech reports whether the remote synthesis strategy is active. Only
// the remote strategy yields a seekable asset, so only it supports
// duration-based highlighting and audio download.
func (a *Actions) RemoteSpeech() bool {
	return a.synth != nil
}

// AcquireSpeech obtains an audio rendition of the session's document. With a
// remote credential it issues one synthesis call carrying the full text;
// otherwise it readies the local fallback engine. A newer acquisition
// started while this one is in flight wins: the stale result is discarded
// when it resolves.
func (a *Actions) AcquireSpeech(ctx context.Context, s *Session) error {
	text, voice := s.SpeechInput()
	if text == "" {
		return ErrNoDocument
	}

	epoch := s.Engine().BeginAcquire()

	if a.synth == nil {
		// Local fallback: no synthesis round-trip, no asset, no duration.
		s.Engine().CompleteAcquire(epoch, 0, 0, nil)
		return nil
	}

	res, err := a.synth.Synthesize(ctx, speech.Request{Text: text, Voice: voice})
	if err != nil {
		s.Engine().FailAcquire(epoch)
		return err
	}

	// The asset is attached inside the epoch-guarded commit, so a slower
	// superseded acquisition can never install its audio over the winner's.
	tokenCount := segment.Count(text)
	committed := s.Engine().CompleteAcquire(epoch, res.Duration, tokenCount, func() {
		s.AttachAsset(speech.NewAsset(res))
	})
	if !committed {
		// Superseded while in flight; drop the result.
		slog.Debug("discarding superseded synthesis result", "session", s.ID)
	}
	return nil
}

// Play starts or resumes playback. On the local path it launches the
// utterance and finishes the playback state when the engine's done event
// arrives.
func (a *Actions) Play(s *Session) error {
	if s.Engine().Seekable() {
		return s.Engine().Play()
	}

	text, voice := s.SpeechInput()
	if text == "" {
		return ErrNoDocument
	}

	ctx, cancel := context.WithCancel(context.Background())
	utt, err := a.local.Speak(ctx, text, voice)
	if err != nil {
		cancel()
		return err
	}
	if err := s.Engine().Play(); err != nil {
		cancel()
		return err
	}
	s.setLocalCancel(cancel)

	engine := s.Engine()
	go func() {
		if err := <-utt.Done; err != nil {
			slog.Debug("local utterance ended", "session", s.ID, "error", err)
		}
		engine.Finish()
	}()
	return nil
}

// Pause suspends playback, keeping the cursor where it is. Local playback
// cannot pause.
func (a *Actions) Pause(s *Session) error {
	if !s.Engine().Seekable() && s.Engine().State() == playback.StatePlaying {
		return ErrLocalPauseUnsupported
	}
	return s.Engine().Pause()
}

// Stop halts playback, zeroing position and cursor, and kills any local
// utterance.
func (a *Actions) Stop(s *Session) error {
	s.stopLocal()
	return s.Engine().Stop()
}

// Simplify rewrites the session's document through the generative service
// and installs the result as a new document (resetting playback, same as
// any document replacement).
func (a *Actions) Simplify(ctx context.Context, s *Session) error {
	doc := s.Document()
	if doc.Empty() {
		return ErrNoDocument
	}

	simplified, err := a.gen.Simplify(ctx, doc.RawText)
	if err != nil {
		return err
	}
	s.SetDocument(document.Document{RawText: simplified})
	return nil
}

// GenerateQuiz derives a quiz from the session's document, consulting the
// artifact cache first.
func (a *Actions) GenerateQuiz(ctx context.Context, s *Session, difficulty string) (*generative.Quiz, error) {
	doc := s.Document()
	if doc.Empty() {
		return nil, ErrNoDocument
	}
	if difficulty == "" {
		difficulty = "easy"
	}

	key := cache.Key("quiz", doc.RawText, difficulty)
	var cached generative.Quiz
	if a.artifacts.Get(ctx, key, &cached) {
		s.SetQuiz(&cached)
		return &cached, nil
	}

	quiz, err := a.gen.GenerateQuiz(ctx, doc.RawText, difficulty)
	if err != nil {
		return nil, err
	}
	a.artifacts.Set(ctx, key, quiz)
	s.SetQuiz(quiz)
	return quiz, nil
}

// GeneratePlan creates a lesson plan and remembers it on the session for
// export.
func (a *Actions) GeneratePlan(ctx context.Context, s *Session, topic, grade, duration string) (*generative.LessonPlan, error) {
	key := cache.Key("plan", topic, grade, duration)
	var cached generative.LessonPlan
	if a.artifacts.Get(ctx, key, &cached) {
		s.SetPlan(&cached)
		return &cached, nil
	}

	plan, err := a.gen.GeneratePlan(ctx, topic, grade, duration)
	if err != nil {
		return nil, err
	}
	a.artifacts.Set(ctx, key, plan)
	s.SetPlan(plan)
	return plan, nil
}

// SearchImages finds illustrative photos for the session's document. The
// query is the head of the document text.
func (a *Actions) SearchImages(ctx context.Context, s *Session, count int) ([]images.Photo, error) {
	doc := s.Document()
	if doc.Empty() {
		return nil, ErrNoDocument
	}
	if count <= 0 {
		count = 4
	}

	query := segment.Preview(doc.RawText, imageQueryBytes)
	key := cache.Key("images", query, strconv.Itoa(count))
	var cached []images.Photo
	if a.artifacts.Get(ctx, key, &cached) {
		s.SetPhotos(cached)
		return cached, nil
	}

	photos, err := a.imgs.Search(ctx, query, count)
	if err != nil {
		return nil, err
	}
	a.artifacts.Set(ctx, key, photos)
	s.SetPhotos(photos)
	return photos, nil
}
