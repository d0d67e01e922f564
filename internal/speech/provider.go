package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VoiceConfig selects the voice identity and delivery for one synthesis
// request. It is immutable during a single call.
type VoiceConfig struct {
	Voice       string  `json:"voice"`
	Speed       float64 `json:"speed"`
	Pitch       float64 `json:"pitch"`
	Tone        string  `json:"tone"`
	PauseLength float64 `json:"pause_length"`
}

// DefaultVoiceConfig mirrors the reader's initial voice settings.
func DefaultVoiceConfig() VoiceConfig {
	return VoiceConfig{
		Voice:       "aria",
		Speed:       1.0,
		Pitch:       1.0,
		Tone:        "calm",
		PauseLength: 0.5,
	}
}

// Clamp forces speed and pitch into their supported [0.5, 2.0] range and
// falls back to known voice and tone ids.
func (v VoiceConfig) Clamp() VoiceConfig {
	v.Speed = clampFloat(v.Speed, 0.5, 2.0)
	v.Pitch = clampFloat(v.Pitch, 0.5, 2.0)
	if _, ok := voiceIDs[v.Voice]; !ok {
		v.Voice = "aria"
	}
	if !knownTone(v.Tone) {
		v.Tone = "calm"
	}
	if v.PauseLength < 0 {
		v.PauseLength = 0
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

// Request holds the parameters for one synthesis call. The full text is sent
// in a single request; there is no chunking or streaming.
type Request struct {
	Text  string
	Voice VoiceConfig
}

// Result is a finished remote synthesis: a seekable, duration-bearing audio
// asset.
type Result struct {
	Audio       []byte
	ContentType string
	Duration    time.Duration
}

// Synthesizer is the remote text-to-speech backend.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// SynthesisError reports a non-success response from the synthesis service,
// carrying the upstream HTTP status.
type SynthesisError struct {
	Status int
	Detail string
}

func (e *SynthesisError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("speech synthesis unavailable (status %d)", e.Status)
	}
	return fmt.Sprintf("speech synthesis unavailable (status %d): %s", e.Status, e.Detail)
}

// Asset is a held playable audio resource. A session owns at most one;
// storing a new one releases the predecessor.
type Asset struct {
	ID          uuid.UUID
	Audio       []byte
	ContentType string
	Duration    time.Duration
}

// NewAsset wraps a synthesis result as an addressable asset.
func NewAsset(res *Result) *Asset {
	return &Asset{
		ID:          uuid.New(),
		Audio:       res.Audio,
		ContentType: res.ContentType,
		Duration:    res.Duration,
	}
}

// Release drops the asset's backing audio so the storage is reclaimable
// even while stale references to the Asset itself remain.
func (a *Asset) Release() {
	if a == nil {
		return
	}
	a.Audio = nil
	a.Duration = 0
}
