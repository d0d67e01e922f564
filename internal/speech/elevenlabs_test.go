package speech

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSynthesizeSuccess(t *testing.T) {
	audio := []byte("mp3-bytes-go-here")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if !strings.HasPrefix(r.URL.Path, "/v1/text-to-speech/") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "test-key" {
			t.Errorf("xi-api-key = %q", got)
		}

		var body synthesisBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Text != "Hello there." {
			t.Errorf("text = %q", body.Text)
		}
		if body.ModelID != "eleven_multilingual_v2" {
			t.Errorf("model_id = %q", body.ModelID)
		}
		if body.VoiceSettings.Stability != 0.75 || body.VoiceSettings.Style != 0.5 {
			t.Errorf("voice settings = %+v", body.VoiceSettings)
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer srv.Close()

	e := NewElevenLabs(ElevenLabsConfig{APIKey: "test-key", BaseURL: srv.URL})
	res, err := e.Synthesize(context.Background(), Request{
		Text:  "Hello there.",
		Voice: DefaultVoiceConfig(),
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(res.Audio) != string(audio) {
		t.Errorf("audio mismatch")
	}
	if res.ContentType != "audio/mpeg" {
		t.Errorf("content type = %q", res.ContentType)
	}
	if res.Duration <= 0 {
		t.Errorf("duration = %v, want > 0", res.Duration)
	}
}

func TestSynthesizeUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := NewElevenLabs(ElevenLabsConfig{APIKey: "bad", BaseURL: srv.URL})
	_, err := e.Synthesize(context.Background(), Request{Text: "hi", Voice: DefaultVoiceConfig()})

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("err = %v, want *SynthesisError", err)
	}
	if synthErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", synthErr.Status)
	}
}

func TestSynthesizeUsesSelectedVoiceID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	e := NewElevenLabs(ElevenLabsConfig{APIKey: "k", BaseURL: srv.URL})
	voice := DefaultVoiceConfig()
	voice.Voice = "charlie"
	if _, err := e.Synthesize(context.Background(), Request{Text: "hi", Voice: voice}); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}

	if want := "/v1/text-to-speech/IKne3meq5aSn9XLyUdCD"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
}

func TestVoiceConfigClamp(t *testing.T) {
	v := VoiceConfig{Voice: "nosuch", Speed: 9, Pitch: 0.1, Tone: "angry", PauseLength: -2}.Clamp()
	if v.Voice != "aria" {
		t.Errorf("voice = %q, want aria", v.Voice)
	}
	if v.Speed != 2.0 {
		t.Errorf("speed = %v, want 2.0", v.Speed)
	}
	if v.Pitch != 0.5 {
		t.Errorf("pitch = %v, want 0.5", v.Pitch)
	}
	if v.Tone != "calm" {
		t.Errorf("tone = %q, want calm", v.Tone)
	}
	if v.PauseLength != 0 {
		t.Errorf("pause length = %v, want 0", v.PauseLength)
	}

	in := VoiceConfig{Voice: "sarah", Speed: 1.5, Pitch: 1.2, Tone: "playful", PauseLength: 0.5}
	if got := in.Clamp(); got != in {
		t.Errorf("in-range config changed: %+v", got)
	}
}

func TestEstimateMP3Duration(t *testing.T) {
	// 16000 bytes at 128 kbit/s is exactly one second.
	if got := EstimateMP3Duration(make([]byte, 16000)); got != time.Second {
		t.Errorf("duration = %v, want 1s", got)
	}
	if got := EstimateMP3Duration(nil); got != 0 {
		t.Errorf("duration of empty payload = %v, want 0", got)
	}
}

func TestAssetRelease(t *testing.T) {
	a := NewAsset(&Result{Audio: []byte("abc"), ContentType: "audio/mpeg", Duration: time.Second})
	if a.ID.String() == "" || len(a.Audio) != 3 {
		t.Fatalf("unexpected asset %+v", a)
	}
	a.Release()
	if a.Audio != nil || a.Duration != 0 {
		t.Errorf("release did not drop backing audio: %+v", a)
	}

	var nilAsset *Asset
	nilAsset.Release()
}
