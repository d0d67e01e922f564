package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// LocalEngineConfig holds configuration for the on-device fallback engine.
type LocalEngineConfig struct {
	BinPath string // default: "espeak-ng"
}

// LocalEngine speaks text through the machine's espeak-ng engine when no
// remote synthesis credential is configured. It is fire-and-forget: the
// utterance plays on the engine's own output, produces no downloadable
// asset and no known duration, and signals start and end asynchronously.
type LocalEngine struct {
	cfg LocalEngineConfig
}

// NewLocalEngine creates a LocalEngine backed by a local espeak-ng binary.
func NewLocalEngine(cfg LocalEngineConfig) *LocalEngine {
	if cfg.BinPath == "" {
		cfg.BinPath = "espeak-ng"
	}
	return &LocalEngine{cfg: cfg}
}

func (l *LocalEngine) Name() string { return "local-espeak" }

// Utterance is one in-flight local speech request. Started is closed once
// the engine begins speaking; Done receives the terminal error (nil on a
// clean finish) exactly once.
type Utterance struct {
	Started <-chan struct{}
	Done    <-chan error
}

// espeak-ng's neutral defaults; VoiceConfig speed and pitch multipliers are
// mapped onto them.
const (
	espeakBaseWPM   = 175
	espeakBasePitch = 50
)

// Speak starts the utterance and returns immediately. Cancelling ctx kills
// the engine process.
func (l *LocalEngine) Speak(ctx context.Context, text string, voice VoiceConfig) (*Utterance, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("nothing to speak")
	}
	voice = voice.Clamp()

	wpm := int(espeakBaseWPM * voice.Speed)
	pitch := int(espeakBasePitch * voice.Pitch)
	if pitch > 99 {
		pitch = 99
	}

	cmd := exec.CommandContext(ctx, l.cfg.BinPath,
		"-s", strconv.Itoa(wpm),
		"-p", strconv.Itoa(pitch),
		"--stdin",
	)
	cmd.Stdin = strings.NewReader(text)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start local speech engine: %w", err)
	}

	started := make(chan struct{})
	done := make(chan error, 1)
	close(started)

	go func() {
		if err := cmd.Wait(); err != nil {
			done <- fmt.Errorf("local speech engine: %w", err)
			return
		}
		done <- nil
	}()

	return &Utterance{Started: started, Done: done}, nil
}
