package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is the playback lifecycle state of a session.
type State int

const (
	StateIdle State = iota
	StateAcquiring
	StateReady
	StatePlaying
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned when a playback action is not legal in
// the current state.
var ErrInvalidTransition = errors.New("invalid playback transition")

// DefaultSampleInterval is the highlighting sampler cadence.
const DefaultSampleInterval = 100 * time.Millisecond

// Update is a snapshot of playback state published to subscribers after
// every transition and sampler tick.
type Update struct {
	State   State         `json:"state"`
	Cursor  int           `json:"cursor"`
	Elapsed time.Duration `json:"elapsed"`
}

// Engine drives word-synchronized playback for one session. While playing a
// seekable (duration-bearing) asset it runs a sampler at a fixed cadence,
// maps elapsed time to a token index via CursorAt, and publishes the index
// to subscribers. Non-seekable playback (the local speech engine) moves
// through the same states but never starts the sampler, so the cursor
// stays -1.
//
// Acquisitions are serialized with an epoch counter: BeginAcquire bumps the
// epoch, and a completion carrying a stale epoch is discarded. That is how a
// superseded in-flight synthesis is abandoned: its result is ignored, not
// aborted.
type Engine struct {
	mu sync.Mutex

	state      State
	epoch      uint64
	tokenCount int
	total      time.Duration
	cursor     int

	startedAt time.Time
	accrued   time.Duration

	samplerStop chan struct{}

	subs    map[int]chan Update
	nextSub int

	now      func() time.Time
	interval time.Duration
}

// NewEngine returns an idle engine sampling at DefaultSampleInterval.
func NewEngine() *Engine {
	return &Engine{
		state:    StateIdle,
		cursor:   -1,
		subs:     make(map[int]chan Update),
		now:      time.Now,
		interval: DefaultSampleInterval,
	}
}

// BeginAcquire enters Acquiring and returns the epoch the caller must
// present when completing or failing the acquisition.
func (e *Engine) BeginAcquire() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopSamplerLocked()
	e.epoch++
	e.state = StateAcquiring
	e.cursor = -1
	e.accrued = 0
	e.publishLocked()
	return e.epoch
}

// CompleteAcquire commits a finished synthesis. A zero total and tokenCount
// marks a non-seekable (local engine) acquisition. It reports false when the
// epoch is stale, in which case the result must be discarded by the caller.
// A non-nil commit runs under the engine lock, and only when the epoch is
// current, so storing the acquisition's side products (the audio asset)
// cannot interleave with a competing acquisition's commit.
func (e *Engine) CompleteAcquire(epoch uint64, total time.Duration, tokenCount int, commit func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if epoch != e.epoch {
		return false
	}
	e.state = StateReady
	e.total = total
	e.tokenCount = tokenCount
	e.cursor = -1
	e.accrued = 0
	if commit != nil {
		commit()
	}
	e.publishLocked()
	return true
}

// FailAcquire returns the engine to Idle after a failed synthesis. Stale
// epochs are ignored.
func (e *Engine) FailAcquire(epoch uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if epoch != e.epoch {
		return
	}
	e.resetLocked()
	e.publishLocked()
}

// Seekable reports whether the current asset has a known duration, which is
// what duration-based highlighting requires.
func (e *Engine) Seekable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total > 0 && e.tokenCount > 0
}

// Play starts or resumes playback. The sampler starts only for seekable
// assets.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateReady, StatePaused, StateStopped:
	default:
		return fmt.Errorf("%w: play from %s", ErrInvalidTransition, e.state)
	}

	e.state = StatePlaying
	e.startedAt = e.now()
	if e.total > 0 && e.tokenCount > 0 {
		e.startSamplerLocked()
	}
	e.publishLocked()
	return nil
}

// Pause suspends playback, retaining elapsed time and cursor.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying {
		return fmt.Errorf("%w: pause from %s", ErrInvalidTransition, e.state)
	}

	e.accrued += e.now().Sub(e.startedAt)
	e.state = StatePaused
	e.stopSamplerLocked()
	e.publishLocked()
	return nil
}

// Stop halts playback, zeroing elapsed time and clearing the cursor. Valid
// from Playing and Paused; stopping an already stopped or ready engine is a
// no-op.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StatePlaying, StatePaused:
	case StateReady, StateStopped:
		return nil
	default:
		return fmt.Errorf("%w: stop from %s", ErrInvalidTransition, e.state)
	}

	e.state = StateStopped
	e.accrued = 0
	e.cursor = -1
	e.stopSamplerLocked()
	e.publishLocked()
	return nil
}

// Finish marks end-of-media, signaled by the local engine's done event or by
// the sampler reaching the total duration. Same reset semantics as Stop.
func (e *Engine) Finish() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePlaying {
		return
	}
	e.finishLocked()
}

// Reset invalidates the engine entirely: new Document, released asset. Any
// in-flight acquisition goes stale.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch++
	e.resetLocked()
	e.publishLocked()
}

// Elapsed returns the current playback position.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsedLocked()
}

// Snapshot returns the current state, cursor and elapsed time.
func (e *Engine) Snapshot() Update {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Update{State: e.state, Cursor: e.cursor, Elapsed: e.elapsedLocked()}
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Cursor returns the currently highlighted token index, -1 when no word is
// active.
func (e *Engine) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Subscribe registers for playback updates. Sends never block: a slow
// subscriber drops samples rather than stalling the sampler. The returned
// cancel function must be called to release the subscription.
func (e *Engine) Subscribe() (<-chan Update, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	ch := make(chan Update, 16)
	e.subs[id] = ch

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if c, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (e *Engine) resetLocked() {
	e.stopSamplerLocked()
	e.state = StateIdle
	e.tokenCount = 0
	e.total = 0
	e.cursor = -1
	e.accrued = 0
}

func (e *Engine) finishLocked() {
	e.state = StateStopped
	e.accrued = 0
	e.cursor = -1
	e.stopSamplerLocked()
	e.publishLocked()
}

func (e *Engine) elapsedLocked() time.Duration {
	if e.state == StatePlaying {
		return e.accrued + e.now().Sub(e.startedAt)
	}
	return e.accrued
}

func (e *Engine) publishLocked() {
	u := Update{State: e.state, Cursor: e.cursor, Elapsed: e.elapsedLocked()}
	for _, ch := range e.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

func (e *Engine) startSamplerLocked() {
	e.stopSamplerLocked()
	stop := make(chan struct{})
	e.samplerStop = stop

	go func() {
		t := time.NewTicker(e.interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				if !e.sample(stop) {
					return
				}
			}
		}
	}()
}

// stopSamplerLocked cancels the running sampler, if any. Every exit from
// Playing goes through here; a dangling sampler is a defect.
func (e *Engine) stopSamplerLocked() {
	if e.samplerStop != nil {
		close(e.samplerStop)
		e.samplerStop = nil
	}
}

// sample advances the cursor once. It reports false when the sampler should
// exit: the engine left Playing, this sampler was superseded, or playback
// reached end of media.
func (e *Engine) sample(stop chan struct{}) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.samplerStop != stop || e.state != StatePlaying {
		return false
	}

	elapsed := e.accrued + e.now().Sub(e.startedAt)
	if elapsed >= e.total {
		e.samplerStop = nil
		e.finishLocked()
		return false
	}

	e.cursor = CursorAt(elapsed, e.tokenCount, e.total)
	e.publishLocked()
	return true
}
