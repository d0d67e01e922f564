package playback

import "time"

// CursorAt maps elapsed playback time to a token index under a uniform-rate
// model: the total duration is divided evenly across the tokens and the index
// is the floor of elapsed over that per-token slice, clamped to
// [0, tokenCount-1]. It returns -1 when there is nothing to highlight
// (no tokens or no known duration).
//
// This is a linear approximation. It assumes a constant speaking rate across
// the whole document and drifts on non-uniform content (long words, pauses,
// numerals); the synthesis service provides no per-word timestamps to correct
// against.
func CursorAt(elapsed time.Duration, tokenCount int, total time.Duration) int {
	if tokenCount <= 0 || total <= 0 {
		return -1
	}
	if elapsed <= 0 {
		return 0
	}

	timePerToken := float64(total) / float64(tokenCount)
	idx := int(float64(elapsed) / timePerToken)
	if idx >= tokenCount {
		idx = tokenCount - 1
	}
	return idx
}
