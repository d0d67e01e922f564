package speech

import "time"

// ElevenLabs returns constant-bitrate MP3 at 128 kbit/s (the mp3_44100_128
// output format), so byte length divided by bitrate gives the playback
// duration closely enough for uniform-rate word highlighting.
const mp3BitrateBitsPerSecond = 128_000

// EstimateMP3Duration derives the playback duration of a CBR MP3 payload
// from its size.
func EstimateMP3Duration(audio []byte) time.Duration {
	if len(audio) == 0 {
		return 0
	}
	seconds := float64(len(audio)*8) / float64(mp3BitrateBitsPerSecond)
	return time.Duration(seconds * float64(time.Second))
}
