package speech

// Voice is a selectable narration voice backed by an ElevenLabs voice ID.
type Voice struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ElevenLabsID string `json:"-"`
}

var voices = []Voice{
	{ID: "aria", Name: "Aria (Female, Clear)", ElevenLabsID: "9BWtsMINqrJLrRacOk9x"},
	{ID: "sarah", Name: "Sarah (Female, Warm)", ElevenLabsID: "EXAVITQu4vr4xnSDxMaL"},
	{ID: "charlie", Name: "Charlie (Male, Friendly)", ElevenLabsID: "IKne3meq5aSn9XLyUdCD"},
	{ID: "liam", Name: "Liam (Male, Professional)", ElevenLabsID: "TX3LPaxmHKxFdv7VOQHJ"},
	{ID: "charlotte", Name: "Charlotte (Female, Gentle)", ElevenLabsID: "XB0fDUnXU5powFXDhCwa"},
}

var voiceIDs = func() map[string]string {
	m := make(map[string]string, len(voices))
	for _, v := range voices {
		m[v.ID] = v.ElevenLabsID
	}
	return m
}()

// Voices lists the selectable narration voices.
func Voices() []Voice {
	out := make([]Voice, len(voices))
	copy(out, voices)
	return out
}

// Tone is a reading delivery style.
type Tone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var tones = []Tone{
	{ID: "calm", Name: "Calm & Soothing"},
	{ID: "enthusiastic", Name: "Enthusiastic"},
	{ID: "teacher", Name: "Teacher-like"},
	{ID: "playful", Name: "Playful"},
	{ID: "storyteller", Name: "Storyteller"},
}

// Tones lists the selectable delivery styles.
func Tones() []Tone {
	out := make([]Tone, len(tones))
	copy(out, tones)
	return out
}

func knownTone(id string) bool {
	for _, t := range tones {
		if t.ID == id {
			return true
		}
	}
	return false
}
