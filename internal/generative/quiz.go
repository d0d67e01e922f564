package generative

import (
	"encoding/json"
	"strings"
)

// Question is one structured multiple-choice quiz item.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
}

// Quiz is a generated quiz. Raw always holds the generator's full response;
// Questions is populated only when that response parses as a structured
// question array. An unparseable quiz is still usable; it renders as text.
type Quiz struct {
	Raw        string     `json:"raw"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions,omitempty"`
}

// Structured reports whether the quiz parsed into individual questions.
func (q *Quiz) Structured() bool {
	return len(q.Questions) > 0
}

// parseQuestions attempts to read raw as a JSON array of questions. Parse
// failure is not an error, just an empty result.
func parseQuestions(raw string) []Question {
	var questions []Question
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &questions); err != nil {
		return nil
	}
	return questions
}
