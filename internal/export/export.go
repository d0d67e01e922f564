package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/learnableai/readassist/internal/generative"
)

// Download filenames for the reader's export actions.
const (
	TextFilename  = "dyslexia-friendly-text.txt"
	AudioFilename = "dyslexia-friendly-audio.mp3"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// PlanFilename derives the markdown download name from a plan topic,
// replacing anything outside [a-zA-Z0-9] with underscores.
func PlanFilename(topic string) string {
	name := unsafeFilenameChars.ReplaceAllString(topic, "_")
	if name == "" {
		name = "lesson_plan"
	}
	return name + ".md"
}

// PlanMarkdown serializes a lesson plan for download.
func PlanMarkdown(p *generative.LessonPlan) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Topic)
	fmt.Fprintf(&b, "**Grade Level:** %s\n", p.Grade)
	fmt.Fprintf(&b, "**Duration:** %s\n\n", p.Duration)
	b.WriteString(strings.TrimSpace(p.Content))
	b.WriteString("\n")
	return []byte(b.String())
}
