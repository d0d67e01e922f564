package segment

import (
	"strings"
)

// Words splits text into whitespace-delimited tokens, preserving token text
// (punctuation included) and order. Empty or all-whitespace input yields nil.
func Words(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Count returns the number of whitespace-delimited tokens in text.
func Count(text string) int {
	return len(strings.Fields(text))
}

// Preview returns the first n bytes of text, cut back to a rune boundary,
// with surrounding whitespace trimmed. Used to build search queries from
// document content.
func Preview(text string, n int) string {
	if len(text) <= n {
		return strings.TrimSpace(text)
	}
	for n > 0 && !isRuneStart(text[n]) {
		n--
	}
	return strings.TrimSpace(text[:n])
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
