package extraction

import "strings"

const (
	jsonFence  = "```json"
	plainFence = "```"
)

// Sanitize strips Markdown code fences wrapping a model response. A "```json"
// opener is removed together with the closing fence; otherwise a plain "```"
// pair is removed. Stripping repeats until no wrapping fence remains, so the
// result is a fixed point: Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(raw string) string {
	text := strings.TrimSpace(raw)
	for {
		stripped, ok := stripFence(text)
		if !ok {
			return text
		}
		text = strings.TrimSpace(stripped)
	}
}

func stripFence(text string) (string, bool) {
	if !strings.HasSuffix(text, plainFence) {
		return text, false
	}
	if strings.HasPrefix(text, jsonFence) && len(text) >= len(jsonFence)+len(plainFence) {
		return text[len(jsonFence) : len(text)-len(plainFence)], true
	}
	if strings.HasPrefix(text, plainFence) && len(text) >= 2*len(plainFence) {
		return text[len(plainFence) : len(text)-len(plainFence)], true
	}
	return text, false
}
