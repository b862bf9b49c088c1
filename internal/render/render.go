package render

import "strings"

// Markdown renders content with a cached renderer for opts
func Markdown(content string, opts Options) (string, error) {
	return renderers.render(content, opts)
}

// Reply renders an assistant reply for display inside a bubble. Glamour's
// surrounding blank lines are trimmed, and the raw text is returned when
// rendering fails so a reply is never lost.
func Reply(text string, opts Options) string {
	out, err := Markdown(text, opts)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
