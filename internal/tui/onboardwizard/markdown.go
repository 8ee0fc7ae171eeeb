package onboardwizard

import (
	"strings"

	"charm.land/glamour/v2"
)

// renderMarkdown renders markdown content with glamour. Falls back to the
// raw text if rendering fails.
func renderMarkdown(content string, width int) string {
	// Cap width to 120 for readability
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	// Remove trailing newline that glamour adds
	return strings.TrimSuffix(rendered, "\n")
}
