package onboardwizard

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ringsight/ringsight/internal/tui/theme"
)

// newInput creates a themed text input used by all steps.
func newInput(placeholder string) textinput.Model {
	t := theme.Current()

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBright)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	ti.SetWidth(44)
	return ti
}

// newSecretInput creates a themed masked input for passwords.
func newSecretInput(placeholder string) textinput.Model {
	ti := newInput(placeholder)
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return ti
}

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("tab", "next field", "esc", "back")
// Returns: "tab next field • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	t := theme.Current()
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	sepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.BorderDefault))

	var result string
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result += " " + sepStyle.Render("•") + " "
		}
		result += keyStyle.Render(pairs[i]) + " " + descStyle.Render(pairs[i+1])
	}
	return result
}

// renderFieldLabel renders an input label, highlighted when focused.
func renderFieldLabel(label string, focused bool) string {
	t := theme.Current()
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle))
	if focused {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)).Bold(true)
	}
	return style.Render(label)
}

// renderError renders a step-scoped validation error line.
func renderError(msg string) string {
	if msg == "" {
		return ""
	}
	t := theme.Current()
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Error)).
		Bold(true).
		Render("✗ " + msg)
}
