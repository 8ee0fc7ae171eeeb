// Package wizard provides shared chrome for multi-step wizard flows: the
// Back/Next button bar and the focus hand-off messages between step content
// and buttons.
package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ringsight/ringsight/internal/tui/theme"
)

// ButtonID identifies a button's action.
type ButtonID int

const (
	ButtonNone ButtonID = iota
	ButtonBack
	ButtonNext
	ButtonCancel
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	ID    ButtonID
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with focus tracking and consistent
// styling.
type ButtonBar struct {
	buttons []Button
	focused int // index of focused button, -1 when blurred
	width   int
}

// NewButtonBar creates a new button bar with the given buttons, blurred.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		focused: -1,
		width:   60,
	}
}

// SetWidth updates the width used to center the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() {
	for i, btn := range b.buttons {
		if btn.State != ButtonDisabled {
			b.focused = i
			return
		}
	}
	b.focused = -1
}

// FocusLast focuses the last enabled button.
func (b *ButtonBar) FocusLast() {
	for i := len(b.buttons) - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.focused = i
			return
		}
	}
	b.focused = -1
}

// FocusNext moves focus to the next enabled button. Returns false if focus
// fell off the end (caller should move focus back to step content).
func (b *ButtonBar) FocusNext() bool {
	for i := b.focused + 1; i < len(b.buttons); i++ {
		if b.buttons[i].State != ButtonDisabled {
			b.focused = i
			return true
		}
	}
	return false
}

// FocusPrev moves focus to the previous enabled button. Returns false if
// focus fell off the front.
func (b *ButtonBar) FocusPrev() bool {
	for i := b.focused - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.focused = i
			return true
		}
	}
	return false
}

// Blur removes button focus.
func (b *ButtonBar) Blur() {
	b.focused = -1
}

// FocusedButton returns the ID of the focused button, or ButtonNone.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focused < 0 || b.focused >= len(b.buttons) {
		return ButtonNone
	}
	return b.buttons[b.focused].ID
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	t := theme.Current()

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Background(lipgloss.Color(t.BgSurface)).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	disabledStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		Background(lipgloss.Color(t.BgOverlay)).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	focusedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.FgBright)).
		Bold(true).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	var rendered []string
	for i, btn := range b.buttons {
		style := normalStyle
		switch {
		case i == b.focused:
			style = focusedStyle
		case btn.State == ButtonDisabled:
			style = disabledStyle
		}
		rendered = append(rendered, style.Render(btn.Label))
	}

	result := strings.Join(rendered, "")

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, result)
}

// CreateBackNextButtons creates the standard Back/Next button set.
// nextLabel customizes the forward button (e.g. "Next →", "Create Tenant").
func CreateBackNextButtons(backEnabled, nextEnabled bool, nextLabel string) []Button {
	backState := ButtonNormal
	if !backEnabled {
		backState = ButtonDisabled
	}
	nextState := ButtonNormal
	if !nextEnabled {
		nextState = ButtonDisabled
	}
	return []Button{
		{ID: ButtonBack, Label: "← Back", State: backState},
		{ID: ButtonNext, Label: nextLabel, State: nextState},
	}
}
