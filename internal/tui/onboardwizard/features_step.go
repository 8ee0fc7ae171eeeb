package onboardwizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ringsight/ringsight/internal/onboarding"
	"github.com/ringsight/ringsight/internal/tui/theme"
	"github.com/ringsight/ringsight/internal/tui/wizard"
)

const (
	featuresFocusList = iota
	featuresFocusPrompt
)

// FeaturesStep is the AI feature picker: a checkbox list on the left, the
// highlighted feature's description on the right, and a prompt editor for
// the highlighted feature when it is selected. Selecting a feature loads
// its default prompt; deselecting keeps prompt edits around.
type FeaturesStep struct {
	nav *onboarding.Navigator
	cat onboarding.Catalog

	cursor      int
	focusIndex  int
	promptInput textinput.Model

	width, height int
}

// NewFeaturesStep creates the feature step over the wizard's catalog.
func NewFeaturesStep(nav *onboarding.Navigator, cat onboarding.Catalog) *FeaturesStep {
	promptInput := newInput("Analysis prompt")
	promptInput.SetWidth(52)

	s := &FeaturesStep{
		nav:         nav,
		cat:         cat,
		promptInput: promptInput,
		width:       80,
		height:      16,
	}
	s.loadPrompt()
	return s
}

// Init puts focus on the feature list.
func (s *FeaturesStep) Init() tea.Cmd {
	return s.Focus()
}

// Focus gives focus to the feature list.
func (s *FeaturesStep) Focus() tea.Cmd {
	s.focusIndex = featuresFocusList
	s.promptInput.Blur()
	return nil
}

// FocusLast gives focus to the last focusable control.
func (s *FeaturesStep) FocusLast() tea.Cmd {
	if s.cursorSelected() {
		s.focusIndex = featuresFocusPrompt
		return s.promptInput.Focus()
	}
	return s.Focus()
}

// Blur removes focus from the step.
func (s *FeaturesStep) Blur() {
	s.promptInput.Blur()
}

// SetSize updates the dimensions for the step.
func (s *FeaturesStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.promptInput.SetWidth(min(width-8, 52))
}

// Update handles messages for the feature step.
func (s *FeaturesStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.focusIndex == featuresFocusPrompt {
			var cmd tea.Cmd
			s.promptInput, cmd = s.promptInput.Update(msg)
			return cmd
		}
		return nil
	}

	switch keyMsg.String() {
	case "tab":
		if s.focusIndex == featuresFocusList && s.cursorSelected() {
			s.focusIndex = featuresFocusPrompt
			return s.promptInput.Focus()
		}
		return func() tea.Msg { return wizard.TabExitForwardMsg{} }

	case "shift+tab":
		if s.focusIndex == featuresFocusPrompt {
			return s.Focus()
		}
		return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
	}

	if s.focusIndex == featuresFocusPrompt {
		var cmd tea.Cmd
		s.promptInput, cmd = s.promptInput.Update(msg)
		s.pushPrompt()
		return cmd
	}

	switch keyMsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
			s.loadPrompt()
		}
	case "down", "j":
		if s.cursor < len(s.cat.Features)-1 {
			s.cursor++
			s.loadPrompt()
		}
	case "space":
		feat := s.cat.Features[s.cursor]
		_ = s.nav.Update(func(f *onboarding.Fields) {
			f.ToggleFeature(feat)
		})
		s.loadPrompt()
	}
	return nil
}

// cursorSelected reports whether the highlighted feature is selected.
func (s *FeaturesStep) cursorSelected() bool {
	if s.cursor >= len(s.cat.Features) {
		return false
	}
	f := s.nav.State().Fields
	return f.HasFeature(s.cat.Features[s.cursor].Key)
}

// loadPrompt syncs the prompt editor with the highlighted feature's stored
// prompt.
func (s *FeaturesStep) loadPrompt() {
	if s.cursor >= len(s.cat.Features) {
		return
	}
	f := s.nav.State().Fields
	s.promptInput.SetValue(f.FeaturePrompts[s.cat.Features[s.cursor].Key])
}

// pushPrompt writes the prompt editor's value into the field store.
func (s *FeaturesStep) pushPrompt() {
	key := s.cat.Features[s.cursor].Key
	value := s.promptInput.Value()
	_ = s.nav.Update(func(f *onboarding.Fields) {
		if f.FeaturePrompts == nil {
			f.FeaturePrompts = map[string]string{}
		}
		f.FeaturePrompts[key] = value
	})
}

// View renders the feature step.
func (s *FeaturesStep) View() string {
	t := theme.Current()
	fields := s.nav.State().Fields

	listWidth := 28
	detailWidth := s.width - listWidth - 6
	if detailWidth < 20 {
		detailWidth = 20
	}

	var list strings.Builder
	for i, feat := range s.cat.Features {
		checkbox := "▢"
		if fields.HasFeature(feat.Key) {
			checkbox = "▣"
		}

		line := checkbox + " " + feat.Name
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle))
		if i == s.cursor {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBright)).Bold(true)
			line = "› " + line
		} else {
			line = "  " + line
		}
		list.WriteString(style.Render(line))
		list.WriteString("\n")
	}

	detail := renderMarkdown(s.cat.Features[s.cursor].Description, detailWidth)

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list.String()),
		"  ",
		lipgloss.NewStyle().Width(detailWidth).Render(detail),
	)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")

	if s.cursorSelected() {
		b.WriteString(renderFieldLabel("Prompt", s.focusIndex == featuresFocusPrompt))
		b.WriteString("\n")
		b.WriteString(s.promptInput.View())
		b.WriteString("\n\n")
	}

	b.WriteString(renderHintBar(
		"↑/↓", "highlight",
		"space", "toggle",
		"tab", "prompt/buttons",
	))

	return b.String()
}
