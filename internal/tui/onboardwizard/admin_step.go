package onboardwizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/ringsight/ringsight/internal/onboarding"
	"github.com/ringsight/ringsight/internal/tui/wizard"
)

const (
	adminFocusEmail = iota
	adminFocusFullName
	adminFocusPhone
	adminFocusPassword
	adminFocusCount
)

// AdminStep collects the tenant's first administrator account.
type AdminStep struct {
	nav *onboarding.Navigator

	emailInput    textinput.Model
	fullNameInput textinput.Model
	phoneInput    textinput.Model
	passInput     textinput.Model

	focusIndex    int
	width, height int
}

// NewAdminStep creates the admin user step seeded from the field store.
func NewAdminStep(nav *onboarding.Navigator) *AdminStep {
	f := nav.State().Fields

	emailInput := newInput("admin@example.com")
	emailInput.SetValue(f.AdminEmail)
	fullNameInput := newInput("Full name")
	fullNameInput.SetValue(f.AdminFullName)
	phoneInput := newInput("Phone (optional)")
	phoneInput.SetValue(f.AdminPhone)
	passInput := newSecretInput("At least 8 characters")
	passInput.SetValue(f.AdminPassword)

	return &AdminStep{
		nav:           nav,
		emailInput:    emailInput,
		fullNameInput: fullNameInput,
		phoneInput:    phoneInput,
		passInput:     passInput,
		width:         60,
		height:        14,
	}
}

// Init focuses the email input.
func (a *AdminStep) Init() tea.Cmd {
	return a.Focus()
}

// Focus gives focus to the first input.
func (a *AdminStep) Focus() tea.Cmd {
	a.focusIndex = adminFocusEmail
	return a.updateFocus()
}

// FocusLast gives focus to the last input.
func (a *AdminStep) FocusLast() tea.Cmd {
	a.focusIndex = adminFocusPassword
	return a.updateFocus()
}

// Blur removes focus from all inputs.
func (a *AdminStep) Blur() {
	a.emailInput.Blur()
	a.fullNameInput.Blur()
	a.phoneInput.Blur()
	a.passInput.Blur()
}

// SetSize updates the dimensions for the step.
func (a *AdminStep) SetSize(width, height int) {
	a.width = width
	a.height = height
	w := min(width-10, 44)
	a.emailInput.SetWidth(w)
	a.fullNameInput.SetWidth(w)
	a.phoneInput.SetWidth(w)
	a.passInput.SetWidth(w)
}

// Update handles messages for the admin step.
func (a *AdminStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab":
			if a.focusIndex == adminFocusCount-1 {
				return func() tea.Msg { return wizard.TabExitForwardMsg{} }
			}
			a.focusIndex++
			return a.updateFocus()

		case "shift+tab":
			if a.focusIndex == 0 {
				return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
			}
			a.focusIndex--
			return a.updateFocus()
		}
	}

	var cmd tea.Cmd
	switch a.focusIndex {
	case adminFocusEmail:
		a.emailInput, cmd = a.emailInput.Update(msg)
	case adminFocusFullName:
		a.fullNameInput, cmd = a.fullNameInput.Update(msg)
	case adminFocusPhone:
		a.phoneInput, cmd = a.phoneInput.Update(msg)
	case adminFocusPassword:
		a.passInput, cmd = a.passInput.Update(msg)
	}

	if _, ok := msg.(tea.KeyPressMsg); ok {
		a.push()
	}
	return cmd
}

// push writes the step's current values into the field store.
func (a *AdminStep) push() {
	_ = a.nav.Update(func(f *onboarding.Fields) {
		f.AdminEmail = strings.TrimSpace(a.emailInput.Value())
		f.AdminFullName = strings.TrimSpace(a.fullNameInput.Value())
		f.AdminPhone = strings.TrimSpace(a.phoneInput.Value())
		f.AdminPassword = a.passInput.Value()
	})
}

func (a *AdminStep) updateFocus() tea.Cmd {
	a.Blur()
	switch a.focusIndex {
	case adminFocusEmail:
		return a.emailInput.Focus()
	case adminFocusFullName:
		return a.fullNameInput.Focus()
	case adminFocusPhone:
		return a.phoneInput.Focus()
	case adminFocusPassword:
		return a.passInput.Focus()
	}
	return nil
}

// View renders the admin step.
func (a *AdminStep) View() string {
	var b strings.Builder

	fields := []struct {
		label string
		focus int
		view  string
	}{
		{"Email", adminFocusEmail, a.emailInput.View()},
		{"Full Name", adminFocusFullName, a.fullNameInput.View()},
		{"Phone", adminFocusPhone, a.phoneInput.View()},
		{"Password", adminFocusPassword, a.passInput.View()},
	}
	for _, f := range fields {
		b.WriteString(renderFieldLabel(f.label, a.focusIndex == f.focus))
		b.WriteString("\n")
		b.WriteString(f.view)
		b.WriteString("\n\n")
	}

	b.WriteString(renderHintBar(
		"tab", "next field",
		"esc", "cancel",
	))

	return b.String()
}
