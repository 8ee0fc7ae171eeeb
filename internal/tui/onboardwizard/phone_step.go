package onboardwizard

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ringsight/ringsight/internal/onboarding"
	"github.com/ringsight/ringsight/internal/tui/theme"
	"github.com/ringsight/ringsight/internal/tui/wizard"
)

// phoneSystemTypes are the supported PBX integrations, cycled with
// left/right. Keys travel on the wire; labels are display-only.
var phoneSystemTypes = []struct {
	Key   string
	Label string
}{
	{"grandstream_ucm", "Grandstream UCM"},
	{"asterisk_ami", "Asterisk (AMI)"},
	{"freepbx", "FreePBX"},
	{"threecx", "3CX"},
	{"generic_sip", "Generic SIP"},
}

const (
	phoneFocusType = iota
	phoneFocusHost
	phoneFocusPort
	phoneFocusUsername
	phoneFocusPassword
	phoneFocusWebhookUser
	phoneFocusWebhookPass
	phoneFocusTest
	phoneFocusCount
)

// PhoneStep collects PBX credentials and runs the explicit connectivity
// test. Advancing past this step requires a verified connection; the badge
// under the test action mirrors the connection status in the field store.
type PhoneStep struct {
	nav *onboarding.Navigator

	typeIndex     int
	hostInput     textinput.Model
	portInput     textinput.Model
	userInput     textinput.Model
	passInput     textinput.Model
	whUserInput   textinput.Model
	whPassInput   textinput.Model
	spinner       spinner.Model
	focusIndex    int
	width, height int
}

// NewPhoneStep creates the phone system step seeded from the field store.
func NewPhoneStep(nav *onboarding.Navigator) *PhoneStep {
	f := nav.State().Fields

	typeIndex := 0
	for i, pt := range phoneSystemTypes {
		if pt.Key == f.PhoneSystemType {
			typeIndex = i
			break
		}
	}

	hostInput := newInput("pbx.example.com or 10.0.0.5")
	hostInput.SetValue(f.PBXHost)
	portInput := newInput("8089")
	portInput.SetValue(f.PBXPort)
	userInput := newInput("API username")
	userInput.SetValue(f.PBXUsername)
	passInput := newSecretInput("API password")
	passInput.SetValue(f.PBXPassword)
	whUserInput := newInput("Webhook username (optional)")
	whUserInput.SetValue(f.WebhookUsername)
	whPassInput := newSecretInput("Webhook password (optional)")
	whPassInput.SetValue(f.WebhookPassword)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	return &PhoneStep{
		nav:         nav,
		typeIndex:   typeIndex,
		hostInput:   hostInput,
		portInput:   portInput,
		userInput:   userInput,
		passInput:   passInput,
		whUserInput: whUserInput,
		whPassInput: whPassInput,
		spinner:     sp,
		width:       60,
		height:      18,
	}
}

// Init focuses the first control.
func (p *PhoneStep) Init() tea.Cmd {
	return p.Focus()
}

// Focus gives focus to the first control.
func (p *PhoneStep) Focus() tea.Cmd {
	p.focusIndex = phoneFocusType
	return p.updateFocus()
}

// FocusLast gives focus to the test action.
func (p *PhoneStep) FocusLast() tea.Cmd {
	p.focusIndex = phoneFocusTest
	return p.updateFocus()
}

// Blur removes focus from all inputs.
func (p *PhoneStep) Blur() {
	p.hostInput.Blur()
	p.portInput.Blur()
	p.userInput.Blur()
	p.passInput.Blur()
	p.whUserInput.Blur()
	p.whPassInput.Blur()
}

// SetSize updates the dimensions for the step.
func (p *PhoneStep) SetSize(width, height int) {
	p.width = width
	p.height = height
	w := min(width-10, 44)
	p.hostInput.SetWidth(w)
	p.portInput.SetWidth(w)
	p.userInput.SetWidth(w)
	p.passInput.SetWidth(w)
	p.whUserInput.SetWidth(w)
	p.whPassInput.SetWidth(w)
}

// Update handles messages for the phone step.
func (p *PhoneStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if p.nav.State().Fields.Connection.State != onboarding.ConnTesting {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab":
			if p.focusIndex == phoneFocusCount-1 {
				return func() tea.Msg { return wizard.TabExitForwardMsg{} }
			}
			p.focusIndex++
			return p.updateFocus()

		case "shift+tab":
			if p.focusIndex == 0 {
				return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
			}
			p.focusIndex--
			return p.updateFocus()

		case "left", "right":
			if p.focusIndex == phoneFocusType {
				if msg.String() == "left" {
					p.typeIndex = (p.typeIndex - 1 + len(phoneSystemTypes)) % len(phoneSystemTypes)
				} else {
					p.typeIndex = (p.typeIndex + 1) % len(phoneSystemTypes)
				}
				p.push()
				return nil
			}

		case "enter", "space":
			if p.focusIndex == phoneFocusTest {
				return tea.Batch(
					func() tea.Msg { return testConnectionMsg{} },
					p.spinner.Tick,
				)
			}
			if msg.String() == "enter" {
				return nil
			}
		}
	}

	var cmd tea.Cmd
	switch p.focusIndex {
	case phoneFocusHost:
		p.hostInput, cmd = p.hostInput.Update(msg)
	case phoneFocusPort:
		p.portInput, cmd = p.portInput.Update(msg)
	case phoneFocusUsername:
		p.userInput, cmd = p.userInput.Update(msg)
	case phoneFocusPassword:
		p.passInput, cmd = p.passInput.Update(msg)
	case phoneFocusWebhookUser:
		p.whUserInput, cmd = p.whUserInput.Update(msg)
	case phoneFocusWebhookPass:
		p.whPassInput, cmd = p.whPassInput.Update(msg)
	default:
		return nil
	}

	if _, ok := msg.(tea.KeyPressMsg); ok {
		p.push()
	}
	return cmd
}

// push writes the step's current values into the field store. Editing any
// credential there drops an earlier verified status back to untested.
func (p *PhoneStep) push() {
	_ = p.nav.Update(func(f *onboarding.Fields) {
		f.PhoneSystemType = phoneSystemTypes[p.typeIndex].Key
		f.PBXHost = strings.TrimSpace(p.hostInput.Value())
		f.PBXPort = strings.TrimSpace(p.portInput.Value())
		f.PBXUsername = strings.TrimSpace(p.userInput.Value())
		f.PBXPassword = p.passInput.Value()
		f.WebhookUsername = strings.TrimSpace(p.whUserInput.Value())
		f.WebhookPassword = p.whPassInput.Value()
	})
}

func (p *PhoneStep) updateFocus() tea.Cmd {
	p.Blur()
	switch p.focusIndex {
	case phoneFocusHost:
		return p.hostInput.Focus()
	case phoneFocusPort:
		return p.portInput.Focus()
	case phoneFocusUsername:
		return p.userInput.Focus()
	case phoneFocusPassword:
		return p.passInput.Focus()
	case phoneFocusWebhookUser:
		return p.whUserInput.Focus()
	case phoneFocusWebhookPass:
		return p.whPassInput.Focus()
	}
	return nil
}

// View renders the phone step.
func (p *PhoneStep) View() string {
	var b strings.Builder

	b.WriteString(renderFieldLabel("Phone System", p.focusIndex == phoneFocusType))
	b.WriteString("\n")
	b.WriteString(p.renderTypeSelector())
	b.WriteString("\n\n")

	fields := []struct {
		label string
		focus int
		view  string
	}{
		{"Host", phoneFocusHost, p.hostInput.View()},
		{"Port", phoneFocusPort, p.portInput.View()},
		{"Username", phoneFocusUsername, p.userInput.View()},
		{"Password", phoneFocusPassword, p.passInput.View()},
		{"Webhook Username", phoneFocusWebhookUser, p.whUserInput.View()},
		{"Webhook Password", phoneFocusWebhookPass, p.whPassInput.View()},
	}
	for _, f := range fields {
		b.WriteString(renderFieldLabel(f.label, p.focusIndex == f.focus))
		b.WriteString("\n")
		b.WriteString(f.view)
		b.WriteString("\n\n")
	}

	b.WriteString(p.renderTestRow())
	b.WriteString("\n\n")

	b.WriteString(renderHintBar(
		"tab", "next field",
		"enter", "test connection",
		"esc", "cancel",
	))

	return b.String()
}

func (p *PhoneStep) renderTypeSelector() string {
	t := theme.Current()
	arrow := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle))
	if p.focusIndex == phoneFocusType {
		value = lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBright)).Bold(true)
	}
	return arrow.Render("‹ ") + value.Render(phoneSystemTypes[p.typeIndex].Label) + arrow.Render(" ›")
}

// renderTestRow renders the test action and the connection status badge.
func (p *PhoneStep) renderTestRow() string {
	t := theme.Current()

	btn := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Background(lipgloss.Color(t.BgSurface)).
		Padding(0, 2)
	if p.focusIndex == phoneFocusTest {
		btn = lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.FgBright)).
			Bold(true).
			Padding(0, 2)
	}

	conn := p.nav.State().Fields.Connection
	var badge string
	switch conn.State {
	case onboarding.ConnTesting:
		badge = p.spinner.View() + lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)).Render(" testing...")
	case onboarding.ConnVerified:
		badge = lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).Bold(true).Render("✓ verified")
	case onboarding.ConnFailed:
		reason := conn.Reason
		if reason == "" {
			reason = "connection failed"
		}
		badge = lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).Bold(true).Render("✗ " + reason)
	default:
		badge = lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgMuted)).Render("not tested yet")
	}

	return btn.Render("Test Connection") + "  " + badge
}
