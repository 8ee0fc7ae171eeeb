// Package onboardwizard is the five-step tenant onboarding flow: company
// profile, phone system, AI features, admin user, plan. Step components own
// their inputs and mirror every edit into the onboarding field store; the
// wizard model owns navigation, the button bar and the async boundaries
// (validation, connectivity test, commit).
package onboardwizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/ringsight/ringsight/internal/api"
	"github.com/ringsight/ringsight/internal/onboarding"
	"github.com/ringsight/ringsight/internal/tui/theme"
	"github.com/ringsight/ringsight/internal/tui/wizard"
)

// ConnectionTester runs the PBX connectivity probe for step 2.
type ConnectionTester interface {
	TestPhoneSystem(ctx context.Context, req api.PhoneSystemTestRequest) (api.PhoneSystemTestResult, error)
}

// stepComponent is the contract every step implements.
type stepComponent interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	Focus() tea.Cmd
	FocusLast() tea.Cmd
	Blur()
}

type focusZone int

const (
	focusContent focusZone = iota
	focusButtons
)

// Model is the main BubbleTea model for the onboarding wizard.
type Model struct {
	nav    *onboarding.Navigator
	cat    onboarding.Catalog
	tester ConnectionTester

	step    int
	steps   map[int]stepComponent
	buttons *wizard.ButtonBar
	focus   focusZone

	// gen guards async results: it bumps whenever navigation invalidates
	// an in-flight Next, and stale nextFinishedMsg values are dropped.
	gen      int
	inFlight bool
	spinner  spinner.Model

	stepErr   string // transient local error (e.g. test with blank creds)
	commitErr string // failed commit message, shown in the retry modal

	cancelled     bool
	width, height int
}

// New creates the wizard model over a fresh navigator.
func New(cat onboarding.Catalog, checker onboarding.SubdomainChecker, creator onboarding.TenantCreator, tester ConnectionTester) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	return &Model{
		nav:     onboarding.NewNavigator(cat, checker, creator),
		cat:     cat,
		tester:  tester,
		step:    onboarding.FirstStep,
		steps:   map[int]stepComponent{},
		spinner: sp,
	}
}

// Run runs the wizard to completion and returns the created tenant ID.
func Run(cat onboarding.Catalog, checker onboarding.SubdomainChecker, creator onboarding.TenantCreator, tester ConnectionTester) (string, error) {
	m := New(cat, checker, creator, tester)

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("onboarding wizard failed: %w", err)
	}

	wm, ok := finalModel.(*Model)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	if wm.cancelled {
		return "", fmt.Errorf("onboarding cancelled")
	}

	state := wm.nav.State()
	if !state.Done {
		return "", fmt.Errorf("onboarding cancelled")
	}
	return state.TenantID, nil
}

// Init initializes the wizard and focuses the first step.
func (m *Model) Init() tea.Cmd {
	m.refreshButtons()
	return m.currentStep().Init()
}

// currentStep lazily constructs the component for the current step. The
// components are cached so Back restores the exact UI state the user left.
func (m *Model) currentStep() stepComponent {
	if s, ok := m.steps[m.step]; ok {
		return s
	}

	var s stepComponent
	switch m.step {
	case onboarding.StepCompany:
		s = NewCompanyStep(m.nav)
	case onboarding.StepPhone:
		s = NewPhoneStep(m.nav)
	case onboarding.StepFeatures:
		s = NewFeaturesStep(m.nav, m.cat)
	case onboarding.StepAdmin:
		s = NewAdminStep(m.nav)
	default:
		s = NewPlanStep(m.nav, m.cat)
	}
	s.SetSize(m.contentSize())
	m.steps[m.step] = s
	return s
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, s := range m.steps {
			s.SetSize(m.contentSize())
		}
		m.buttons.SetWidth(m.width)
		return m, nil

	case wizard.TabExitForwardMsg:
		m.currentStep().Blur()
		m.focus = focusButtons
		m.buttons.FocusFirst()
		return m, nil

	case wizard.TabExitBackwardMsg:
		m.currentStep().Blur()
		m.focus = focusButtons
		m.buttons.FocusLast()
		return m, nil

	case testConnectionMsg:
		return m, m.startConnectionTest()

	case connTestFinishedMsg:
		m.nav.FinishConnectionTest(msg.Result, msg.Err)
		m.inFlight = false
		m.refreshButtons()
		return m, nil

	case retryCommitMsg:
		return m, m.goNext()

	case nextFinishedMsg:
		return m.handleNextFinished(msg)

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.inFlight {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.currentStep().Update(msg))
		return m, tea.Batch(cmds...)
	}

	// Paste and other input-bearing messages obey the same in-flight lock
	// as keystrokes.
	if m.inFlight {
		return m, nil
	}
	return m, m.currentStep().Update(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	// The commit failure modal captures all input until answered.
	if m.commitErr != "" {
		switch msg.String() {
		case "y", "enter":
			m.commitErr = ""
			return m, func() tea.Msg { return retryCommitMsg{} }
		case "n", "esc":
			m.commitErr = ""
			return m, nil
		}
		return m, nil
	}

	if m.nav.State().Done {
		switch msg.String() {
		case "enter", "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.nav.Cancel()
		m.cancelled = true
		return m, tea.Quit

	case "esc":
		if m.step == onboarding.FirstStep {
			m.nav.Cancel()
			m.cancelled = true
			return m, tea.Quit
		}
		return m, m.goBack()
	}

	if m.focus == focusButtons {
		return m.handleButtonKey(msg)
	}

	// Field edits are locked out while a check or the commit is in flight;
	// otherwise the inputs would echo text the busy field store rejects.
	if m.inFlight {
		return m, nil
	}

	m.stepErr = ""
	return m, m.currentStep().Update(msg)
}

func (m *Model) handleButtonKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "right":
		if !m.buttons.FocusNext() {
			// Off the end: wrap focus back into step content.
			m.buttons.Blur()
			m.focus = focusContent
			return m, m.currentStep().Focus()
		}
		return m, nil

	case "shift+tab", "left":
		if !m.buttons.FocusPrev() {
			m.buttons.Blur()
			m.focus = focusContent
			return m, m.currentStep().FocusLast()
		}
		return m, nil

	case "enter", "space":
		switch m.buttons.FocusedButton() {
		case wizard.ButtonBack:
			return m, m.goBack()
		case wizard.ButtonNext:
			return m, m.goNext()
		}
		return m, nil
	}

	return m, nil
}

// goNext runs Next asynchronously. At the terminal step this is the commit.
func (m *Model) goNext() tea.Cmd {
	if m.inFlight {
		return nil
	}
	m.inFlight = true
	m.stepErr = ""
	m.refreshButtons()

	nav := m.nav
	gen := m.gen
	return tea.Batch(
		func() tea.Msg {
			result, err := nav.Next(context.Background())
			return nextFinishedMsg{Gen: gen, Result: result, Err: err}
		},
		m.spinner.Tick,
	)
}

func (m *Model) handleNextFinished(msg nextFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen {
		return m, nil
	}
	m.inFlight = false
	m.refreshButtons()

	if msg.Err != nil {
		if errors.Is(msg.Err, onboarding.ErrBusy) || errors.Is(msg.Err, onboarding.ErrTerminated) {
			return m, nil
		}
		m.stepErr = msg.Err.Error()
		return m, nil
	}

	if msg.Result.Committed {
		return m, nil
	}

	if msg.Result.Failure != "" {
		if m.step == onboarding.LastStep {
			m.commitErr = msg.Result.Failure
		}
		// Validation failures render from the navigator's state.
		return m, nil
	}

	m.step = msg.Result.Step
	m.focus = focusContent
	m.buttons.Blur()
	m.refreshButtons()
	return m, m.currentStep().Init()
}

// goBack steps backward. Back never validates and never touches fields.
func (m *Model) goBack() tea.Cmd {
	step, err := m.nav.Back()
	if err != nil {
		return nil
	}
	if step != m.step {
		m.gen++
		m.step = step
		m.focus = focusContent
		m.buttons.Blur()
		m.refreshButtons()
		return m.currentStep().Focus()
	}
	return nil
}

// startConnectionTest dispatches the PBX probe requested by the phone step.
func (m *Model) startConnectionTest() tea.Cmd {
	req, err := m.nav.BeginConnectionTest()
	if err != nil {
		if !errors.Is(err, onboarding.ErrBusy) {
			m.stepErr = err.Error()
		}
		return nil
	}

	m.inFlight = true
	m.refreshButtons()

	tester := m.tester
	return tea.Batch(
		func() tea.Msg {
			result, terr := tester.TestPhoneSystem(context.Background(), req)
			return connTestFinishedMsg{Result: result, Err: terr}
		},
		m.spinner.Tick,
	)
}

// refreshButtons rebuilds the button bar for the current step, preserving
// focus where possible.
func (m *Model) refreshButtons() {
	label := "Next →"
	if m.step == onboarding.LastStep {
		label = "Create Tenant"
	}

	focused := wizard.ButtonNone
	if m.buttons != nil {
		focused = m.buttons.FocusedButton()
	}

	m.buttons = wizard.NewButtonBar(wizard.CreateBackNextButtons(
		m.step > onboarding.FirstStep && !m.inFlight,
		!m.inFlight,
		label,
	))
	m.buttons.SetWidth(m.width)

	if m.focus == focusButtons {
		if focused == wizard.ButtonBack {
			m.buttons.FocusFirst()
		} else {
			m.buttons.FocusLast()
		}
	}
}

func (m *Model) contentSize() (int, int) {
	w := m.width - 10
	h := m.height - 10
	if w < 40 {
		w = 40
	}
	if h < 10 {
		h = 10
	}
	return w, h
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	var content string
	state := m.nav.State()
	if state.Done {
		content = renderCompletion(state.TenantID, state.Fields.Subdomain, m.width)
	} else {
		content = m.renderFrame(state)
	}

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// renderFrame wraps the current step in the wizard frame: title, content,
// validation error, button bar, and the commit failure modal when armed.
func (m *Model) renderFrame(state onboarding.State) string {
	t := theme.Current()
	var sections []string

	info, _ := m.cat.StepByNumber(m.step)
	title := fmt.Sprintf("Tenant Onboarding · Step %d of %d: %s", m.step, onboarding.LastStep, info.Title)
	sections = append(sections, lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Primary)).Bold(true).Render(title))
	sections = append(sections, lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).Render(info.Hint))
	sections = append(sections, "")

	sections = append(sections, m.currentStep().View())

	if m.inFlight {
		busy := "Working..."
		if state.Submitting {
			busy = "Creating tenant..."
		}
		sections = append(sections, m.spinner.View()+" "+lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)).Render(busy))
	}

	if errText := m.errorText(state); errText != "" {
		sections = append(sections, renderError(errText))
	}

	sections = append(sections, "")
	sections = append(sections, m.buttons.Render())

	frameWidth := m.width - 8
	if frameWidth < 60 {
		frameWidth = 60
	}
	if frameWidth > 100 {
		frameWidth = 100
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderFocused)).
		Padding(1, 2).
		Width(frameWidth).
		Render(strings.Join(sections, "\n"))

	out := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame)

	if m.commitErr != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.renderCommitModal())
	}
	return out
}

// errorText picks the error line for the frame: local step errors first,
// then the navigator's last validation failure.
func (m *Model) errorText(state onboarding.State) string {
	if m.stepErr != "" {
		return m.stepErr
	}
	return state.LastValidationError
}

// renderCommitModal renders the commit failure prompt. Fields are intact;
// the user chooses between retrying and going back to edit.
func (m *Model) renderCommitModal() string {
	t := theme.Current()

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Error)).Bold(true).
		Render("✗ Tenant creation failed")
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Width(56).
		Render(m.commitErr)
	hint := renderHintBar("y", "retry", "n", "back to wizard")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Error)).
		Padding(1, 2).
		Render(title + "\n\n" + body + "\n\n" + hint)
}
