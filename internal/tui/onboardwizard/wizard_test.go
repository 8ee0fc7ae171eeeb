package onboardwizard

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringsight/ringsight/internal/api"
	"github.com/ringsight/ringsight/internal/onboarding"
	"github.com/ringsight/ringsight/internal/tui/wizard"
)

func newTestModel() *Model {
	m := New(
		onboarding.DefaultCatalog(),
		&stubChecker{available: true},
		&stubCreator{resp: api.TenantCreateResponse{TenantID: "ten-1"}},
		&stubTester{result: api.PhoneSystemTestResult{Success: true}},
	)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestWizard_AdvanceOnNextResult(t *testing.T) {
	m := newTestModel()
	m.inFlight = true

	m.Update(nextFinishedMsg{Gen: m.gen, Result: onboarding.NextResult{Step: onboarding.StepPhone}})

	assert.Equal(t, onboarding.StepPhone, m.step)
	assert.False(t, m.inFlight)
	assert.Equal(t, focusContent, m.focus)
}

func TestWizard_StaleNextResultDropped(t *testing.T) {
	m := newTestModel()
	m.inFlight = true
	m.gen++ // navigation invalidated the in-flight call

	m.Update(nextFinishedMsg{Gen: 0, Result: onboarding.NextResult{Step: onboarding.StepPhone}})

	assert.Equal(t, onboarding.StepCompany, m.step)
	assert.True(t, m.inFlight, "stale result must not clear the in-flight guard")
}

func TestWizard_CommitFailureArmsRetryModal(t *testing.T) {
	m := newTestModel()
	m.step = onboarding.LastStep
	m.inFlight = true

	m.Update(nextFinishedMsg{Gen: m.gen, Result: onboarding.NextResult{
		Step:    onboarding.LastStep,
		Failure: "subdomain already taken",
	}})

	require.Equal(t, "subdomain already taken", m.commitErr)

	// N dismisses the modal and stays on the plan step with fields intact.
	m.Update(tea.KeyPressMsg{Text: "n"})
	assert.Empty(t, m.commitErr)
	assert.Equal(t, onboarding.LastStep, m.step)
}

func TestWizard_RetryModalYesResubmits(t *testing.T) {
	m := newTestModel()
	m.step = onboarding.LastStep
	m.commitErr = "temporary failure"

	_, cmd := m.Update(tea.KeyPressMsg{Text: "y"})
	require.NotNil(t, cmd)
	assert.IsType(t, retryCommitMsg{}, cmd())
	assert.Empty(t, m.commitErr)
}

func TestWizard_ValidationFailureStaysOnStep(t *testing.T) {
	m := newTestModel()
	m.inFlight = true

	m.Update(nextFinishedMsg{Gen: m.gen, Result: onboarding.NextResult{
		Step:    onboarding.StepCompany,
		Failure: "company name is required",
	}})

	assert.Equal(t, onboarding.StepCompany, m.step)
	assert.Empty(t, m.commitErr, "step validation failures do not open the retry modal")
}

func TestWizard_ButtonLabelAtTerminalStep(t *testing.T) {
	m := newTestModel()

	m.step = onboarding.LastStep
	m.refreshButtons()
	assert.Contains(t, m.buttons.Render(), "Create Tenant")

	m.step = onboarding.StepCompany
	m.refreshButtons()
	assert.Contains(t, m.buttons.Render(), "Next")
}

func TestWizard_TabExitMovesFocusToButtons(t *testing.T) {
	m := newTestModel()

	m.Update(wizard.TabExitForwardMsg{})
	assert.Equal(t, focusButtons, m.focus)
	// Back is disabled on the first step, so focus lands on Next.
	assert.Equal(t, wizard.ButtonNext, m.buttons.FocusedButton())

	// Tab off the end wraps focus back into the step content.
	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, focusContent, m.focus)
	assert.Equal(t, wizard.ButtonNone, m.buttons.FocusedButton())
}

func TestWizard_KeysLockedOutWhileCallInFlight(t *testing.T) {
	m := newTestModel()
	m.inFlight = true

	m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	// Neither the field store nor the input may take the edit; an echoed
	// character the busy store rejected would desync the two.
	assert.Empty(t, m.nav.State().Fields.CompanyName)
	step, ok := m.steps[onboarding.StepCompany].(*CompanyStep)
	require.True(t, ok)
	assert.Empty(t, step.nameInput.Value())

	// Once the guard clears, typing flows through again.
	m.inFlight = false
	m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.Equal(t, "x", m.nav.State().Fields.CompanyName)
}

func TestWizard_ConnectionTestFlow(t *testing.T) {
	m := newTestModel()
	require.NoError(t, m.nav.Update(func(f *onboarding.Fields) {
		f.PBXHost = "pbx.local"
		f.PBXUsername = "api"
		f.PBXPassword = "secret"
	}))

	_, cmd := m.Update(testConnectionMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.inFlight)
	assert.Equal(t, onboarding.ConnTesting, m.nav.State().Fields.Connection.State)

	for _, msg := range collectMsgs(t, cmd) {
		if fin, ok := msg.(connTestFinishedMsg); ok {
			m.Update(fin)
		}
	}

	assert.False(t, m.inFlight)
	assert.Equal(t, onboarding.ConnVerified, m.nav.State().Fields.Connection.State)
}

func TestWizard_TestWithIncompleteCredentialsShowsError(t *testing.T) {
	m := newTestModel()

	_, cmd := m.Update(testConnectionMsg{})

	assert.Nil(t, cmd)
	assert.False(t, m.inFlight)
	assert.NotEmpty(t, m.stepErr)
}
