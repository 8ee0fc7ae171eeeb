package onboardwizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/gosimple/slug"

	"github.com/ringsight/ringsight/internal/onboarding"
	"github.com/ringsight/ringsight/internal/tui/theme"
	"github.com/ringsight/ringsight/internal/tui/wizard"
)

// companySizes are the selectable size brackets, cycled with left/right.
var companySizes = []string{"1-10", "11-50", "51-200", "201-1000", "1000+"}

const (
	companyFocusName = iota
	companyFocusSubdomain
	companyFocusIndustry
	companyFocusSize
	companyFocusCount
)

// CompanyStep collects the company profile and the tenant subdomain.
// Typing the company name suggests a subdomain until the user edits the
// subdomain field directly.
type CompanyStep struct {
	nav *onboarding.Navigator

	nameInput      textinput.Model
	subdomainInput textinput.Model
	industryInput  textinput.Model
	sizeIndex      int

	focusIndex      int
	subdomainEdited bool
	width, height   int
}

// NewCompanyStep creates the company step seeded from the current field
// store, so returning to step 1 shows the values already entered.
func NewCompanyStep(nav *onboarding.Navigator) *CompanyStep {
	f := nav.State().Fields

	nameInput := newInput("Acme Support Desk")
	nameInput.SetValue(f.CompanyName)

	subdomainInput := newInput("acme-support")
	subdomainInput.SetValue(f.Subdomain)

	industryInput := newInput("e.g. insurance, telco, retail")
	industryInput.SetValue(f.Industry)

	sizeIndex := 0
	for i, s := range companySizes {
		if s == f.CompanySize {
			sizeIndex = i
			break
		}
	}

	// A subdomain that no longer matches the name's slug was hand-edited;
	// stop suggesting over it.
	edited := f.Subdomain != "" && f.Subdomain != slug.Make(f.CompanyName)

	return &CompanyStep{
		nav:             nav,
		nameInput:       nameInput,
		subdomainInput:  subdomainInput,
		industryInput:   industryInput,
		sizeIndex:       sizeIndex,
		subdomainEdited: edited,
		width:           60,
		height:          12,
	}
}

// Init focuses the company name input.
func (c *CompanyStep) Init() tea.Cmd {
	return c.Focus()
}

// Focus gives focus to the first input.
func (c *CompanyStep) Focus() tea.Cmd {
	c.focusIndex = companyFocusName
	return c.updateFocus()
}

// FocusLast gives focus to the last control.
func (c *CompanyStep) FocusLast() tea.Cmd {
	c.focusIndex = companyFocusSize
	return c.updateFocus()
}

// Blur removes focus from all inputs.
func (c *CompanyStep) Blur() {
	c.nameInput.Blur()
	c.subdomainInput.Blur()
	c.industryInput.Blur()
}

// SetSize updates the dimensions for the step.
func (c *CompanyStep) SetSize(width, height int) {
	c.width = width
	c.height = height
	w := min(width-10, 44)
	c.nameInput.SetWidth(w)
	c.subdomainInput.SetWidth(w)
	c.industryInput.SetWidth(w)
}

// Update handles messages for the company step.
func (c *CompanyStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab":
			if c.focusIndex == companyFocusCount-1 {
				return func() tea.Msg { return wizard.TabExitForwardMsg{} }
			}
			c.focusIndex++
			return c.updateFocus()

		case "shift+tab":
			if c.focusIndex == 0 {
				return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
			}
			c.focusIndex--
			return c.updateFocus()

		case "left", "right":
			if c.focusIndex == companyFocusSize {
				if keyMsg.String() == "left" {
					c.sizeIndex = (c.sizeIndex - 1 + len(companySizes)) % len(companySizes)
				} else {
					c.sizeIndex = (c.sizeIndex + 1) % len(companySizes)
				}
				c.push()
				return nil
			}
		}
	}

	var cmd tea.Cmd
	switch c.focusIndex {
	case companyFocusName:
		before := c.nameInput.Value()
		c.nameInput, cmd = c.nameInput.Update(msg)
		if c.nameInput.Value() != before && !c.subdomainEdited {
			c.subdomainInput.SetValue(slug.Make(c.nameInput.Value()))
		}
	case companyFocusSubdomain:
		before := c.subdomainInput.Value()
		c.subdomainInput, cmd = c.subdomainInput.Update(msg)
		if c.subdomainInput.Value() != before {
			c.subdomainEdited = true
		}
	case companyFocusIndustry:
		c.industryInput, cmd = c.industryInput.Update(msg)
	}

	if _, ok := msg.(tea.KeyPressMsg); ok {
		c.push()
	}
	return cmd
}

// push writes the step's current values into the field store. A busy
// navigator rejects the write; the edit is re-pushed on the next keystroke.
func (c *CompanyStep) push() {
	_ = c.nav.Update(func(f *onboarding.Fields) {
		f.CompanyName = strings.TrimSpace(c.nameInput.Value())
		f.Subdomain = strings.TrimSpace(c.subdomainInput.Value())
		f.Industry = strings.TrimSpace(c.industryInput.Value())
		f.CompanySize = companySizes[c.sizeIndex]
	})
}

func (c *CompanyStep) updateFocus() tea.Cmd {
	c.Blur()
	switch c.focusIndex {
	case companyFocusName:
		return c.nameInput.Focus()
	case companyFocusSubdomain:
		return c.subdomainInput.Focus()
	case companyFocusIndustry:
		return c.industryInput.Focus()
	}
	return nil
}

// View renders the company step.
func (c *CompanyStep) View() string {
	t := theme.Current()
	var b strings.Builder

	b.WriteString(renderFieldLabel("Company Name", c.focusIndex == companyFocusName))
	b.WriteString("\n")
	b.WriteString(c.nameInput.View())
	b.WriteString("\n\n")

	b.WriteString(renderFieldLabel("Subdomain", c.focusIndex == companyFocusSubdomain))
	suffix := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).Render("  .ringsight.io")
	b.WriteString(suffix)
	b.WriteString("\n")
	b.WriteString(c.subdomainInput.View())
	b.WriteString("\n\n")

	b.WriteString(renderFieldLabel("Industry", c.focusIndex == companyFocusIndustry))
	b.WriteString("\n")
	b.WriteString(c.industryInput.View())
	b.WriteString("\n\n")

	b.WriteString(renderFieldLabel("Company Size", c.focusIndex == companyFocusSize))
	b.WriteString("\n")
	b.WriteString(c.renderSizeSelector())
	b.WriteString("\n\n")

	b.WriteString(renderHintBar(
		"tab", "next field",
		"←/→", "change size",
		"esc", "cancel",
	))

	return b.String()
}

func (c *CompanyStep) renderSizeSelector() string {
	t := theme.Current()
	arrow := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle))
	if c.focusIndex == companyFocusSize {
		value = lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBright)).Bold(true)
	}
	return arrow.Render("‹ ") + value.Render(companySizes[c.sizeIndex]+" employees") + arrow.Render(" ›")
}
