package onboardwizard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/ringsight/ringsight/internal/onboarding"
	"github.com/ringsight/ringsight/internal/tui/theme"
	"github.com/ringsight/ringsight/internal/tui/wizard"
)

// PlanStep is the final step: pick a subscription plan. Selecting a plan
// mints the subscription ID once; changing plans afterwards keeps the same
// ID so retried commits stay idempotent on the billing side.
type PlanStep struct {
	nav *onboarding.Navigator
	cat onboarding.Catalog

	cursor        int
	width, height int
}

// NewPlanStep creates the plan step over the wizard's catalog.
func NewPlanStep(nav *onboarding.Navigator, cat onboarding.Catalog) *PlanStep {
	cursor := 0
	if plan := nav.State().Fields.Plan; plan != "" {
		for i, p := range cat.Plans {
			if p.Key == plan {
				cursor = i
				break
			}
		}
	}
	return &PlanStep{
		nav:    nav,
		cat:    cat,
		cursor: cursor,
		width:  70,
		height: 14,
	}
}

// Init is a no-op; the plan list has no inputs to focus.
func (p *PlanStep) Init() tea.Cmd {
	return nil
}

// Focus gives focus to the plan list.
func (p *PlanStep) Focus() tea.Cmd {
	return nil
}

// FocusLast gives focus to the plan list.
func (p *PlanStep) FocusLast() tea.Cmd {
	return nil
}

// Blur removes focus from the step.
func (p *PlanStep) Blur() {}

// SetSize updates the dimensions for the step.
func (p *PlanStep) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Update handles messages for the plan step.
func (p *PlanStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "tab":
		return func() tea.Msg { return wizard.TabExitForwardMsg{} }
	case "shift+tab":
		return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.cat.Plans)-1 {
			p.cursor++
		}
	case "space", "enter":
		p.selectPlan()
	}
	return nil
}

// selectPlan stores the highlighted plan and mints the subscription ID on
// first selection.
func (p *PlanStep) selectPlan() {
	key := p.cat.Plans[p.cursor].Key
	_ = p.nav.Update(func(f *onboarding.Fields) {
		f.Plan = key
		if f.SubscriptionID == "" {
			f.SubscriptionID = uuid.NewString()
		}
	})
}

// View renders the plan step.
func (p *PlanStep) View() string {
	t := theme.Current()
	selected := p.nav.State().Fields.Plan

	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)).Bold(true)
	priceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary))
	blurbStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))

	var b strings.Builder
	for i, plan := range p.cat.Plans {
		marker := "○"
		if plan.Key == selected {
			marker = "●"
		}

		line := fmt.Sprintf("%s %s", marker, nameStyle.Render(plan.Name))
		price := fmt.Sprintf("$%d/mo · %s min included",
			plan.PriceCents/100, formatMinutes(plan.IncludedMinutes))

		card := line + "  " + priceStyle.Render(price) + "\n" +
			"  " + blurbStyle.Render(plan.Blurb)

		cardStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderDefault)).
			Padding(0, 1).
			Width(min(p.width-4, 64))
		if i == p.cursor {
			cardStyle = cardStyle.BorderForeground(lipgloss.Color(t.BorderFocused))
		}

		b.WriteString(cardStyle.Render(card))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"↑/↓", "highlight",
		"space", "choose plan",
		"tab", "buttons",
	))

	return b.String()
}

// formatMinutes renders an included-minutes quota with a thousands
// separator.
func formatMinutes(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}
