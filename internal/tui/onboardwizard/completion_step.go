package onboardwizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ringsight/ringsight/internal/tui/theme"
)

// renderCompletion renders the terminal success screen after the tenant has
// been created.
func renderCompletion(tenantID, subdomain string, width int) string {
	t := theme.Current()

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Success)).
		Bold(true).
		Render("✓ Tenant created")

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBright)).Bold(true)

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(label.Render("Tenant ID   "))
	b.WriteString(value.Render(tenantID))
	b.WriteString("\n")
	b.WriteString(label.Render("Portal      "))
	b.WriteString(value.Render("https://" + subdomain + ".ringsight.io"))
	b.WriteString("\n\n")
	b.WriteString(label.Render("The admin user can sign in with the email and password from step 4."))
	b.WriteString("\n\n")
	b.WriteString(renderHintBar("enter", "finish"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Success)).
		Padding(1, 2)

	return lipgloss.Place(width, lipgloss.Height(box.Render(b.String())),
		lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}
