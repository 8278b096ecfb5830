package postform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/careerdesk/internal/tui/components"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(1, 2)

	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

// View renders the form.
func (m Model) View() string {
	var content strings.Builder

	content.WriteString(titleStyle.Render(fmt.Sprintf("New %s", m.kind.Title())))
	content.WriteString("\n")

	steps := components.NewStepList(m.state.Steps(), stepLabels, m.unicode)
	content.WriteString(steps.View())
	content.WriteString("\n")
	content.WriteString(m.progress.ViewState(m.state))
	content.WriteString("\n\n")

	if created, ok := m.Created(); ok {
		content.WriteString(successStyle.Render(fmt.Sprintf("%s posted (id %s)", m.kind.Title(), created.ID)))
		content.WriteString("\n")
		content.WriteString(footerStyle.Render("enter: close"))
		return content.String()
	}

	if section, ok := m.renderer.Select(m.state); ok {
		body := lipgloss.JoinVertical(lipgloss.Left,
			sectionTitleStyle.Render(section.Title()),
			"",
			section.View(),
		)
		content.WriteString(sectionStyle.Render(body))
		content.WriteString("\n")
	}

	if m.submitting {
		content.WriteString(fmt.Sprintf("%s Posting %s...", m.spinner.View(), m.kind))
		content.WriteString("\n")
	}

	if m.errMsg != "" {
		content.WriteString(errorStyle.Render(m.errMsg))
		content.WriteString("\n")
	}

	content.WriteString(m.renderFooter())
	return content.String()
}

func (m Model) renderFooter() string {
	var hints []string
	switch {
	case m.submitting:
		hints = []string{"esc: cancel posting"}
	case m.state.CanSubmit():
		hints = []string{"enter: submit", "esc: back", "alt+1-4: jump"}
	default:
		back := "esc: back"
		if m.state.IsFirst() {
			back = "esc: discard"
		}
		hints = []string{"tab: next field", "enter: continue", back, "alt+1-4: jump"}
	}
	return footerStyle.Render(strings.Join(hints, "  •  "))
}
