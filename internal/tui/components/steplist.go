package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/careerdesk/internal/wizard"
)

var (
	activeStepStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	completedStepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// StepEntry is one wizard step prepared for rendering.
type StepEntry struct {
	Name   string
	Label  string
	Status wizard.Status
}

// StepList renders a horizontal row of wizard steps with their status.
type StepList struct {
	entries []StepEntry
	unicode bool
}

// NewStepList builds a step list from the wizard's steps. labels maps step
// names to display labels; missing labels fall back to the step name.
func NewStepList(steps []wizard.Step, labels map[string]string, unicode bool) StepList {
	entries := make([]StepEntry, 0, len(steps))
	for _, step := range steps {
		label := labels[step.Name]
		if label == "" {
			label = step.Name
		}
		entries = append(entries, StepEntry{Name: step.Name, Label: label, Status: step.Status})
	}
	return StepList{entries: entries, unicode: unicode}
}

// Entries returns the ordered step entries.
func (s StepList) Entries() []StepEntry {
	clone := make([]StepEntry, len(s.entries))
	copy(clone, s.entries)
	return clone
}

// Marker returns the glyph drawn before a step with the given status.
func (s StepList) Marker(status wizard.Status) string {
	switch status {
	case wizard.Completed:
		if s.unicode {
			return "✓"
		}
		return "+"
	case wizard.Active:
		if s.unicode {
			return "●"
		}
		return "*"
	default:
		if s.unicode {
			return "○"
		}
		return "-"
	}
}

// View renders every step as "<marker> <n>. <label>" joined by two spaces.
// The number is the key that jumps to the step.
func (s StepList) View() string {
	parts := make([]string, 0, len(s.entries))
	for i, entry := range s.entries {
		text := fmt.Sprintf("%s %d. %s", s.Marker(entry.Status), i+1, entry.Label)
		switch entry.Status {
		case wizard.Active:
			parts = append(parts, activeStepStyle.Render(text))
		case wizard.Completed:
			parts = append(parts, completedStepStyle.Render(text))
		default:
			parts = append(parts, pendingStepStyle.Render(text))
		}
	}
	return strings.Join(parts, "  ")
}
