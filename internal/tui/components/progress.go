// Package components holds small rendering helpers shared by the TUI screens.
package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/careerdesk/internal/wizard"
)

// Progress renders how far a wizard has come as a labelled bar.
type Progress struct {
	bar progress.Model
}

// NewProgress creates a progress bar of the given width. Widths below 10
// fall back to 30 columns.
func NewProgress(width int) Progress {
	if width < 10 {
		width = 30
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = width
	return Progress{bar: bar}
}

// View renders "step n/total" followed by the bar filled to completed/total.
func (p Progress) View(completed, total int) string {
	ratio := 0.0
	if total > 0 {
		ratio = math.Min(1.0, float64(completed)/float64(total))
	}
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d/%d", completed, total))
	return lipgloss.JoinHorizontal(lipgloss.Left, label, " ", p.bar.ViewAs(ratio))
}

// ViewState renders the progress of state.
func (p Progress) ViewState(state *wizard.State) string {
	if state == nil {
		return p.View(0, 0)
	}
	done, total := state.Progress()
	return p.View(done, total)
}
