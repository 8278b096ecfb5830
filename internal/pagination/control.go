package pagination

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	currentPageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Underline(true)

	pageStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	ellipsisStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	arrowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Control turns page navigation requests into OnPageChange callbacks. It
// holds a snapshot of the caller's page position and never changes it; the
// caller updates its own PageState when the callback fires.
type Control struct {
	current      int
	total        int
	onPageChange func(int)
}

// NewControl builds a control for the given state.
func NewControl(state PageState, onPageChange func(int)) Control {
	c := state.Clamp()
	return Control{current: c.CurrentPage, total: c.TotalPages(), onPageChange: onPageChange}
}

// Tokens returns the page window for the control.
func (c Control) Tokens() []Token {
	return ComputeWindow(c.current, c.total)
}

// HasPrevious reports whether Previous would emit.
func (c Control) HasPrevious() bool {
	return c.total > 0 && c.current > 1
}

// HasNext reports whether Next would emit.
func (c Control) HasNext() bool {
	return c.total > 0 && c.current < c.total
}

// Previous requests the page before the current one.
func (c Control) Previous() bool {
	if !c.HasPrevious() {
		return false
	}
	return c.emit(c.current - 1)
}

// Next requests the page after the current one.
func (c Control) Next() bool {
	if !c.HasNext() {
		return false
	}
	return c.emit(c.current + 1)
}

// Select requests a specific page. Selecting the current page or a page
// outside the range is inert.
func (c Control) Select(page int) bool {
	if page == c.current || page < 1 || page > c.total {
		return false
	}
	return c.emit(page)
}

// First requests page 1.
func (c Control) First() bool {
	return c.Select(1)
}

// Last requests the final page.
func (c Control) Last() bool {
	return c.Select(c.total)
}

func (c Control) emit(page int) bool {
	if c.onPageChange != nil {
		c.onPageChange(page)
	}
	return true
}

// View renders the control for the terminal. The current page is
// highlighted and unavailable arrows are dimmed.
func (c Control) View() string {
	if c.total == 0 {
		return ""
	}

	parts := make([]string, 0, len(c.Tokens())+2)
	parts = append(parts, arrow("‹", c.HasPrevious()))
	for _, tok := range c.Tokens() {
		switch {
		case tok.Ellipsis:
			parts = append(parts, ellipsisStyle.Render(tok.String()))
		case tok.Page == c.current:
			parts = append(parts, currentPageStyle.Render(tok.String()))
		default:
			parts = append(parts, pageStyle.Render(tok.String()))
		}
	}
	parts = append(parts, arrow("›", c.HasNext()))
	return strings.Join(parts, " ")
}

// Format renders the control as plain text, marking the current page with
// brackets, e.g. "< 1 … 4 [5] 6 … 10 >".
func (c Control) Format() string {
	if c.total == 0 {
		return ""
	}

	parts := make([]string, 0, len(c.Tokens())+2)
	if c.HasPrevious() {
		parts = append(parts, "<")
	}
	for _, tok := range c.Tokens() {
		if !tok.Ellipsis && tok.Page == c.current {
			parts = append(parts, "["+tok.String()+"]")
			continue
		}
		parts = append(parts, tok.String())
	}
	if c.HasNext() {
		parts = append(parts, ">")
	}
	return strings.Join(parts, " ")
}

func arrow(glyph string, enabled bool) string {
	if enabled {
		return arrowStyle.Render(glyph)
	}
	return disabledStyle.Render(glyph)
}
