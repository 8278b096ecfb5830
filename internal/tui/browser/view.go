package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/overlay"
	"github.com/alexisbeaulieu97/careerdesk/internal/pagination"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/tui/components"
)

// View renders the current model state
func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewHelp:
		return m.renderHelpView()
	case ViewConfirm:
		return m.renderConfirmView()
	case ViewForm:
		return m.form.View()
	default:
		return m.renderListView()
	}
}

// renderListView renders the tabbed collection list
func (m Model) renderListView() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var content strings.Builder

	content.WriteString(m.renderHeader())
	content.WriteString("\n")

	if m.showError {
		content.WriteString(errorBannerStyle.Render(m.errorMsg))
		content.WriteString("\n")
	} else if m.infoMsg != "" {
		content.WriteString(infoBannerStyle.Render(m.infoMsg))
		content.WriteString("\n")
	}

	if menu := m.renderMenu(); menu != "" {
		content.WriteString(menu)
		content.WriteString("\n")
	}

	content.WriteString(m.renderTab())
	content.WriteString("\n")

	content.WriteString(m.renderFooter())

	return content.String()
}

// renderHeader renders the title, identity, counts and tabs
func (m Model) renderHeader() string {
	title := titleStyle.Render("careerdesk")
	who := lipgloss.NewStyle().Foreground(mutedColor).Render(m.deps.Session.Describe())

	counts := make([]components.CollectionCount, 0, len(m.tabs))
	tabs := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		counts = append(counts, components.CollectionCount{
			Title:  t.col.Title,
			Count:  len(t.records),
			Stale:  t.stale,
			Failed: t.err != "" && !t.loaded,
		})

		label := fmt.Sprintf("%d %s", i+1, t.col.Title)
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", who),
	}
	if summary := components.NewSummary(counts).View(); summary != "" && m.anyLoaded() {
		lines = append(lines, filterStyle.Render(summary))
	}
	lines = append(lines, strings.Join(tabs, " "))

	return stylesFor(m.width).header.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) anyLoaded() bool {
	for _, t := range m.tabs {
		if t.loaded || t.err != "" {
			return true
		}
	}
	return false
}

// renderTab renders the active collection: banners, filters, rows and pager
func (m Model) renderTab() string {
	if len(m.tabs) == 0 {
		return emptyStateStyle.Render("No collections are available to this account.")
	}
	t := m.tabs[m.active]

	var sections []string

	if t.loading && !t.loaded {
		sections = append(sections, fmt.Sprintf("  %s Loading %s...", m.spinner.View(), t.col.Name))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if t.err != "" {
		sections = append(sections, errorBannerStyle.Render(t.err))
	}
	if t.stale {
		sections = append(sections, staleBannerStyle.Render(
			fmt.Sprintf("Showing saved copy of %s from %s", t.col.Name, strings.ToLower(FormatAge(t.fetchedAt, m.now())))))
	}
	if !t.loaded {
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.searching {
		sections = append(sections, "  "+m.search.View())
	}
	sections = append(sections, filterStyle.Render(describeFilters(t)))

	if len(t.filtered) == 0 {
		msg := fmt.Sprintf("No %s yet.", t.col.Name)
		if len(t.records) > 0 {
			msg = fmt.Sprintf("No %s match the current filters. Press C to clear them.", t.col.Name)
		}
		sections = append(sections, emptyStateStyle.Render(msg))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, columnHeaderStyle.Render(m.renderRow(t.col, nil)))
	sized := stylesFor(m.width)
	for i, r := range pagination.Slice(t.filtered, t.page) {
		row := m.renderRow(t.col, &r)
		if i == t.cursor {
			sections = append(sections, sized.selected.Render(row))
		} else {
			sections = append(sections, sized.item.Render(row))
		}
	}

	if t.refreshing() {
		sections = append(sections, fmt.Sprintf("  %s Refreshing %s...", m.spinner.View(), t.col.Name))
	}

	control := pagination.NewControl(t.page, nil)
	pager := fmt.Sprintf("  %s  %s", control.View(),
		lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf("page %d of %d", t.page.CurrentPage, t.page.TotalPages())))
	sections = append(sections, "", pager)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (t tab) refreshing() bool {
	return t.loading && t.loaded
}

// renderRow renders one table row, or the header row when r is nil
func (m Model) renderRow(col catalog.Collection, r *record.Record) string {
	mark := "  "
	if r != nil && m.deps.Bookmarks != nil && m.deps.Bookmarks.Has(col.Name, r.ID) {
		glyph := "★"
		if !m.deps.Unicode {
			glyph = "*"
		}
		mark = savedMarkStyle.Render(glyph) + " "
	}

	cells := make([]string, 0, len(col.Columns))
	for _, c := range col.Columns {
		text := c.Header
		if r != nil {
			text = cellValue(col, c, *r)
		}
		cells = append(cells, padding.String(truncate.StringWithTail(text, uint(c.Width), "…"), uint(c.Width)))
	}
	return mark + strings.Join(cells, " ")
}

func cellValue(col catalog.Collection, c catalog.Column, r record.Record) string {
	if c.Path == col.RecencyField {
		if ts, ok := r.Time(c.Path); ok {
			return ts.Format("2006-01-02")
		}
	}
	return r.String(c.Path)
}

// describeFilters summarises the active filters of t
func describeFilters(t tab) string {
	parts := []string{fmt.Sprintf("%d of %d", len(t.filtered), len(t.records))}
	if s := strings.TrimSpace(t.query.Search); s != "" {
		parts = append(parts, fmt.Sprintf("search %q", s))
	}
	if t.query.Category != "" {
		parts = append(parts, fmt.Sprintf("%s: %s", t.col.CategoryLabel, t.query.Category))
	}
	if !t.query.Since.IsZero() {
		parts = append(parts, "last 7 days")
	}
	if t.query.Recent {
		parts = append(parts, "newest first")
	}
	return strings.Join(parts, "  •  ")
}

// renderMenu renders the open overlay menu, if any
func (m Model) renderMenu() string {
	var title string
	var lines []string

	switch m.menu.Open() {
	case overlay.Profile:
		title = "Profile"
		sess := m.deps.Session
		lines = append(lines, sess.Describe())
		if sess.Authenticated() {
			lines = append(lines, fmt.Sprintf("role: %s", sess.Role()))
			if !sess.Claims.ExpiresAt.IsZero() {
				lines = append(lines, fmt.Sprintf("session expires %s", sess.Claims.ExpiresAt.Format("Jan 2, 2006 15:04")))
			}
			lines = append(lines, "sign out with `careerdesk logout`")
		} else {
			lines = append(lines, "sign in with `careerdesk login`")
		}

	case overlay.Mail:
		title = "Notifications"
		if len(m.notices) == 0 {
			lines = append(lines, "Nothing new")
		}
		for _, n := range m.notices {
			lines = append(lines, fmt.Sprintf("%s  %s", successStyle.Render(n.Text),
				lipgloss.NewStyle().Foreground(mutedColor).Render(FormatAge(n.At, m.now()))))
		}
		if len(m.notices) > 0 {
			lines = append(lines, "", "d: clear")
		}

	case overlay.Create:
		title = "Create"
		lines = append(lines,
			helpKeyStyle.Render("j")+helpDescStyle.Render("New job"),
			helpKeyStyle.Render("i")+helpDescStyle.Render("New internship"),
		)

	default:
		return ""
	}

	body := append([]string{menuTitleStyle.Render(title)}, lines...)
	return menuStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

// renderFooter renders the footer with keyboard shortcuts
func (m Model) renderFooter() string {
	var hints []string
	switch {
	case m.searching:
		hints = []string{"enter: keep search", "esc: clear search"}
	case m.menu.Open() != overlay.None:
		hints = []string{"esc: close menu"}
		if m.menu.IsOpen(overlay.Create) {
			hints = append([]string{"j: job", "i: internship"}, hints...)
		}
	default:
		hints = []string{
			"↑/↓: navigate",
			"←/→: page",
			"tab: collection",
			"/: search",
			"enter: open",
			"?: help",
		}
		if m.showError {
			hints = append(hints, "x: dismiss error")
		}
		hints = append(hints, "q: quit")
	}

	return stylesFor(m.width).footer.Render(strings.Join(hints, "  •  "))
}

// FormatAge formats a timestamp relative to now
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return "Never"
	}

	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2, 2006")
	}
}

// renderDetailView renders every field of the selected record
func (m Model) renderDetailView() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	t := m.current()
	r, ok := m.recordByID(m.selectedID)
	if t == nil || !ok {
		return "Record not found"
	}

	var content strings.Builder

	header := t.col.Summary(r)
	if m.deps.Bookmarks != nil && m.deps.Bookmarks.Has(t.col.Name, r.ID) {
		header += "  " + savedMarkStyle.Render("saved")
	}
	content.WriteString(titleStyle.Render(header))
	content.WriteString("\n\n")

	if m.showError {
		content.WriteString(errorBannerStyle.Render(m.errorMsg))
		content.WriteString("\n")
	} else if m.infoMsg != "" {
		content.WriteString(infoBannerStyle.Render(m.infoMsg))
		content.WriteString("\n")
	}

	valueWidth := m.width - 30
	if valueWidth < 20 {
		valueWidth = 20
	}
	content.WriteString(detailLabelStyle.Render("id"))
	content.WriteString(detailValueStyle.Render(r.ID))
	content.WriteString("\n")
	for _, field := range r.Flatten() {
		wrapped := wordwrap.String(field.Value, valueWidth)
		content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			detailLabelStyle.Render(field.Path),
			detailValueStyle.Render(wrapped)))
		content.WriteString("\n")
	}

	if m.loading[applyKey(r.ID)] {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(primaryColor).Render(
			fmt.Sprintf("%s Applying...", m.spinner.View())))
		content.WriteString("\n")
	}

	hints := []string{"s: save"}
	if t.col.Appliable && m.deps.Session.CanApply() {
		hints = append(hints, "a: apply")
	}
	hints = append(hints, "esc: back", "?: help", "q: quit")
	footer := stylesFor(m.width).footer.Render(strings.Join(hints, "  •  "))

	contentHeight := m.height - 4
	lines := strings.Split(content.String(), "\n")
	if contentHeight > 0 && len(lines) > contentHeight {
		lines = lines[:contentHeight]
		content.Reset()
		content.WriteString(strings.Join(lines, "\n"))
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(mutedColor).Render("... (content truncated)"))
		content.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, content.String(), footer)
}

var helpSections = []struct {
	title string
	keys  [][2]string
}{
	{"List", [][2]string{
		{"↑/↓, j/k", "Move the cursor"},
		{"←/→, h/l", "Previous / next page"},
		{"g / G", "First / last page"},
		{"tab, 1-9", "Switch collection"},
		{"enter", "Open the selected record"},
		{"r", "Refresh the collection"},
	}},
	{"Filters", [][2]string{
		{"/", "Search"},
		{"c", "Cycle the category filter"},
		{"w", "Only the last 7 days"},
		{"n", "Newest first"},
		{"C", "Clear every filter"},
	}},
	{"Actions", [][2]string{
		{"s", "Save or unsave"},
		{"a", "Apply (students)"},
		{"+", "Post a job or internship (admins)"},
		{"p / m", "Profile / notifications"},
		{"?", "Toggle this help"},
		{"q, ctrl+c", "Quit"},
	}},
}

// renderHelpView renders the help overlay
func (m Model) renderHelpView() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var body []string
	for _, section := range helpSections {
		body = append(body, lipgloss.NewStyle().Bold(true).Render(section.title))
		for _, kv := range section.keys {
			body = append(body, "  "+helpKeyStyle.Render(kv[0])+helpDescStyle.Render(kv[1]))
		}
		body = append(body, "")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("careerdesk help"),
		lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, body...)),
		stylesFor(m.width).footer.Render("Press ? or Esc to close"),
	)
}

// renderConfirmView renders a confirmation dialog
func (m Model) renderConfirmView() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	message := m.confirmMessage
	if message == "" {
		message = "Confirm action?"
	}

	dialog := confirmBoxStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Center,
			message,
			"",
			lipgloss.NewStyle().Foreground(mutedColor).Render("y = Yes    n = No    Esc = Cancel"),
		),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(dialog)
}
