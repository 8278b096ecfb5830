package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/overlay"
	"github.com/alexisbeaulieu97/careerdesk/internal/pagination"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/tui/postform"
	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

const (
	minWidth  = 80
	minHeight = 24
)

// Update routes key presses to the active view and folds fetch results,
// errors and form outcomes into the browser state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// System messages
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if m.width < minWidth || m.height < minHeight {
			m.setError(fmt.Sprintf("Terminal too small (%dx%d). Minimum size: %dx%d",
				m.width, m.height, minWidth, minHeight))
		} else if m.showError && strings.HasPrefix(m.errorMsg, "Terminal too small") {
			m.clearError()
		}

		if m.viewMode == ViewForm {
			return m.updateForm(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	// Spinner tick for loading animations
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.viewMode == ViewForm {
			next, formCmd := m.updateForm(msg)
			return next, tea.Batch(cmd, formCmd)
		}
		return m, cmd

	// Fetch messages
	case LoadedMsg:
		delete(m.operationCtxs, loadAllKey)
		for _, result := range msg.Results {
			t := m.tabFor(result.Collection)
			if t == nil {
				continue
			}
			t.loading = false
			if result.Err != nil && !result.Stale {
				t.err = loadFailure(t.col, result.Err)
				m.log.With("collection", t.col.Name).Error(result.Err, "initial load failed")
				continue
			}
			t.err = ""
			t.stale = result.Stale
			t.fetchedAt = result.FetchedAt
			t.setRecords(result.Records)
		}
		return m, nil

	case LoadCancelledMsg:
		delete(m.operationCtxs, loadAllKey)
		for i := range m.tabs {
			m.tabs[i].loading = false
		}
		return m, nil

	case FetchCompleteMsg:
		delete(m.operationCtxs, fetchKey(msg.Result.Collection))
		if t := m.tabFor(msg.Result.Collection); t != nil {
			t.loading = false
			t.err = ""
			t.stale = msg.Result.Stale
			t.fetchedAt = msg.Result.FetchedAt
			t.setRecords(msg.Result.Records)
		}
		return m, nil

	case FetchErrorMsg:
		delete(m.operationCtxs, fetchKey(msg.Collection))
		if t := m.tabFor(msg.Collection); t != nil {
			t.loading = false
			t.err = loadFailure(t.col, msg.Error)
		}
		m.log.With("collection", msg.Collection).Error(msg.Error, "refresh failed")
		return m, nil

	case FetchCancelledMsg:
		delete(m.operationCtxs, fetchKey(msg.Collection))
		if t := m.tabFor(msg.Collection); t != nil {
			t.loading = false
		}
		return m, nil

	// Apply messages
	case ApplyCompleteMsg:
		delete(m.operationCtxs, applyKey(msg.ID))
		delete(m.loading, applyKey(msg.ID))
		m.notify(fmt.Sprintf("Applied to %s", msg.Title))
		return m, nil

	case ApplyErrorMsg:
		delete(m.operationCtxs, applyKey(msg.ID))
		delete(m.loading, applyKey(msg.ID))
		m.setError(fmt.Sprintf("Apply failed: %s", describeError(msg.Error)))
		m.log.With("collection", msg.Collection, "id", msg.ID).Error(msg.Error, "apply failed")
		return m, nil

	case ApplyCancelledMsg:
		delete(m.operationCtxs, applyKey(msg.ID))
		delete(m.loading, applyKey(msg.ID))
		return m, nil

	case BookmarkToggledMsg:
		if msg.Saved {
			m.notify(fmt.Sprintf("Saved %s", msg.Title))
		} else {
			m.notify(fmt.Sprintf("Removed %s from saved", msg.Title))
		}
		return m, nil

	case postform.ClosedMsg:
		m.viewMode = ViewList
		if msg.Created == nil {
			return m, nil
		}
		m.notify(fmt.Sprintf("Posted %s %s", msg.Kind, msg.Created.ID))
		cmd := m.refresh(msg.Kind.Collection())
		return m, cmd

	// Error messages
	case ErrorMsg:
		m.setError(msg.Message)
		return m, nil

	case ClearErrorMsg:
		m.clearError()
		return m, nil
	}

	switch {
	case m.viewMode == ViewForm:
		return m.updateForm(msg)
	case m.searching:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress handles keyboard input based on current view mode
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewMode {
	case ViewList:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		if m.menu.Open() != overlay.None {
			return m.handleMenuKeys(msg)
		}
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	case ViewForm:
		return m.updateForm(msg)
	default:
		return m, nil
	}
}

// handleListKeys handles keys in list view
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.current()

	switch msg.String() {
	// Clear banners
	case "x", "esc":
		m.clearError()
		m.infoMsg = ""
		return m, nil

	// Quit
	case "q", "ctrl+c":
		m.cancelAll()
		return m, tea.Quit

	// Help
	case "?":
		m.viewMode = ViewHelp
		return m, nil

	// Overlay menus
	case "p":
		m.menu = m.menu.Toggle(overlay.Profile)
		return m, nil
	case "m":
		m.menu = m.menu.Toggle(overlay.Mail)
		return m, nil
	case "+":
		if !m.deps.Session.CanPost() {
			m.setError("Only admins can post listings")
			return m, nil
		}
		m.menu = m.menu.Toggle(overlay.Create)
		return m, nil

	// Collection tabs
	case "tab":
		return m.switchTab(m.active + 1)
	case "shift+tab":
		return m.switchTab(m.active - 1)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		index := int(msg.String()[0] - '1')
		if index < len(m.tabs) {
			return m.switchTab(index)
		}
		return m, nil
	}

	if t == nil {
		return m, nil
	}

	switch msg.String() {
	// Navigation
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil

	// Pages
	case "left", "h", "pgup":
		t.turnPage(pagination.Control.Previous)
		return m, nil
	case "right", "l", "pgdown":
		t.turnPage(pagination.Control.Next)
		return m, nil
	case "home", "g":
		t.turnPage(pagination.Control.First)
		return m, nil
	case "end", "G":
		t.turnPage(pagination.Control.Last)
		return m, nil

	// Filters
	case "/":
		m.searching = true
		m.search.SetValue(t.query.Search)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case "c":
		t.cycleCategory()
		return m, nil
	case "n":
		q := t.query
		q.Recent = !q.Recent
		t.setQuery(q)
		return m, nil
	case "w":
		q := t.query
		if q.Since.IsZero() {
			q.Since = m.now().Add(-RecentWindow)
		} else {
			q.Since = time.Time{}
		}
		t.setQuery(q)
		return m, nil
	case "C":
		t.setQuery(catalog.Query{})
		m.search.SetValue("")
		return m, nil

	// Actions
	case "enter", " ":
		if selected, ok := m.GetSelected(); ok {
			m.selectedID = selected.ID
			m.viewMode = ViewDetail
		}
		return m, nil
	case "r":
		cmd := m.refresh(t.col.Name)
		return m, cmd
	case "s":
		return m, m.toggleSaved()
	case "a":
		return m.confirmApply()
	}

	return m, nil
}

// handleSearchKeys edits the search phrase, refiltering on every change.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.cancelAll()
		return m, tea.Quit
	case "enter", "tab":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applySearch()
	return m, cmd
}

func (m *Model) applySearch() {
	t := m.current()
	if t == nil || t.query.Search == m.search.Value() {
		return
	}
	q := t.query
	q.Search = m.search.Value()
	t.setQuery(q)
}

// handleMenuKeys handles keys while an overlay menu is open.
func (m Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.cancelAll()
		return m, tea.Quit
	case "esc":
		m.menu = m.menu.Close()
		return m, nil
	case "p":
		m.menu = m.menu.Toggle(overlay.Profile)
		return m, nil
	case "m":
		m.menu = m.menu.Toggle(overlay.Mail)
		return m, nil
	case "+":
		if m.deps.Session.CanPost() {
			m.menu = m.menu.Toggle(overlay.Create)
		}
		return m, nil
	}

	if m.menu.IsOpen(overlay.Mail) && msg.String() == "d" {
		m.notices = nil
		return m, nil
	}

	if m.menu.IsOpen(overlay.Create) {
		switch msg.String() {
		case "j":
			return m.openForm(postform.KindJob)
		case "i":
			return m.openForm(postform.KindInternship)
		}
	}
	return m, nil
}

// handleDetailKeys handles keys in detail view
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x":
		m.clearError()
		return m, nil

	case "q", "ctrl+c":
		m.cancelAll()
		return m, tea.Quit

	// Back to list (or cancel application with confirmation)
	case "esc", "backspace":
		if m.loading[applyKey(m.selectedID)] {
			m.confirmAction = "cancel_apply"
			m.confirmID = m.selectedID
			m.confirmMessage = "Cancel application?"
			m.viewMode = ViewConfirm
			return m, nil
		}
		m.viewMode = ViewList
		m.selectedID = ""
		return m, nil

	case "s":
		return m, m.toggleSaved()

	case "a":
		return m.confirmApply()

	case "?":
		m.viewMode = ViewHelp
		return m, nil
	}
	return m, nil
}

// handleHelpKeys handles keys in help view
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		if m.selectedID != "" {
			m.viewMode = ViewDetail
		} else {
			m.viewMode = ViewList
		}
		return m, nil
	case "ctrl+c":
		m.cancelAll()
		return m, tea.Quit
	}
	return m, nil
}

// handleConfirmKeys handles keys in confirmation dialog
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	back := func(m Model) Model {
		m.confirmAction = ""
		m.confirmID = ""
		m.confirmMessage = ""
		if m.selectedID != "" {
			m.viewMode = ViewDetail
		} else {
			m.viewMode = ViewList
		}
		return m
	}

	switch msg.String() {
	case "y", "Y":
		action, id := m.confirmAction, m.confirmID
		m = back(m)

		switch action {
		case "apply":
			r, ok := m.recordByID(id)
			t := m.current()
			if !ok || t == nil || m.deps.Client == nil {
				return m, nil
			}
			ctx, cancel := context.WithCancel(context.Background())
			m.operationCtxs[applyKey(id)] = cancel
			m.loading[applyKey(id)] = true
			return m, tea.Batch(m.spinner.Tick, applyCmd(ctx, m.deps.Client, t.col, r))

		case "cancel_apply":
			m.cancelOperation(applyKey(id))
			return m, nil
		}
		return m, nil

	case "n", "N", "esc":
		return back(m), nil
	}
	return m, nil
}

// switchTab activates tab i (wrapping), cancelling the refresh of the tab
// being left.
func (m Model) switchTab(i int) (tea.Model, tea.Cmd) {
	if len(m.tabs) == 0 {
		return m, nil
	}
	i = (i%len(m.tabs) + len(m.tabs)) % len(m.tabs)
	if i == m.active {
		return m, nil
	}

	leaving := m.current()
	if _, ok := m.operationCtxs[fetchKey(leaving.col.Name)]; ok {
		m.cancelOperation(fetchKey(leaving.col.Name))
		leaving.loading = false
	}

	m.active = i
	m.menu = m.menu.Close()
	m.search.SetValue(m.tabs[i].query.Search)
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	t := m.current()
	size := len(m.Visible())
	if t == nil || size == 0 {
		return
	}
	t.cursor = (t.cursor + delta + size) % size
}

// refresh starts a fetch of collection unless one is already running.
func (m *Model) refresh(collection string) tea.Cmd {
	t := m.tabFor(collection)
	if t == nil || m.deps.Loader == nil {
		return nil
	}
	if _, running := m.operationCtxs[fetchKey(collection)]; running {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.operationCtxs[fetchKey(collection)] = cancel
	t.loading = true
	return tea.Batch(m.spinner.Tick, fetchCmd(ctx, m.deps.Loader, t.col))
}

func (m *Model) toggleSaved() tea.Cmd {
	t := m.current()
	if t == nil || m.deps.Bookmarks == nil {
		return nil
	}
	r, ok := m.focused()
	if !ok {
		return nil
	}
	return toggleBookmarkCmd(m.deps.Bookmarks, t.col, r, m.now())
}

// focused is the record the detail view shows, or the list selection.
func (m Model) focused() (record.Record, bool) {
	if m.viewMode == ViewDetail && m.selectedID != "" {
		return m.recordByID(m.selectedID)
	}
	return m.GetSelected()
}

func (m Model) confirmApply() (tea.Model, tea.Cmd) {
	t := m.current()
	if t == nil {
		return m, nil
	}
	if !t.col.Appliable {
		m.setError(fmt.Sprintf("You cannot apply to %s", t.col.Name))
		return m, nil
	}
	if !m.deps.Session.CanApply() {
		m.setError("Only signed-in students can apply")
		return m, nil
	}
	r, ok := m.focused()
	if !ok {
		return m, nil
	}
	if m.loading[applyKey(r.ID)] {
		return m, nil
	}
	m.confirmAction = "apply"
	m.confirmID = r.ID
	m.confirmMessage = fmt.Sprintf("Apply to '%s'?", t.col.Summary(r))
	m.viewMode = ViewConfirm
	return m, nil
}

func (m Model) openForm(kind postform.Kind) (tea.Model, tea.Cmd) {
	m.menu = m.menu.Close()
	var creator postform.Creator
	if m.deps.Client != nil {
		creator = m.deps.Client
	}
	form, err := postform.NewModel(kind, creator,
		postform.WithLogger(m.deps.Logger),
		postform.WithUnicode(m.deps.Unicode),
	)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.form = form
	m.viewMode = ViewForm
	return m, form.Init()
}

// updateForm forwards msg to the embedded posting form.
func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.form.Update(msg)
	if form, ok := next.(postform.Model); ok {
		m.form = form
	}
	return m, cmd
}

func loadFailure(col catalog.Collection, err error) string {
	msg := fmt.Sprintf("Failed to load %s", col.Name)
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		msg += " (sign in again with `careerdesk login`)"
	}
	return msg
}

func describeError(err error) string {
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Unauthorized() {
			return "not permitted; sign in again with `careerdesk login`"
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return err.Error()
}
