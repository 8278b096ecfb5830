// Package browser is the interactive collection browser: one tab per
// collection with search, filters, pagination, a detail view and the
// posting wizard.
package browser

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/logger"
	"github.com/alexisbeaulieu97/careerdesk/internal/overlay"
	"github.com/alexisbeaulieu97/careerdesk/internal/pagination"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/session"
	"github.com/alexisbeaulieu97/careerdesk/internal/tui/postform"
)

// RecentWindow is how far back the "recent" filter reaches.
const RecentWindow = 7 * 24 * time.Hour

// maxNotices bounds the notifications kept for the mail menu.
const maxNotices = 20

// Deps are the services the browser talks to.
type Deps struct {
	Loader    Loader
	Client    Client
	Bookmarks Bookmarks
	Session   session.Session
	Logger    *logger.Logger
	PageSize  int
	Unicode   bool
	Now       func() time.Time
}

// tab is the state of one collection. Each tab owns its own page position
// and filters.
type tab struct {
	col        catalog.Collection
	records    []record.Record
	filtered   []record.Record
	query      catalog.Query
	page       pagination.PageState
	cursor     int
	loaded     bool
	loading    bool
	stale      bool
	fetchedAt  time.Time
	err        string
	categories []string
}

// Notice is an entry in the mail menu.
type Notice struct {
	At   time.Time
	Text string
}

// Model holds the browser's tabs, the active view and any embedded posting
// form.
type Model struct {
	deps Deps
	log  *logger.Logger
	now  func() time.Time

	// Core data
	tabs   []tab
	active int

	// UI state
	viewMode   ViewMode
	selectedID string
	menu       overlay.Menu
	search     textinput.Model
	searching  bool
	notices    []Notice

	// Component state
	spinner spinner.Model
	form    postform.Model

	// Operation state
	loading       map[string]bool
	operationCtxs map[string]context.CancelFunc
	showError     bool
	errorMsg      string
	infoMsg       string

	// Confirmation state
	confirmAction  string
	confirmID      string
	confirmMessage string

	// Dimensions
	width  int
	height int
}

// NewModel creates a new browser model over the collections the session
// may see.
func NewModel(deps Deps) Model {
	if deps.PageSize <= 0 {
		deps.PageSize = pagination.DefaultItemsPerPage
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 100
	search.Width = 40

	visible := catalog.Visible(deps.Session)
	tabs := make([]tab, len(visible))
	for i, col := range visible {
		tabs[i] = tab{col: col, page: pagination.NewPageState(deps.PageSize, 0), loading: deps.Loader != nil}
	}

	return Model{
		deps:          deps,
		log:           deps.Logger.With("component", "browser"),
		now:           deps.Now,
		tabs:          tabs,
		viewMode:      ViewList,
		search:        search,
		spinner:       s,
		loading:       make(map[string]bool),
		operationCtxs: make(map[string]context.CancelFunc),
		width:         80,
		height:        24,
	}
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.deps.Loader != nil && len(m.tabs) > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		m.operationCtxs[loadAllKey] = cancel
		cols := make([]catalog.Collection, len(m.tabs))
		for i, t := range m.tabs {
			cols[i] = t.col
		}
		cmds = append(cmds, loadAllCmd(ctx, m.deps.Loader, cols))
	}
	return tea.Batch(cmds...)
}

const loadAllKey = "load:all"

func fetchKey(collection string) string { return "fetch:" + collection }

func applyKey(id string) string { return "apply:" + id }

// Helper Methods

// current returns the active tab.
func (m *Model) current() *tab {
	if len(m.tabs) == 0 {
		return nil
	}
	return &m.tabs[m.active]
}

// tabFor returns the tab showing collection.
func (m *Model) tabFor(collection string) *tab {
	for i := range m.tabs {
		if m.tabs[i].col.Name == collection {
			return &m.tabs[i]
		}
	}
	return nil
}

// ActiveCollection returns the collection of the visible tab.
func (m Model) ActiveCollection() (catalog.Collection, bool) {
	if len(m.tabs) == 0 {
		return catalog.Collection{}, false
	}
	return m.tabs[m.active].col, true
}

// Collections returns the tabs in display order.
func (m Model) Collections() []string {
	out := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		out[i] = t.col.Name
	}
	return out
}

// Page returns the visible tab's page state.
func (m Model) Page() pagination.PageState {
	if len(m.tabs) == 0 {
		return pagination.PageState{}
	}
	return m.tabs[m.active].page
}

// Query returns the visible tab's filters.
func (m Model) Query() catalog.Query {
	if len(m.tabs) == 0 {
		return catalog.Query{}
	}
	return m.tabs[m.active].query
}

// Visible returns the records on the current page of the visible tab.
func (m Model) Visible() []record.Record {
	if len(m.tabs) == 0 {
		return nil
	}
	t := m.tabs[m.active]
	return pagination.Slice(t.filtered, t.page)
}

// Filtered returns every record of the visible tab that passes its filters.
func (m Model) Filtered() []record.Record {
	if len(m.tabs) == 0 {
		return nil
	}
	return m.tabs[m.active].filtered
}

// GetSelected returns the record under the cursor.
func (m Model) GetSelected() (record.Record, bool) {
	page := m.Visible()
	if len(page) == 0 {
		return record.Record{}, false
	}
	cursor := m.tabs[m.active].cursor
	if cursor < 0 || cursor >= len(page) {
		return record.Record{}, false
	}
	return page[cursor], true
}

// recordByID finds a record in the visible tab.
func (m Model) recordByID(id string) (record.Record, bool) {
	if len(m.tabs) == 0 {
		return record.Record{}, false
	}
	for _, r := range m.tabs[m.active].records {
		if r.ID == id {
			return r, true
		}
	}
	return record.Record{}, false
}

// GetViewMode returns the current view mode
func (m Model) GetViewMode() ViewMode {
	return m.viewMode
}

// Menu returns the overlay menu state.
func (m Model) Menu() overlay.Menu {
	return m.menu
}

// Notices returns the session notifications, newest first.
func (m Model) Notices() []Notice {
	out := make([]Notice, len(m.notices))
	copy(out, m.notices)
	return out
}

// IsLoading reports whether a fetch for collection is in flight.
func (m Model) IsLoading(collection string) bool {
	t := m.tabFor(collection)
	return t != nil && t.loading
}

// setRecords replaces a tab's records and refilters. The page is kept when
// the filtered size is unchanged.
func (t *tab) setRecords(records []record.Record) {
	t.records = records
	t.loaded = true
	t.categories = t.col.Categories(records)
	t.filtered = t.col.Apply(t.records, t.query)
	t.page = t.page.Resize(len(t.filtered))
	t.clampCursor()
}

// setQuery applies new filters and returns to page 1.
func (t *tab) setQuery(q catalog.Query) {
	t.query = q
	t.filtered = t.col.Apply(t.records, t.query)
	t.page = pagination.NewPageState(t.page.ItemsPerPage, len(t.filtered))
	t.cursor = 0
}

func (t *tab) clampCursor() {
	start, end := t.page.Bounds(len(t.filtered))
	size := end - start
	if t.cursor >= size {
		t.cursor = size - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// turnPage routes a page request through the pagination control.
func (t *tab) turnPage(request func(pagination.Control) bool) bool {
	target := 0
	control := pagination.NewControl(t.page, func(page int) { target = page })
	if !request(control) {
		return false
	}
	t.page = t.page.WithPage(target)
	t.cursor = 0
	return true
}

// cycleCategory moves the category filter to the next known value, wrapping
// back to no filter.
func (t *tab) cycleCategory() {
	if t.col.CategoryField == "" {
		return
	}
	q := t.query
	next := ""
	if q.Category == "" {
		if len(t.categories) > 0 {
			next = t.categories[0]
		}
	} else {
		for i, c := range t.categories {
			if c == q.Category && i+1 < len(t.categories) {
				next = t.categories[i+1]
			}
		}
	}
	q.Category = next
	t.setQuery(q)
}

func (m *Model) notify(text string) {
	m.infoMsg = text
	m.notices = append([]Notice{{At: m.now(), Text: text}}, m.notices...)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[:maxNotices]
	}
}

func (m *Model) setError(msg string) {
	m.showError = true
	m.errorMsg = msg
	m.infoMsg = ""
}

func (m *Model) clearError() {
	m.showError = false
	m.errorMsg = ""
}

// cancelOperation cancels an in-flight operation by key.
func (m *Model) cancelOperation(key string) {
	if cancel, ok := m.operationCtxs[key]; ok {
		cancel()
		delete(m.operationCtxs, key)
	}
	delete(m.loading, key)
}

// cancelAll cancels every in-flight operation.
func (m *Model) cancelAll() {
	for key := range m.operationCtxs {
		m.cancelOperation(key)
	}
}
