package browser

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/careerdesk/internal/listing"
	"github.com/alexisbeaulieu97/careerdesk/internal/overlay"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/session"
	"github.com/alexisbeaulieu97/careerdesk/internal/tui/postform"
	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

func TestUpdate_WindowSizeMsg_TooSmall(t *testing.T) {
	t.Parallel()

	m := NewModel(Deps{})
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.True(t, m.showError)
	assert.Contains(t, m.errorMsg, "Terminal too small")

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.False(t, m.showError)
}

func TestUpdate_LoadedMsg(t *testing.T) {
	t.Parallel()

	m, _, _, _ := newTestModel(t, session.Anonymous())
	m = update(t, m, LoadedMsg{Results: []listing.Result{
		{Collection: "jobs", Records: jobRecords(3), FetchedAt: testNow},
		{Collection: "internships", Err: errors.New("connection refused")},
		{Collection: "materials", Records: jobRecords(2), FetchedAt: testNow.Add(-2 * time.Hour), Stale: true, Err: errors.New("timeout")},
	}})

	assert.False(t, m.IsLoading("jobs"))
	assert.Len(t, m.Filtered(), 3)

	internships := m.tabFor("internships")
	assert.Equal(t, "Failed to load internships", internships.err)
	assert.False(t, internships.loaded)

	materials := m.tabFor("materials")
	assert.True(t, materials.stale)
	assert.Empty(t, materials.err)
	assert.Len(t, materials.records, 2)
}

func TestUpdate_LoadFailureMentionsLoginWhenUnauthorized(t *testing.T) {
	t.Parallel()

	m, _, _, _ := newTestModel(t, session.Anonymous())
	m = update(t, m, FetchErrorMsg{Collection: "jobs", Error: apperrors.NewAPIError("GET /jobs", 401, "expired", nil)})
	assert.Equal(t, "Failed to load jobs (sign in again with `careerdesk login`)", m.tabFor("jobs").err)
}

func TestPagination(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	require.Len(t, m.Visible(), 10)
	assert.Equal(t, "job-01", m.Visible()[0].ID)
	assert.Equal(t, 3, m.Page().TotalPages())

	m = update(t, m, key("right"))
	assert.Equal(t, 2, m.Page().CurrentPage)
	assert.Equal(t, "job-11", m.Visible()[0].ID)

	m = update(t, m, key("G"))
	assert.Equal(t, 3, m.Page().CurrentPage)
	assert.Len(t, m.Visible(), 5)

	m = update(t, m, key("right"))
	assert.Equal(t, 3, m.Page().CurrentPage, "next on the last page is inert")

	m = update(t, m, key("g"))
	assert.Equal(t, 1, m.Page().CurrentPage)

	m = update(t, m, key("left"))
	assert.Equal(t, 1, m.Page().CurrentPage, "previous on the first page is inert")
}

func TestCursorWrapsWithinPage(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	m = update(t, m, key("down"))
	selected, ok := m.GetSelected()
	require.True(t, ok)
	assert.Equal(t, "job-02", selected.ID)

	m = update(t, m, key("up"))
	m = update(t, m, key("up"))
	selected, _ = m.GetSelected()
	assert.Equal(t, "job-10", selected.ID)

	m = update(t, m, key("right"))
	selected, _ = m.GetSelected()
	assert.Equal(t, "job-11", selected.ID, "turning the page resets the cursor")
}

func TestSearchRefiltersAndResetsPage(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	m = update(t, m, key("G"))
	require.Equal(t, 3, m.Page().CurrentPage)

	m = update(t, m, key("/"))
	require.True(t, m.searching)

	m = update(t, m, key("ENGINEER"))
	assert.Equal(t, "ENGINEER", m.Query().Search)
	assert.Len(t, m.Filtered(), 12)
	assert.Equal(t, 1, m.Page().CurrentPage)
	assert.Equal(t, 2, m.Page().TotalPages())

	// q is text while searching, not quit
	m = update(t, m, key("q"))
	assert.Empty(t, m.Filtered())

	m = update(t, m, key("enter"))
	assert.False(t, m.searching)
	assert.Equal(t, "ENGINEERq", m.Query().Search)

	m = update(t, m, key("/"))
	m = update(t, m, key("esc"))
	assert.False(t, m.searching)
	assert.Empty(t, m.Query().Search)
	assert.Len(t, m.Filtered(), 25)
}

func TestCategoryCycle(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())

	m = update(t, m, key("c"))
	assert.Equal(t, "full-time", m.Query().Category)
	assert.Len(t, m.Filtered(), 17)

	m = update(t, m, key("c"))
	assert.Equal(t, "part-time", m.Query().Category)
	assert.Len(t, m.Filtered(), 8)

	m = update(t, m, key("c"))
	assert.Empty(t, m.Query().Category)
	assert.Len(t, m.Filtered(), 25)
}

func TestRecencyFilters(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())

	m = update(t, m, key("w"))
	assert.Equal(t, testNow.Add(-RecentWindow), m.Query().Since)
	assert.Len(t, m.Filtered(), 7)

	m = update(t, m, key("n"))
	assert.True(t, m.Query().Recent)
	assert.Equal(t, "job-01", m.Filtered()[0].ID)

	m = update(t, m, key("c"))
	m = update(t, m, key("C"))
	assert.Equal(t, 25, len(m.Filtered()))
	assert.False(t, m.Query().Recent)
	assert.True(t, m.Query().Since.IsZero())
	assert.Empty(t, m.Query().Category)
}

func TestSwitchingTabsCancelsRefresh(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	m, cmd := updateCmd(t, m, key("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.IsLoading("jobs"))

	// a second refresh while one is running is ignored
	_, again := updateCmd(t, m, key("r"))
	assert.Nil(t, again)

	m = update(t, m, key("tab"))
	col, _ := m.ActiveCollection()
	assert.Equal(t, "internships", col.Name)
	assert.False(t, m.IsLoading("jobs"))

	var cancelled bool
	for _, msg := range drain(cmd) {
		if c, ok := msg.(FetchCancelledMsg); ok && c.Collection == "jobs" {
			cancelled = true
		}
	}
	assert.True(t, cancelled)
}

func TestRefreshErrorKeepsRecords(t *testing.T) {
	t.Parallel()

	m, loader, _, _ := loaded(t, session.Anonymous())
	loader.errs["jobs"] = errors.New("down")

	m, cmd := updateCmd(t, m, key("r"))
	for _, msg := range drain(cmd) {
		if _, ok := msg.(FetchErrorMsg); ok {
			m = update(t, m, msg)
		}
	}

	assert.False(t, m.IsLoading("jobs"))
	assert.Equal(t, "Failed to load jobs", m.tabFor("jobs").err)
	assert.Len(t, m.Filtered(), 25)
}

func TestRefreshStaleResult(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	m = update(t, m, FetchCompleteMsg{Result: listing.Result{
		Collection: "jobs",
		Records:    jobRecords(4),
		FetchedAt:  testNow.Add(-2 * time.Hour),
		Stale:      true,
	}})

	tab := m.tabFor("jobs")
	assert.True(t, tab.stale)
	assert.Len(t, m.Filtered(), 4)
	assert.Equal(t, 1, m.Page().TotalPages())
}

func TestOverlayMenusAreExclusive(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, studentSession())

	m = update(t, m, key("p"))
	assert.True(t, m.Menu().IsOpen(overlay.Profile))

	m = update(t, m, key("m"))
	assert.True(t, m.Menu().IsOpen(overlay.Mail))
	assert.False(t, m.Menu().IsOpen(overlay.Profile))

	m = update(t, m, key("m"))
	assert.Equal(t, overlay.None, m.Menu().Open())

	m = update(t, m, key("p"))
	m = update(t, m, key("esc"))
	assert.Equal(t, overlay.None, m.Menu().Open())

	m = update(t, m, key("+"))
	assert.Equal(t, overlay.None, m.Menu().Open())
	assert.Equal(t, "Only admins can post listings", m.errorMsg)
}

func TestCreateMenuOpensPostingForm(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, adminSession())
	m = update(t, m, key("p"))
	m = update(t, m, key("+"))
	require.True(t, m.Menu().IsOpen(overlay.Create))

	m = update(t, m, key("i"))
	require.Equal(t, ViewForm, m.GetViewMode())
	assert.Equal(t, postform.KindInternship, m.form.Kind())
	assert.Equal(t, overlay.None, m.Menu().Open())
	assert.Contains(t, m.View(), "New Internship")

	m, cmd := updateCmd(t, m, key("esc"))
	require.NotNil(t, cmd)
	closed, ok := cmd().(postform.ClosedMsg)
	require.True(t, ok)

	m = update(t, m, closed)
	assert.Equal(t, ViewList, m.GetViewMode())
	assert.Empty(t, m.Notices())
}

func TestPostedListingRefreshesCollection(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, adminSession())
	created := record.New(map[string]any{"_id": "job-99"})

	m, cmd := updateCmd(t, m, postform.ClosedMsg{Kind: postform.KindJob, Created: &created})
	require.NotNil(t, cmd)
	assert.True(t, m.IsLoading("jobs"))
	require.NotEmpty(t, m.Notices())
	assert.Equal(t, "Posted job job-99", m.Notices()[0].Text)
}

func TestApplyFlow(t *testing.T) {
	t.Parallel()

	m, _, client, _ := loaded(t, studentSession())

	m = update(t, m, key("a"))
	require.Equal(t, ViewConfirm, m.GetViewMode())
	assert.Equal(t, "Apply to 'Analyst 01'?", m.confirmMessage)

	m, cmd := updateCmd(t, m, key("y"))
	assert.Equal(t, ViewList, m.GetViewMode())
	require.NotNil(t, cmd)
	assert.True(t, m.loading[applyKey("job-01")])

	for _, msg := range drain(cmd) {
		if _, ok := msg.(ApplyCompleteMsg); ok {
			m = update(t, m, msg)
		}
	}
	assert.Equal(t, []string{"job-01"}, client.applied)
	assert.False(t, m.loading[applyKey("job-01")])
	require.NotEmpty(t, m.Notices())
	assert.Equal(t, "Applied to Analyst 01", m.Notices()[0].Text)
}

func TestApplyDeclined(t *testing.T) {
	t.Parallel()

	m, _, client, _ := loaded(t, studentSession())
	m = update(t, m, key("a"))
	m, cmd := updateCmd(t, m, key("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, ViewList, m.GetViewMode())
	assert.Empty(t, client.applied)
}

func TestApplyRequiresStudent(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, adminSession())
	m = update(t, m, key("a"))
	assert.Equal(t, ViewList, m.GetViewMode())
	assert.Equal(t, "Only signed-in students can apply", m.errorMsg)

	m = update(t, m, key("x"))
	assert.False(t, m.showError)
}

func TestApplyErrorShowsBanner(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, studentSession())
	m = update(t, m, ApplyErrorMsg{Collection: "jobs", ID: "job-01", Error: apperrors.NewAPIError("POST /jobs/job-01/apply", 409, "already applied", nil)})
	assert.Equal(t, "Apply failed: already applied", m.errorMsg)
}

func TestCancelApplyFromDetail(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, studentSession())
	m = update(t, m, key("enter"))
	require.Equal(t, ViewDetail, m.GetViewMode())

	m = update(t, m, key("a"))
	m, cmd := updateCmd(t, m, key("y"))
	require.NotNil(t, cmd)
	require.Equal(t, ViewDetail, m.GetViewMode())

	m = update(t, m, key("esc"))
	require.Equal(t, ViewConfirm, m.GetViewMode())
	assert.Equal(t, "cancel_apply", m.confirmAction)

	m = update(t, m, key("y"))
	assert.False(t, m.loading[applyKey("job-01")])
	_, running := m.operationCtxs[applyKey("job-01")]
	assert.False(t, running)

	for _, msg := range drain(cmd) {
		_, isComplete := msg.(ApplyCompleteMsg)
		assert.False(t, isComplete, "cancelled application must not complete")
	}
}

func TestToggleSaved(t *testing.T) {
	t.Parallel()

	m, _, _, marks := loaded(t, session.Anonymous())

	_, cmd := updateCmd(t, m, key("s"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(BookmarkToggledMsg)
	require.True(t, ok)
	assert.True(t, msg.Saved)
	assert.True(t, marks.Has("jobs", "job-01"))

	m = update(t, m, msg)
	assert.Equal(t, "Saved Analyst 01", m.infoMsg)
	assert.Contains(t, m.View(), "★")

	_, cmd = updateCmd(t, m, key("s"))
	msg = cmd().(BookmarkToggledMsg)
	m = update(t, m, msg)
	assert.Equal(t, "Removed Analyst 01 from saved", m.infoMsg)
}

func TestDetailViewNavigation(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	m = update(t, m, key("down"))
	m = update(t, m, key("enter"))
	require.Equal(t, ViewDetail, m.GetViewMode())
	assert.Equal(t, "job-02", m.selectedID)

	m = update(t, m, key("?"))
	assert.Equal(t, ViewHelp, m.GetViewMode())
	m = update(t, m, key("esc"))
	assert.Equal(t, ViewDetail, m.GetViewMode())

	m = update(t, m, key("esc"))
	assert.Equal(t, ViewList, m.GetViewMode())
	assert.Empty(t, m.selectedID)
}

func TestQuitCancelsOperations(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	m, _ = updateCmd(t, m, key("r"))
	require.NotEmpty(t, m.operationCtxs)

	m, cmd := updateCmd(t, m, key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Empty(t, m.operationCtxs)
}
