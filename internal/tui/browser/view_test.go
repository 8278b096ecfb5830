package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/careerdesk/internal/listing"
	"github.com/alexisbeaulieu97/careerdesk/internal/session"
)

func TestFormatAge(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"zero", time.Time{}, "Never"},
		{"seconds", now.Add(-30 * time.Second), "Just now"},
		{"one minute", now.Add(-time.Minute), "1 minute ago"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"one hour", now.Add(-time.Hour), "1 hour ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"one day", now.Add(-25 * time.Hour), "1 day ago"},
		{"days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{"older", now.Add(-30 * 24 * time.Hour), "May 16, 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatAge(tt.at, now))
		})
	}
}

func TestViewInitializing(t *testing.T) {
	t.Parallel()

	m := NewModel(Deps{})
	m.width, m.height = 0, 0
	assert.Equal(t, "Initializing...", m.View())
}

func TestViewLoading(t *testing.T) {
	t.Parallel()

	m, _, _, _ := newTestModel(t, session.Anonymous())
	assert.Contains(t, m.View(), "Loading jobs...")
}

func TestViewList(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	view := m.View()

	assert.Contains(t, view, "careerdesk")
	assert.Contains(t, view, "not signed in")
	assert.Contains(t, view, "1 Jobs")
	assert.Contains(t, view, "Analyst 01")
	assert.Contains(t, view, "Engineer 10")
	assert.NotContains(t, view, "Analyst 11")
	assert.Contains(t, view, "25 of 25")
	assert.Contains(t, view, "page 1 of 3")
}

func TestViewFilterDescription(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	m = update(t, m, key("c"))
	m = update(t, m, key("w"))

	view := m.View()
	assert.Contains(t, view, "type: full-time")
	assert.Contains(t, view, "last 7 days")
}

func TestViewEmptyStates(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, session.Anonymous())
	m = update(t, m, key("/"))
	m = update(t, m, key("zzz"))
	assert.Contains(t, m.View(), "No jobs match the current filters. Press C to clear them.")

	m = update(t, m, LoadedMsg{Results: []listing.Result{{Collection: "internships", Records: nil}}})
	m = update(t, m, key("enter"))
	m = update(t, m, key("2"))
	assert.Contains(t, m.View(), "No internships yet.")
}

func TestViewLoadFailure(t *testing.T) {
	t.Parallel()

	m, _, _, _ := newTestModel(t, session.Anonymous())
	m = update(t, m, FetchErrorMsg{Collection: "jobs", Error: errors.New("boom")})
	assert.Contains(t, m.View(), "Failed to load jobs")
}

func TestViewStaleBanner(t *testing.T) {
	t.Parallel()

	m, _, _, _ := newTestModel(t, session.Anonymous())
	m = update(t, m, LoadedMsg{Results: []listing.Result{{
		Collection: "jobs",
		Records:    jobRecords(3),
		FetchedAt:  testNow.Add(-2 * time.Hour),
		Stale:      true,
		Err:        errors.New("offline"),
	}}})

	view := m.View()
	assert.Contains(t, view, "Showing saved copy of jobs from 2 hours ago")
	assert.Contains(t, view, "(cached)")
}

func TestViewMenus(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, studentSession())
	m = update(t, m, key("p"))
	view := m.View()
	assert.Contains(t, view, "Profile")
	assert.Contains(t, view, "asha@example.edu (student)")
	assert.Contains(t, view, "careerdesk logout")

	m = update(t, m, key("m"))
	assert.Contains(t, m.View(), "Nothing new")
}

func TestViewDetail(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, studentSession())
	m = update(t, m, key("enter"))
	require.Equal(t, ViewDetail, m.GetViewMode())

	view := m.View()
	assert.Contains(t, view, "Analyst 01")
	assert.Contains(t, view, "job_data.title")
	assert.Contains(t, view, "job_data.company_name")
	assert.Contains(t, view, "Acme")
	assert.Contains(t, view, "a: apply")
}

func TestViewConfirmAndHelp(t *testing.T) {
	t.Parallel()

	m, _, _, _ := loaded(t, studentSession())
	m = update(t, m, key("a"))
	view := m.View()
	assert.Contains(t, view, "Apply to 'Analyst 01'?")
	assert.Contains(t, view, "y = Yes")

	m = update(t, m, key("esc"))
	m = update(t, m, key("?"))
	view = m.View()
	assert.Contains(t, view, "careerdesk help")
	assert.Contains(t, view, "Cycle the category filter")
}
