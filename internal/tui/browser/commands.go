package browser

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/careerdesk/internal/bookmarks"
	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/listing"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
)

// Loader fetches collections, falling back to snapshots.
type Loader interface {
	Fetch(ctx context.Context, col catalog.Collection) (listing.Result, error)
	Prefetch(ctx context.Context, cols []catalog.Collection, limit int) ([]listing.Result, error)
}

// Client performs write operations against the backend.
type Client interface {
	Create(ctx context.Context, col catalog.Collection, payload map[string]any) (record.Record, error)
	Apply(ctx context.Context, col catalog.Collection, id string) error
}

// Bookmarks persists saved records.
type Bookmarks interface {
	Has(collection, id string) bool
	Toggle(b bookmarks.Bookmark) (bool, error)
}

// loadAllCmd fetches every collection at once for the first screen.
func loadAllCmd(ctx context.Context, loader Loader, cols []catalog.Collection) tea.Cmd {
	return func() tea.Msg {
		results, err := loader.Prefetch(ctx, cols, 0)
		if err != nil {
			if ctx.Err() != nil {
				return LoadCancelledMsg{}
			}
			return ErrorMsg{Message: fmt.Sprintf("Failed to load collections: %v", err)}
		}
		return LoadedMsg{Results: results}
	}
}

// fetchCmd refreshes a single collection asynchronously
func fetchCmd(ctx context.Context, loader Loader, col catalog.Collection) tea.Cmd {
	return func() tea.Msg {
		result, err := loader.Fetch(ctx, col)
		if err != nil {
			if ctx.Err() != nil {
				return FetchCancelledMsg{Collection: col.Name}
			}
			return FetchErrorMsg{Collection: col.Name, Error: err}
		}
		return FetchCompleteMsg{Result: result}
	}
}

// applyCmd submits an application for the signed-in student
func applyCmd(ctx context.Context, client Client, col catalog.Collection, r record.Record) tea.Cmd {
	return func() tea.Msg {
		if err := client.Apply(ctx, col, r.ID); err != nil {
			if ctx.Err() != nil {
				return ApplyCancelledMsg{Collection: col.Name, ID: r.ID}
			}
			return ApplyErrorMsg{Collection: col.Name, ID: r.ID, Error: err}
		}
		return ApplyCompleteMsg{Collection: col.Name, ID: r.ID, Title: col.Summary(r)}
	}
}

// toggleBookmarkCmd saves or unsaves a record
func toggleBookmarkCmd(store Bookmarks, col catalog.Collection, r record.Record, now time.Time) tea.Cmd {
	return func() tea.Msg {
		title := col.Summary(r)
		saved, err := store.Toggle(bookmarks.Bookmark{
			Collection: col.Name,
			ID:         r.ID,
			Title:      title,
			SavedAt:    now,
			Record:     r,
		})
		if err != nil {
			return ErrorMsg{Message: fmt.Sprintf("Failed to update saved listings: %v", err)}
		}
		return BookmarkToggledMsg{Collection: col.Name, ID: r.ID, Title: title, Saved: saved}
	}
}
