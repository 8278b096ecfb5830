package browser

import (
	"github.com/alexisbeaulieu97/careerdesk/internal/listing"
)

// ViewMode determines which screen to render
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewHelp
	ViewConfirm
	ViewForm
)

// Fetch Messages

// LoadedMsg carries the initial load of every visible collection.
type LoadedMsg struct {
	Results []listing.Result
}

// LoadCancelledMsg indicates the initial load was abandoned.
type LoadCancelledMsg struct{}

// FetchCompleteMsg indicates a collection refresh succeeded, possibly from
// a stale snapshot.
type FetchCompleteMsg struct {
	Result listing.Result
}

// FetchErrorMsg indicates a collection could not be loaded at all.
type FetchErrorMsg struct {
	Collection string
	Error      error
}

// FetchCancelledMsg indicates a refresh was cancelled.
type FetchCancelledMsg struct {
	Collection string
}

// Apply Messages

// ApplyCompleteMsg indicates the application was accepted.
type ApplyCompleteMsg struct {
	Collection string
	ID         string
	Title      string
}

// ApplyErrorMsg indicates the application failed.
type ApplyErrorMsg struct {
	Collection string
	ID         string
	Error      error
}

// ApplyCancelledMsg indicates the application was cancelled.
type ApplyCancelledMsg struct {
	Collection string
	ID         string
}

// Bookmark Messages

// BookmarkToggledMsg reports the new saved state of a record.
type BookmarkToggledMsg struct {
	Collection string
	ID         string
	Title      string
	Saved      bool
}

// Error Messages

// ErrorMsg indicates a general error occurred
type ErrorMsg struct {
	Message string
}

// ClearErrorMsg requests error banner dismissal
type ClearErrorMsg struct{}
