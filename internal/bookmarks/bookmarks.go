// Package bookmarks persists the listings a user saved for later.
package bookmarks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/careerdesk/internal/record"
)

const fileVersion = "1.0"

var (
	// ErrNotFound is returned when no bookmark matches.
	ErrNotFound = errors.New("bookmark not found")
	// ErrExists is returned when the record is already saved.
	ErrExists = errors.New("bookmark already exists")
)

// Bookmark is a saved record together with where it came from.
type Bookmark struct {
	Collection string        `json:"collection"`
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	SavedAt    time.Time     `json:"saved_at"`
	Record     record.Record `json:"record"`
}

type storeFile struct {
	Version   string     `json:"version"`
	Bookmarks []Bookmark `json:"bookmarks"`
}

// Store manages bookmark persistence.
type Store struct {
	path      string
	mu        sync.RWMutex
	version   string
	bookmarks []Bookmark
}

// NewStore creates a Store and loads it from disk. A missing file starts
// empty.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:    path,
		version: fileVersion,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bookmarks directory: %w", err)
	}

	if err := s.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		s.bookmarks = []Bookmark{}
	}

	return s, nil
}

// Load reads the store from disk.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse bookmarks: %w", err)
	}

	s.version = file.Version
	s.bookmarks = file.Bookmarks
	if s.bookmarks == nil {
		s.bookmarks = []Bookmark{}
	}

	return nil
}

// Save writes the store to disk atomically.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(storeFile{Version: s.version, Bookmarks: s.bookmarks}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// List returns bookmarks newest first. A non-empty collection restricts the
// result to that collection.
func (s *Store) List(collection string) []Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Bookmark, 0, len(s.bookmarks))
	for _, b := range s.bookmarks {
		if collection == "" || b.Collection == collection {
			result = append(result, b)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SavedAt.After(result[j].SavedAt)
	})
	return result
}

// Get retrieves one bookmark.
func (s *Store) Get(collection, id string) (Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookmarks {
		if b.Collection == collection && b.ID == id {
			return b, nil
		}
	}

	return Bookmark{}, fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
}

// Has reports whether the record is saved.
func (s *Store) Has(collection, id string) bool {
	_, err := s.Get(collection, id)
	return err == nil
}

// Add saves b in memory. Call Save to persist.
func (s *Store) Add(b Bookmark) error {
	if b.ID == "" {
		b.ID = b.Record.ID
	}
	if b.Collection == "" || b.ID == "" {
		return fmt.Errorf("bookmark needs a collection and an id")
	}
	if b.SavedAt.IsZero() {
		b.SavedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookmarks {
		if existing.Collection == b.Collection && existing.ID == b.ID {
			return fmt.Errorf("%w: %s/%s", ErrExists, b.Collection, b.ID)
		}
	}

	s.bookmarks = append(s.bookmarks, b)
	return nil
}

// Remove deletes a bookmark in memory. Call Save to persist.
func (s *Store) Remove(collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.bookmarks {
		if b.Collection == collection && b.ID == id {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("%w: %s/%s", ErrNotFound, collection, id)
}

// Toggle adds b when absent and removes it otherwise, then persists. It
// reports whether the record is saved afterwards.
func (s *Store) Toggle(b Bookmark) (bool, error) {
	if b.ID == "" {
		b.ID = b.Record.ID
	}
	saved := s.Has(b.Collection, b.ID)
	var err error
	if saved {
		err = s.Remove(b.Collection, b.ID)
	} else {
		err = s.Add(b)
	}
	if err != nil {
		return saved, err
	}
	if err := s.Save(); err != nil {
		return saved, err
	}
	return !saved, nil
}
