// Package snapshot keeps the last successfully fetched copy of each
// collection on disk so list views still render when the backend is down.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/alexisbeaulieu97/careerdesk/internal/record"
)

// ErrMiss is returned when nothing has been cached for a collection.
var ErrMiss = errors.New("no snapshot")

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Snapshot is one cached collection.
type Snapshot struct {
	Collection string          `json:"collection"`
	FetchedAt  time.Time       `json:"fetched_at"`
	Records    []record.Record `json:"records"`
}

// Age reports how old the snapshot is at now.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Cache stores snapshots under a base directory, one file per collection.
type Cache struct {
	d *diskv.Diskv
}

// Open returns a cache rooted at dir. The directory is created lazily on the
// first write.
func Open(dir string) *Cache {
	return &Cache{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 4 * 1024 * 1024,
	})}
}

// Put replaces the snapshot for collection.
func (c *Cache) Put(collection string, records []record.Record, fetchedAt time.Time) error {
	if records == nil {
		records = []record.Record{}
	}
	data, err := json.Marshal(Snapshot{Collection: collection, FetchedAt: fetchedAt.UTC(), Records: records})
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", collection, err)
	}
	if err := c.d.Write(key(collection), data); err != nil {
		return fmt.Errorf("write snapshot %s: %w", collection, err)
	}
	return nil
}

// Get loads the snapshot for collection or returns ErrMiss.
func (c *Cache) Get(collection string) (Snapshot, error) {
	k := key(collection)
	if !c.d.Has(k) {
		return Snapshot{}, fmt.Errorf("%w for %s", ErrMiss, collection)
	}
	data, err := c.d.Read(k)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", collection, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", collection, err)
	}
	return snap, nil
}

// Delete drops the snapshot for collection. Deleting a missing snapshot is
// not an error.
func (c *Cache) Delete(collection string) error {
	k := key(collection)
	if !c.d.Has(k) {
		return nil
	}
	return c.d.Erase(k)
}

// Clear drops every snapshot.
func (c *Cache) Clear() error {
	return c.d.EraseAll()
}

func key(collection string) string {
	cleaned := unsafeKeyChars.ReplaceAllString(collection, "_")
	if cleaned == "" {
		cleaned = "_"
	}
	return cleaned + ".json"
}
