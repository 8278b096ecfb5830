package bookmarks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/careerdesk/internal/record"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "saved.json")
	store, err := NewStore(path)
	require.NoError(t, err)
	return store, path
}

func jobBookmark(id string, savedAt time.Time) Bookmark {
	return Bookmark{
		Collection: "jobs",
		Title:      "Job " + id,
		SavedAt:    savedAt,
		Record:     record.New(map[string]any{"_id": id, "job_data": map[string]any{"title": "Job " + id}}),
	}
}

func TestNewStoreStartsEmpty(t *testing.T) {
	t.Parallel()

	store, path := newStore(t)
	assert.Empty(t, store.List(""))
	assert.DirExists(t, filepath.Dir(path))
}

func TestAddSaveAndReload(t *testing.T) {
	t.Parallel()

	store, path := newStore(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Add(jobBookmark("j1", base)))
	require.NoError(t, store.Add(jobBookmark("j2", base.Add(time.Hour))))
	require.NoError(t, store.Add(Bookmark{Collection: "internships", ID: "i1", SavedAt: base.Add(-time.Hour)}))
	require.NoError(t, store.Save())

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")

	reloaded, err := NewStore(path)
	require.NoError(t, err)

	all := reloaded.List("")
	require.Len(t, all, 3)
	assert.Equal(t, []string{"j2", "j1", "i1"}, []string{all[0].ID, all[1].ID, all[2].ID})

	jobs := reloaded.List("jobs")
	require.Len(t, jobs, 2)

	got, err := reloaded.Get("jobs", "j1")
	require.NoError(t, err)
	assert.Equal(t, "Job j1", got.Record.String("job_data.title"))
	assert.Equal(t, base, got.SavedAt)
}

func TestAddRejectsDuplicatesAndMissingKeys(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	require.NoError(t, store.Add(jobBookmark("j1", time.Time{})))
	require.ErrorIs(t, store.Add(jobBookmark("j1", time.Time{})), ErrExists)
	require.Error(t, store.Add(Bookmark{ID: "orphan"}))

	got, err := store.Get("jobs", "j1")
	require.NoError(t, err)
	assert.False(t, got.SavedAt.IsZero(), "saved time defaults to now")
}

func TestRemove(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	require.NoError(t, store.Add(jobBookmark("j1", time.Now())))
	require.NoError(t, store.Remove("jobs", "j1"))
	require.False(t, store.Has("jobs", "j1"))
	require.ErrorIs(t, store.Remove("jobs", "j1"), ErrNotFound)

	_, err := store.Get("jobs", "j1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTogglePersists(t *testing.T) {
	t.Parallel()

	store, path := newStore(t)

	saved, err := store.Toggle(jobBookmark("j9", time.Now()))
	require.NoError(t, err)
	require.True(t, saved)

	reloaded, err := NewStore(path)
	require.NoError(t, err)
	require.True(t, reloaded.Has("jobs", "j9"))

	saved, err = reloaded.Toggle(jobBookmark("j9", time.Now()))
	require.NoError(t, err)
	require.False(t, saved)
	require.False(t, reloaded.Has("jobs", "j9"))
}

func TestCorruptFileIsReported(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "saved.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewStore(path)
	require.ErrorContains(t, err, "failed to parse bookmarks")
}
