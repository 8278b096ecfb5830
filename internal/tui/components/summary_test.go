package components

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSummaryView(t *testing.T) {
	t.Parallel()

	t.Run("empty summary renders nothing", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, NewSummary(nil).View())
	})

	t.Run("renders each collection state", func(t *testing.T) {
		t.Parallel()
		view := NewSummary([]CollectionCount{
			{Title: "Jobs", Count: 12},
			{Title: "Internships", Count: 4, Stale: true},
			{Title: "Students", Failed: true},
		}).View()
		require.Equal(t, "Jobs 12  •  Internships 4 (cached)  •  Students failed", view)
	})

	t.Run("input slice is copied", func(t *testing.T) {
		t.Parallel()
		counts := []CollectionCount{{Title: "Jobs", Count: 1}}
		s := NewSummary(counts)
		counts[0].Count = 99
		require.Equal(t, "Jobs 1", s.View())
	})
}
