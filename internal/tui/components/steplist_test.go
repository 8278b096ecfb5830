package components

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/careerdesk/internal/wizard"
)

func newSteps(t *testing.T) *wizard.State {
	t.Helper()
	state, err := wizard.New([]string{"basics", "details", "review"})
	require.NoError(t, err)
	return state
}

func TestNewStepList(t *testing.T) {
	t.Parallel()

	t.Run("empty wizard", func(t *testing.T) {
		t.Parallel()
		sl := NewStepList(nil, nil, true)
		require.Empty(t, sl.Entries())
		require.Empty(t, sl.View())
	})

	t.Run("labels fall back to names", func(t *testing.T) {
		t.Parallel()
		state := newSteps(t)
		sl := NewStepList(state.Steps(), map[string]string{"basics": "Basics"}, true)

		entries := sl.Entries()
		require.Len(t, entries, 3)
		require.Equal(t, "Basics", entries[0].Label)
		require.Equal(t, "details", entries[1].Label)
		require.Equal(t, wizard.Active, entries[0].Status)
		require.Equal(t, wizard.Unvisited, entries[2].Status)
	})

	t.Run("entries are copies", func(t *testing.T) {
		t.Parallel()
		sl := NewStepList(newSteps(t).Steps(), nil, true)
		first := sl.Entries()
		first[0].Label = "changed"
		require.Equal(t, "basics", sl.Entries()[0].Label)
	})
}

func TestStepListMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		unicode bool
		status  wizard.Status
		want    string
	}{
		{"completed unicode", true, wizard.Completed, "✓"},
		{"active unicode", true, wizard.Active, "●"},
		{"unvisited unicode", true, wizard.Unvisited, "○"},
		{"completed ascii", false, wizard.Completed, "+"},
		{"active ascii", false, wizard.Active, "*"},
		{"unvisited ascii", false, wizard.Unvisited, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, StepList{unicode: tt.unicode}.Marker(tt.status))
		})
	}
}

func TestStepListView(t *testing.T) {
	t.Parallel()

	state := newSteps(t)
	require.True(t, state.Advance())

	view := NewStepList(state.Steps(), nil, true).View()
	require.Contains(t, view, "✓ 1. basics")
	require.Contains(t, view, "● 2. details")
	require.Contains(t, view, "○ 3. review")
}
