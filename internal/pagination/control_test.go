package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type pageRecorder struct {
	pages []int
}

func (r *pageRecorder) record(page int) {
	r.pages = append(r.pages, page)
}

func TestControlPreviousDisabledOnFirstPage(t *testing.T) {
	t.Parallel()

	rec := &pageRecorder{}
	c := NewControl(NewPageState(10, 30), rec.record)

	require.False(t, c.Previous())
	require.Empty(t, rec.pages)
	require.True(t, c.Next())
	require.Equal(t, []int{2}, rec.pages)
}

func TestControlNextDisabledOnLastPage(t *testing.T) {
	t.Parallel()

	rec := &pageRecorder{}
	c := NewControl(NewPageState(10, 30).WithPage(3), rec.record)

	require.False(t, c.Next())
	require.True(t, c.Previous())
	require.Equal(t, []int{2}, rec.pages)
}

func TestControlEmptyListDisablesEverything(t *testing.T) {
	t.Parallel()

	rec := &pageRecorder{}
	c := NewControl(NewPageState(10, 0), rec.record)

	require.False(t, c.Previous())
	require.False(t, c.Next())
	require.False(t, c.Select(1))
	require.Empty(t, c.Tokens())
	require.Empty(t, c.View())
	require.Empty(t, c.Format())
	require.Empty(t, rec.pages)
}

func TestControlSelect(t *testing.T) {
	t.Parallel()

	rec := &pageRecorder{}
	c := NewControl(NewPageState(10, 100).WithPage(5), rec.record)

	require.False(t, c.Select(5), "current page is inert")
	require.False(t, c.Select(0))
	require.False(t, c.Select(11))
	require.True(t, c.Select(9))
	require.True(t, c.First())
	require.True(t, c.Last())
	require.Equal(t, []int{9, 1, 10}, rec.pages)
}

func TestControlDoesNotMutateCallerState(t *testing.T) {
	t.Parallel()

	state := NewPageState(10, 100)
	c := NewControl(state, func(page int) { state = state.WithPage(page) })

	require.True(t, c.Next())
	require.Equal(t, 2, state.CurrentPage)

	// the control still reflects its snapshot until rebuilt
	require.True(t, c.Next())
	require.Equal(t, 2, state.CurrentPage)
}

func TestControlWithoutCallback(t *testing.T) {
	t.Parallel()

	c := NewControl(NewPageState(10, 30), nil)
	require.True(t, c.Next())
}

func TestControlFormat(t *testing.T) {
	t.Parallel()

	require.Equal(t, "< 1 … 4 [5] 6 … 10 >", NewControl(NewPageState(10, 100).WithPage(5), nil).Format())
	require.Equal(t, "[1] 2 3 >", NewControl(NewPageState(10, 30), nil).Format())
	require.Equal(t, "< 1 2 [3]", NewControl(NewPageState(10, 30).WithPage(3), nil).Format())
	require.Equal(t, "[1]", NewControl(NewPageState(10, 3), nil).Format())
}

func TestControlViewContainsPages(t *testing.T) {
	t.Parallel()

	view := NewControl(NewPageState(10, 100).WithPage(5), nil).View()
	for _, want := range []string{"1", "4", "5", "6", "10", "…"} {
		require.Contains(t, view, want)
	}
}
