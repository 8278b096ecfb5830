package pagination

// DefaultItemsPerPage is used when a PageState is built without a page size.
const DefaultItemsPerPage = 10

// PageState describes a list's pagination position. It is owned by the list
// screen that created it and never shared between lists.
type PageState struct {
	CurrentPage  int
	ItemsPerPage int
	TotalItems   int
}

// NewPageState returns a state on page 1.
func NewPageState(itemsPerPage, totalItems int) PageState {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	if totalItems < 0 {
		totalItems = 0
	}
	return PageState{CurrentPage: 1, ItemsPerPage: itemsPerPage, TotalItems: totalItems}
}

// TotalPages returns ceil(TotalItems/ItemsPerPage); zero for an empty list.
func (s PageState) TotalPages() int {
	if s.TotalItems <= 0 {
		return 0
	}
	perPage := s.ItemsPerPage
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	return (s.TotalItems + perPage - 1) / perPage
}

// Clamp returns the state with CurrentPage inside [1, max(1, TotalPages)].
func (s PageState) Clamp() PageState {
	upper := s.TotalPages()
	if upper < 1 {
		upper = 1
	}
	s.CurrentPage = clamp(s.CurrentPage, 1, upper)
	return s
}

// WithPage moves to page and clamps.
func (s PageState) WithPage(page int) PageState {
	s.CurrentPage = page
	return s.Clamp()
}

// Resize records a new item count. A change in size means the upstream
// filtered set changed, so the state returns to page 1.
func (s PageState) Resize(totalItems int) PageState {
	if totalItems < 0 {
		totalItems = 0
	}
	if totalItems != s.TotalItems {
		s.CurrentPage = 1
	}
	s.TotalItems = totalItems
	return s.Clamp()
}

// Bounds returns the half-open [start, end) index range of the current page
// within a slice of n items.
func (s PageState) Bounds(n int) (int, int) {
	c := s.Clamp()
	perPage := c.ItemsPerPage
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	start := (c.CurrentPage - 1) * perPage
	if start > n {
		start = n
	}
	end := start + perPage
	if end > n {
		end = n
	}
	return start, end
}

// Window returns the page tokens for the state.
func (s PageState) Window() []Token {
	return ComputeWindow(s.CurrentPage, s.TotalPages())
}

// Slice returns the items of the current page.
func Slice[T any](items []T, state PageState) []T {
	start, end := state.Bounds(len(items))
	return items[start:end]
}
