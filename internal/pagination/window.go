// Package pagination computes page windows for list screens and renders them
// as a stateless page control.
package pagination

import "strconv"

// windowSize is the largest page count rendered without ellipses.
const windowSize = 5

// Token is a single entry in a page window: either a page number or an
// ellipsis marker standing in for elided pages.
type Token struct {
	Page     int
	Ellipsis bool
}

// PageToken returns a numeric token.
func PageToken(page int) Token {
	return Token{Page: page}
}

// EllipsisToken returns the elision marker.
func EllipsisToken() Token {
	return Token{Ellipsis: true}
}

// String renders the token as plain text.
func (t Token) String() string {
	if t.Ellipsis {
		return "…"
	}
	return strconv.Itoa(t.Page)
}

// ComputeWindow returns the page tokens to display for currentPage out of
// totalPages. The first and last pages are always present once the window
// has to elide. currentPage is clamped into [1, totalPages].
func ComputeWindow(currentPage, totalPages int) []Token {
	if totalPages <= 0 {
		return []Token{}
	}
	current := clamp(currentPage, 1, totalPages)

	if totalPages <= windowSize {
		return pages(1, totalPages)
	}

	last := totalPages
	switch {
	case current <= 3:
		return append(pages(1, 4), EllipsisToken(), PageToken(last))
	case current >= last-2:
		return append([]Token{PageToken(1), EllipsisToken()}, pages(last-3, last)...)
	default:
		window := []Token{PageToken(1), EllipsisToken()}
		window = append(window, pages(current-1, current+1)...)
		return append(window, EllipsisToken(), PageToken(last))
	}
}

func pages(from, to int) []Token {
	out := make([]Token, 0, to-from+1)
	for p := from; p <= to; p++ {
		out = append(out, PageToken(p))
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
