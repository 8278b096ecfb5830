package components

import (
	"fmt"
	"strings"
)

// CollectionCount is the outcome of loading one collection for the overview.
type CollectionCount struct {
	Title  string
	Count  int
	Stale  bool
	Failed bool
}

// Summary renders a one-line overview of several collections.
type Summary struct {
	counts []CollectionCount
}

// NewSummary creates a summary over counts in display order.
func NewSummary(counts []CollectionCount) Summary {
	clone := make([]CollectionCount, len(counts))
	copy(clone, counts)
	return Summary{counts: clone}
}

// View renders e.g. "Jobs 12  •  Internships 4 (cached)  •  Students failed".
func (s Summary) View() string {
	if len(s.counts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.counts))
	for _, c := range s.counts {
		switch {
		case c.Failed:
			parts = append(parts, fmt.Sprintf("%s failed", c.Title))
		case c.Stale:
			parts = append(parts, fmt.Sprintf("%s %d (cached)", c.Title, c.Count))
		default:
			parts = append(parts, fmt.Sprintf("%s %d", c.Title, c.Count))
		}
	}
	return strings.Join(parts, "  •  ")
}
