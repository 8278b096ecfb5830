package filter

import (
	"sort"
)

// Criteria is an immutable set of criteria keyed by name plus an optional
// ordering. All active criteria must match (logical AND).
type Criteria[T any] struct {
	items []Criterion[T]
	order *Order[T]
}

// NewCriteria builds a criteria set. Later criteria replace earlier ones
// with the same key.
func NewCriteria[T any](items ...Criterion[T]) Criteria[T] {
	var c Criteria[T]
	for _, item := range items {
		c = c.With(item)
	}
	return c
}

// With returns a copy with item added or replacing the criterion of the
// same key.
func (c Criteria[T]) With(item Criterion[T]) Criteria[T] {
	next := make([]Criterion[T], 0, len(c.items)+1)
	replaced := false
	for _, existing := range c.items {
		if existing.Key() == item.Key() {
			next = append(next, item)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, item)
	}
	return Criteria[T]{items: next, order: c.order}
}

// Clear returns a copy without the criterion named key.
func (c Criteria[T]) Clear(key string) Criteria[T] {
	next := make([]Criterion[T], 0, len(c.items))
	for _, existing := range c.items {
		if existing.Key() != key {
			next = append(next, existing)
		}
	}
	return Criteria[T]{items: next, order: c.order}
}

// Reset returns an empty criteria set.
func (c Criteria[T]) Reset() Criteria[T] {
	return Criteria[T]{}
}

// OrderBy returns a copy that sorts results with order.
func (c Criteria[T]) OrderBy(order Order[T]) Criteria[T] {
	return Criteria[T]{items: c.items, order: &order}
}

// Unordered returns a copy that keeps source order.
func (c Criteria[T]) Unordered() Criteria[T] {
	return Criteria[T]{items: c.items}
}

// Get returns the criterion stored under key.
func (c Criteria[T]) Get(key string) (Criterion[T], bool) {
	for _, existing := range c.items {
		if existing.Key() == key {
			return existing, true
		}
	}
	return nil, false
}

// Ordered reports whether results will be sorted.
func (c Criteria[T]) Ordered() bool {
	return c.order != nil && c.order.Key != nil
}

// Active returns the criteria that constrain results.
func (c Criteria[T]) Active() []Criterion[T] {
	out := make([]Criterion[T], 0, len(c.items))
	for _, item := range c.items {
		if !item.IsDefault() {
			out = append(out, item)
		}
	}
	return out
}

// Apply returns the records matching every active criterion, in source
// order unless an ordering is set. records is never modified.
func Apply[T any](records []T, criteria Criteria[T]) []T {
	active := criteria.Active()
	out := make([]T, 0, len(records))
	for _, item := range records {
		if matchesAll(item, active) {
			out = append(out, item)
		}
	}

	if criteria.Ordered() {
		order := *criteria.order
		sort.SliceStable(out, func(i, j int) bool {
			ti, okI := order.Key(out[i])
			tj, okJ := order.Key(out[j])
			switch {
			case !okI && !okJ:
				return false
			case !okI:
				return false
			case !okJ:
				return true
			case order.Ascending:
				return ti.Before(tj)
			default:
				return ti.After(tj)
			}
		})
	}
	return out
}

func matchesAll[T any](item T, active []Criterion[T]) bool {
	for _, c := range active {
		if !c.Match(item) {
			return false
		}
	}
	return true
}
