// Package filter narrows and orders in-memory record collections.
package filter

import (
	"strings"
	"time"
)

// Criterion is a single named predicate. A criterion left at its default
// value imposes no constraint.
type Criterion[T any] interface {
	Key() string
	IsDefault() bool
	Match(T) bool
}

// Text matches records where any of the fields contains Phrase,
// case-insensitively. An empty or blank phrase is the default.
type Text[T any] struct {
	Name   string
	Phrase string
	Fields func(T) []string
}

func (c Text[T]) Key() string { return c.Name }

func (c Text[T]) IsDefault() bool {
	return strings.TrimSpace(c.Phrase) == "" || c.Fields == nil
}

func (c Text[T]) Match(item T) bool {
	needle := strings.ToLower(strings.TrimSpace(c.Phrase))
	for _, field := range c.Fields(item) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Category matches records whose field equals Value exactly. An empty value
// is the default.
type Category[T any] struct {
	Name  string
	Value string
	Field func(T) string
}

func (c Category[T]) Key() string { return c.Name }

func (c Category[T]) IsDefault() bool {
	return c.Value == "" || c.Field == nil
}

func (c Category[T]) Match(item T) bool {
	return c.Field(item) == c.Value
}

// Range matches records whose numeric field lies in [Min, Max]. Either bound
// may be nil; both nil is the default. Records without the field do not
// match an active range, and Min > Max matches nothing.
type Range[T any] struct {
	Name  string
	Min   *float64
	Max   *float64
	Field func(T) (float64, bool)
}

func (c Range[T]) Key() string { return c.Name }

func (c Range[T]) IsDefault() bool {
	return (c.Min == nil && c.Max == nil) || c.Field == nil
}

func (c Range[T]) Match(item T) bool {
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return false
	}
	v, ok := c.Field(item)
	if !ok {
		return false
	}
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	return true
}

// Since matches records whose timestamp is at or after After. A zero After
// is the default.
type Since[T any] struct {
	Name  string
	After time.Time
	Field func(T) (time.Time, bool)
}

func (c Since[T]) Key() string { return c.Name }

func (c Since[T]) IsDefault() bool {
	return c.After.IsZero() || c.Field == nil
}

func (c Since[T]) Match(item T) bool {
	ts, ok := c.Field(item)
	return ok && !ts.Before(c.After)
}

// Order requests a stable sort by a time key, newest first unless
// Ascending is set. Items without a timestamp sort last.
type Order[T any] struct {
	Key       func(T) (time.Time, bool)
	Ascending bool
}

// Bound is a convenience for building Range bounds.
func Bound(v float64) *float64 {
	return &v
}
