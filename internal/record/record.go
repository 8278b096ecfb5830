// Package record models backend documents as an id plus an opaque payload.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Record is a backend document. ID is required; every other field is kept
// verbatim in Fields and read through dotted paths such as "job_data.title".
type Record struct {
	ID     string         `json:"id" validate:"required"`
	Fields map[string]any `json:"-"`
}

// New builds a record from a field map, lifting the id out of "_id" or "id".
func New(fields map[string]any) Record {
	r := Record{Fields: fields}
	if r.Fields == nil {
		r.Fields = map[string]any{}
	}
	r.ID = idFrom(r.Fields)
	return r
}

// UnmarshalJSON decodes an arbitrary JSON object, keeping numbers as
// json.Number so large ids and amounts survive intact.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	*r = New(fields)
	return nil
}

// MarshalJSON writes the payload back out with the id under "_id".
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	delete(out, "id")
	out["_id"] = r.ID
	return json.Marshal(out)
}

// Get resolves a dotted path through nested objects.
func (r Record) Get(path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	if path == "id" || path == "_id" {
		return r.ID, r.ID != ""
	}
	var current any = r.Fields
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

// String returns the field at path rendered as text, or "" when missing.
// Arrays are joined with ", ".
func (r Record) String(path string) string {
	v, ok := r.Get(path)
	if !ok {
		return ""
	}
	return stringify(v)
}

// Number returns the field at path as a float64. Numeric strings are parsed.
func (r Record) Number(path string) (float64, bool) {
	v, ok := r.Get(path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time returns the field at path parsed as a timestamp.
func (r Record) Time(path string) (time.Time, bool) {
	v, ok := r.Get(path)
	if !ok {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// Keys returns the top-level payload keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Field is one leaf value of a record.
type Field struct {
	Path  string
	Value string
}

// Flatten lists every leaf of the payload as a dotted path, sorted by path.
// Arrays stay whole and the id is left out.
func (r Record) Flatten() []Field {
	var out []Field
	var walk func(prefix string, obj map[string]any)
	walk = func(prefix string, obj map[string]any) {
		for k, v := range obj {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			if nested, ok := v.(map[string]any); ok {
				walk(path, nested)
				continue
			}
			if prefix == "" && (k == "_id" || k == "id") {
				continue
			}
			if s := stringify(v); s != "" {
				out = append(out, Field{Path: path, Value: s})
			}
		}
	}
	walk("", r.Fields)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func idFrom(fields map[string]any) string {
	for _, key := range []string{"_id", "id"} {
		if v, ok := fields[key]; ok && v != nil {
			switch id := v.(type) {
			case string:
				return id
			case map[string]any:
				// extended JSON: {"$oid": "..."}
				if oid, ok := id["$oid"].(string); ok {
					return oid
				}
			default:
				return stringify(id)
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringify(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}
