// Package catalog describes the record collections served by the backend
// and how each one is searched, filtered and displayed.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/careerdesk/internal/filter"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/session"
)

// Filter keys shared by every collection.
const (
	KeySearch   = "search"
	KeyCategory = "category"
	KeyRange    = "range"
	KeySince    = "since"
)

// Column is one table column in list views.
type Column struct {
	Header string
	Path   string
	Width  int
}

// Collection describes one backend collection.
type Collection struct {
	Name          string
	Title         string
	Endpoint      string
	EnvelopeKey   string
	ItemKey       string
	SearchFields  []string
	CategoryField string
	CategoryLabel string
	RangeField    string
	RangeLabel    string
	RecencyField  string
	Columns       []Column
	Postable      bool
	Appliable     bool
	Restricted    bool
}

var collections = []Collection{
	{
		Name:          "jobs",
		Title:         "Jobs",
		Endpoint:      "/jobs",
		EnvelopeKey:   "jobs",
		ItemKey:       "job",
		SearchFields:  []string{"job_data.title", "job_data.company_name", "job_data.location", "job_data.skills"},
		CategoryField: "job_data.job_type",
		CategoryLabel: "type",
		RangeField:    "job_data.salary",
		RangeLabel:    "salary",
		RecencyField:  "createdAt",
		Columns: []Column{
			{Header: "TITLE", Path: "job_data.title", Width: 28},
			{Header: "COMPANY", Path: "job_data.company_name", Width: 20},
			{Header: "TYPE", Path: "job_data.job_type", Width: 12},
			{Header: "SALARY", Path: "job_data.salary", Width: 10},
		},
		Postable:  true,
		Appliable: true,
	},
	{
		Name:          "internships",
		Title:         "Internships",
		Endpoint:      "/internships",
		EnvelopeKey:   "internships",
		ItemKey:       "internship",
		SearchFields:  []string{"internship_data.title", "internship_data.company_name", "internship_data.location", "internship_data.skills"},
		CategoryField: "internship_data.mode",
		CategoryLabel: "mode",
		RangeField:    "internship_data.stipend",
		RangeLabel:    "stipend",
		RecencyField:  "createdAt",
		Columns: []Column{
			{Header: "TITLE", Path: "internship_data.title", Width: 28},
			{Header: "COMPANY", Path: "internship_data.company_name", Width: 20},
			{Header: "MODE", Path: "internship_data.mode", Width: 10},
			{Header: "STIPEND", Path: "internship_data.stipend", Width: 10},
		},
		Postable:  true,
		Appliable: true,
	},
	{
		Name:          "students",
		Title:         "Students",
		Endpoint:      "/students",
		EnvelopeKey:   "students",
		ItemKey:       "student",
		SearchFields:  []string{"name", "email", "roll_number"},
		CategoryField: "department",
		CategoryLabel: "department",
		RangeField:    "cgpa",
		RangeLabel:    "cgpa",
		RecencyField:  "createdAt",
		Columns: []Column{
			{Header: "NAME", Path: "name", Width: 22},
			{Header: "EMAIL", Path: "email", Width: 26},
			{Header: "DEPARTMENT", Path: "department", Width: 14},
			{Header: "CGPA", Path: "cgpa", Width: 6},
		},
		Restricted: true,
	},
	{
		Name:          "achievements",
		Title:         "Achievements",
		Endpoint:      "/achievements",
		EnvelopeKey:   "achievements",
		ItemKey:       "achievement",
		SearchFields:  []string{"title", "student_name", "description"},
		CategoryField: "category",
		CategoryLabel: "category",
		RecencyField:  "date",
		Columns: []Column{
			{Header: "TITLE", Path: "title", Width: 28},
			{Header: "STUDENT", Path: "student_name", Width: 20},
			{Header: "CATEGORY", Path: "category", Width: 14},
			{Header: "DATE", Path: "date", Width: 12},
		},
		Restricted: true,
	},
	{
		Name:          "materials",
		Title:         "Materials",
		Endpoint:      "/materials",
		EnvelopeKey:   "materials",
		ItemKey:       "material",
		SearchFields:  []string{"title", "subject", "path"},
		CategoryField: "subject",
		CategoryLabel: "subject",
		RangeField:    "size",
		RangeLabel:    "size",
		RecencyField:  "updatedAt",
		Columns: []Column{
			{Header: "TITLE", Path: "title", Width: 30},
			{Header: "SUBJECT", Path: "subject", Width: 16},
			{Header: "UPDATED", Path: "updatedAt", Width: 12},
		},
	},
}

// All returns every collection in display order.
func All() []Collection {
	out := make([]Collection, len(collections))
	copy(out, collections)
	return out
}

// Names lists collection names in display order.
func Names() []string {
	names := make([]string, len(collections))
	for i, c := range collections {
		names[i] = c.Name
	}
	return names
}

// Lookup finds a collection by name, case-insensitively.
func Lookup(name string) (Collection, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, c := range collections {
		if c.Name == needle || c.ItemKey == needle {
			return c, nil
		}
	}
	return Collection{}, fmt.Errorf("unknown collection %q (expected one of %s)", name, strings.Join(Names(), ", "))
}

// Visible returns the collections sess may browse.
func Visible(sess session.Session) []Collection {
	out := make([]Collection, 0, len(collections))
	for _, c := range collections {
		if c.VisibleTo(sess) {
			out = append(out, c)
		}
	}
	return out
}

// VisibleTo reports whether sess may browse c.
func (c Collection) VisibleTo(sess session.Session) bool {
	return !c.Restricted || sess.CanManageStudents()
}

// Query is the user-facing filter input for one collection.
type Query struct {
	Search   string
	Category string
	Min      *float64
	Max      *float64
	Since    time.Time
	Recent   bool
}

// Criteria translates q into filter criteria over records of c. Criteria
// that c has no field for are left out.
func (c Collection) Criteria(q Query) filter.Criteria[record.Record] {
	items := []filter.Criterion[record.Record]{
		filter.Text[record.Record]{Name: KeySearch, Phrase: q.Search, Fields: c.searchFields},
	}
	if c.CategoryField != "" {
		items = append(items, filter.Category[record.Record]{Name: KeyCategory, Value: q.Category, Field: c.category})
	}
	if c.RangeField != "" {
		items = append(items, filter.Range[record.Record]{Name: KeyRange, Min: q.Min, Max: q.Max, Field: c.rangeValue})
	}
	if c.RecencyField != "" {
		items = append(items, filter.Since[record.Record]{Name: KeySince, After: q.Since, Field: c.Timestamp})
	}

	criteria := filter.NewCriteria(items...)
	if q.Recent && c.RecencyField != "" {
		criteria = criteria.OrderBy(filter.Order[record.Record]{Key: c.Timestamp})
	}
	return criteria
}

// Apply filters records with q.
func (c Collection) Apply(records []record.Record, q Query) []record.Record {
	return filter.Apply(records, c.Criteria(q))
}

// Categories returns the distinct non-empty category values in records,
// sorted.
func (c Collection) Categories(records []record.Record) []string {
	if c.CategoryField == "" {
		return nil
	}
	seen := make(map[string]struct{})
	for _, r := range records {
		if v := r.String(c.CategoryField); v != "" {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Summary is the display label for a record, the first column's value.
func (c Collection) Summary(r record.Record) string {
	if len(c.Columns) > 0 {
		if v := r.String(c.Columns[0].Path); v != "" {
			return v
		}
	}
	return r.ID
}

// Timestamp returns the record's recency field.
func (c Collection) Timestamp(r record.Record) (time.Time, bool) {
	return r.Time(c.RecencyField)
}

func (c Collection) searchFields(r record.Record) []string {
	out := make([]string, 0, len(c.SearchFields))
	for _, path := range c.SearchFields {
		out = append(out, r.String(path))
	}
	return out
}

func (c Collection) category(r record.Record) string {
	return r.String(c.CategoryField)
}

func (c Collection) rangeValue(r record.Record) (float64, bool) {
	return r.Number(c.RangeField)
}
