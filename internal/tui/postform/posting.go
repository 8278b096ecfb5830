// Package postform implements the multi-step wizard for posting a job or an
// internship.
package postform

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

// Kind selects what is being posted.
type Kind string

const (
	KindJob        Kind = "job"
	KindInternship Kind = "internship"
)

// ParseKind accepts "job", "jobs", "internship" or "internships".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "job", "jobs":
		return KindJob, nil
	case "internship", "internships":
		return KindInternship, nil
	default:
		return "", apperrors.NewValidationError("kind", fmt.Sprintf("unknown posting kind %q (expected job or internship)", s), nil)
	}
}

// Collection is the catalog collection the posting is created in.
func (k Kind) Collection() string {
	if k == KindInternship {
		return "internships"
	}
	return "jobs"
}

// PayloadKey is the object the backend expects the posting under.
func (k Kind) PayloadKey() string {
	if k == KindInternship {
		return "internship_data"
	}
	return "job_data"
}

// Title is the human label for the kind.
func (k Kind) Title() string {
	if k == KindInternship {
		return "Internship"
	}
	return "Job"
}

func (k Kind) categoryKey() string {
	if k == KindInternship {
		return "mode"
	}
	return "job_type"
}

func (k Kind) amountKey() string {
	if k == KindInternship {
		return "stipend"
	}
	return "salary"
}

// Categories lists the accepted values for the job type or internship mode.
func (k Kind) Categories() []string {
	if k == KindInternship {
		return []string{"remote", "onsite", "hybrid"}
	}
	return []string{"full-time", "part-time", "contract"}
}

// Wizard steps in order.
const (
	StepBasics      = "basics"
	StepDetails     = "details"
	StepEligibility = "eligibility"
	StepReview      = "review"
)

// StepNames lists the wizard steps in order.
var StepNames = []string{StepBasics, StepDetails, StepEligibility, StepReview}

var stepLabels = map[string]string{
	StepBasics:      "Basics",
	StepDetails:     "Details",
	StepEligibility: "Eligibility",
	StepReview:      "Review",
}

// FieldDef describes one form input.
type FieldDef struct {
	Step        string
	Key         string
	Field       string
	Label       string
	Placeholder string
}

// Fields returns the inputs for kind in display order.
func Fields(kind Kind) []FieldDef {
	defs := []FieldDef{
		{Step: StepBasics, Key: "title", Field: "Title", Label: "Title", Placeholder: "Backend Engineer"},
		{Step: StepBasics, Key: "company_name", Field: "Company", Label: "Company", Placeholder: "Acme Corp"},
		{Step: StepBasics, Key: "location", Field: "Location", Label: "Location", Placeholder: "Bengaluru"},
		{
			Step:        StepDetails,
			Key:         kind.categoryKey(),
			Field:       "Category",
			Label:       map[Kind]string{KindJob: "Job type", KindInternship: "Mode"}[kind],
			Placeholder: strings.Join(kind.Categories(), ", "),
		},
		{
			Step:        StepDetails,
			Key:         kind.amountKey(),
			Field:       "Amount",
			Label:       map[Kind]string{KindJob: "Salary", KindInternship: "Stipend"}[kind],
			Placeholder: "per year for jobs, per month for internships",
		},
	}
	if kind == KindInternship {
		defs = append(defs, FieldDef{Step: StepDetails, Key: "duration", Field: "Duration", Label: "Duration", Placeholder: "6 months"})
	}
	defs = append(defs,
		FieldDef{Step: StepDetails, Key: "skills", Field: "Skills", Label: "Skills", Placeholder: "go, sql, docker"},
		FieldDef{Step: StepDetails, Key: "description", Field: "Description", Label: "Description"},
		FieldDef{Step: StepEligibility, Key: "min_cgpa", Field: "MinCGPA", Label: "Minimum CGPA", Placeholder: "7.5"},
		FieldDef{Step: StepEligibility, Key: "departments", Field: "Departments", Label: "Departments", Placeholder: "CSE, ECE"},
		FieldDef{Step: StepEligibility, Key: "deadline", Field: "Deadline", Label: "Deadline", Placeholder: "2025-01-31"},
	)
	return defs
}

// Posting is the raw form input. Every value is kept as typed so that
// validation can report on exactly what the user entered.
type Posting struct {
	Kind        Kind   `validate:"required,oneof=job internship"`
	Title       string `validate:"required,max=120"`
	Company     string `validate:"required,max=120"`
	Location    string `validate:"max=120"`
	Category    string `validate:"required"`
	Amount      string `validate:"omitempty,numeric"`
	Duration    string `validate:"max=60"`
	Skills      string `validate:"max=500"`
	Description string `validate:"max=4000"`
	MinCGPA     string `validate:"omitempty,numeric"`
	Departments string `validate:"max=500"`
	Deadline    string `validate:"omitempty,datetime=2006-01-02"`
}

// NewPosting builds a posting from values keyed by field key, such as
// "title" or "salary". Unknown keys are rejected.
func NewPosting(kind Kind, values map[string]string) (Posting, error) {
	defs := Fields(kind)
	p := Posting{Kind: kind}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		i := slices.IndexFunc(defs, func(def FieldDef) bool { return def.Key == key })
		if i < 0 {
			return Posting{}, apperrors.NewValidationError(key, fmt.Sprintf("%s has no field %q", kind.Title(), key), nil)
		}
		p.set(defs[i].Field, values[key])
	}
	return p, nil
}

func (p *Posting) set(field, value string) {
	switch field {
	case "Title":
		p.Title = value
	case "Company":
		p.Company = value
	case "Location":
		p.Location = value
	case "Category":
		p.Category = value
	case "Amount":
		p.Amount = value
	case "Duration":
		p.Duration = value
	case "Skills":
		p.Skills = value
	case "Description":
		p.Description = value
	case "MinCGPA":
		p.MinCGPA = value
	case "Departments":
		p.Departments = value
	case "Deadline":
		p.Deadline = value
	}
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func postingValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validateInst = validator.New()
	})
	return validateInst
}

// ValidateSection checks the inputs belonging to step. The review step and
// unknown steps have nothing to validate.
func ValidateSection(p Posting, step string) error {
	defs := make(map[string]FieldDef)
	var names []string
	for _, def := range Fields(p.Kind) {
		if def.Step == step {
			defs[def.Field] = def
			names = append(names, def.Field)
		}
	}
	if len(names) == 0 {
		return nil
	}

	if err := postingValidator().StructPartial(p, names...); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			def := defs[first.StructField()]
			return apperrors.NewValidationError(def.Key, describe(def.Label, first.Tag()), err)
		}
		return apperrors.NewValidationError(step, "invalid input", err)
	}

	for _, name := range names {
		if err := checkValue(p, defs[name]); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every section and reports the first failing step.
func Validate(p Posting) (string, error) {
	for _, step := range StepNames {
		if err := ValidateSection(p, step); err != nil {
			return step, err
		}
	}
	return "", nil
}

func checkValue(p Posting, def FieldDef) error {
	switch def.Field {
	case "Category":
		value := strings.ToLower(strings.TrimSpace(p.Category))
		for _, allowed := range p.Kind.Categories() {
			if value == allowed {
				return nil
			}
		}
		return apperrors.NewValidationError(def.Key, fmt.Sprintf("%s must be one of %s", def.Label, strings.Join(p.Kind.Categories(), ", ")), nil)
	case "Amount":
		if v, ok := parseNumber(p.Amount); ok && v < 0 {
			return apperrors.NewValidationError(def.Key, def.Label+" cannot be negative", nil)
		}
	case "MinCGPA":
		if v, ok := parseNumber(p.MinCGPA); ok && (v < 0 || v > 10) {
			return apperrors.NewValidationError(def.Key, def.Label+" must be between 0 and 10", nil)
		}
	}
	return nil
}

func describe(label, tag string) string {
	switch tag {
	case "required":
		return label + " is required"
	case "max":
		return label + " is too long"
	case "numeric":
		return label + " must be a number"
	case "datetime":
		return label + " must be a date like 2025-01-31"
	default:
		return label + " is invalid"
	}
}

// Payload builds the request body for the backend.
func (p Posting) Payload() map[string]any {
	data := map[string]any{
		"title":        strings.TrimSpace(p.Title),
		"company_name": strings.TrimSpace(p.Company),
	}
	putString(data, "location", p.Location)
	putString(data, p.Kind.categoryKey(), strings.ToLower(p.Category))
	if v, ok := parseNumber(p.Amount); ok {
		data[p.Kind.amountKey()] = v
	}
	if p.Kind == KindInternship {
		putString(data, "duration", p.Duration)
	}
	if skills := splitList(p.Skills); len(skills) > 0 {
		data["skills"] = skills
	}
	putString(data, "description", p.Description)
	putString(data, "deadline", p.Deadline)

	eligibility := map[string]any{}
	if v, ok := parseNumber(p.MinCGPA); ok {
		eligibility["min_cgpa"] = v
	}
	if departments := splitList(p.Departments); len(departments) > 0 {
		eligibility["departments"] = departments
	}
	if len(eligibility) > 0 {
		data["eligibility"] = eligibility
	}

	return map[string]any{p.Kind.PayloadKey(): data}
}

func putString(data map[string]any, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		data[key] = v
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
