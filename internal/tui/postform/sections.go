package postform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

type input struct {
	def   FieldDef
	model textinput.Model
}

// fieldSet is shared by the model and its sections so that every copy of
// the model sees the same inputs.
type fieldSet struct {
	kind   Kind
	inputs []input
	focus  int
}

func newFieldSet(kind Kind) *fieldSet {
	defs := Fields(kind)
	set := &fieldSet{kind: kind, inputs: make([]input, 0, len(defs))}
	for _, def := range defs {
		ti := textinput.New()
		ti.Placeholder = def.Placeholder
		ti.Prompt = ""
		ti.CharLimit = 4000
		ti.Width = 40
		set.inputs = append(set.inputs, input{def: def, model: ti})
	}
	return set
}

// indexes returns the positions of step's inputs.
func (s *fieldSet) indexes(step string) []int {
	var out []int
	for i, in := range s.inputs {
		if in.def.Step == step {
			out = append(out, i)
		}
	}
	return out
}

func (s *fieldSet) find(key string) (int, bool) {
	for i, in := range s.inputs {
		if in.def.Key == key {
			return i, true
		}
	}
	return 0, false
}

func (s *fieldSet) value(key string) string {
	if i, ok := s.find(key); ok {
		return s.inputs[i].model.Value()
	}
	return ""
}

func (s *fieldSet) set(key, value string) {
	if i, ok := s.find(key); ok {
		s.inputs[i].model.SetValue(value)
	}
}

func (s *fieldSet) posting() Posting {
	p := Posting{Kind: s.kind}
	for _, in := range s.inputs {
		p.set(in.def.Field, in.model.Value())
	}
	return p
}

var (
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Width(16)
	reviewKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	emptyValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// inputSection renders the inputs of one step.
type inputSection struct {
	title string
	step  string
	set   *fieldSet
}

func (s inputSection) Title() string { return s.title }

func (s inputSection) View() string {
	var b strings.Builder
	for _, i := range s.set.indexes(s.step) {
		in := s.set.inputs[i]
		label := labelStyle.Render(in.def.Label)
		cursor := "  "
		if i == s.set.focus {
			label = focusedLabelStyle.Render(in.def.Label)
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%s %s\n", cursor, label, in.model.View())
	}
	return strings.TrimRight(b.String(), "\n")
}

// reviewSection lists every value before submission.
type reviewSection struct {
	set *fieldSet
}

func (s reviewSection) Title() string { return "Review" }

func (s reviewSection) View() string {
	var b strings.Builder
	current := ""
	for _, in := range s.set.inputs {
		if in.def.Step != current {
			current = in.def.Step
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(lipgloss.NewStyle().Bold(true).Render(stepLabels[current]))
			b.WriteString("\n")
		}
		value := strings.TrimSpace(in.model.Value())
		if value == "" {
			value = emptyValueStyle.Render("not set")
		}
		fmt.Fprintf(&b, "  %s %s\n", reviewKeyStyle.Render(in.def.Label), value)
	}
	return strings.TrimRight(b.String(), "\n")
}
