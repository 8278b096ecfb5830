package postform

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/logger"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/tui/components"
	"github.com/alexisbeaulieu97/careerdesk/internal/wizard"
)

// Model is the posting wizard. It runs standalone under `careerdesk post`
// or embedded in the browser.
type Model struct {
	kind     Kind
	col      catalog.Collection
	creator  Creator
	state    *wizard.State
	renderer wizard.Renderer
	fields   *fieldSet
	log      *logger.Logger

	spinner  spinner.Model
	progress components.Progress

	errMsg     string
	submitting bool
	cancel     context.CancelFunc
	created    *record.Record

	width      int
	height     int
	unicode    bool
	standalone bool
}

// Option customises a Model.
type Option func(*Model)

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(m *Model) { m.log = log }
}

// WithUnicode toggles unicode step markers.
func WithUnicode(enabled bool) Option {
	return func(m *Model) { m.unicode = enabled }
}

// Standalone makes the form quit the program when it closes instead of
// reporting ClosedMsg to a host.
func Standalone() Option {
	return func(m *Model) { m.standalone = true }
}

// NewModel creates a posting wizard for kind that submits through creator.
func NewModel(kind Kind, creator Creator, opts ...Option) (Model, error) {
	col, err := catalog.Lookup(kind.Collection())
	if err != nil {
		return Model{}, err
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

	m := Model{
		kind:     kind,
		col:      col,
		creator:  creator,
		fields:   newFieldSet(kind),
		spinner:  s,
		progress: components.NewProgress(30),
		unicode:  true,
		width:    80,
		height:   24,
	}
	for _, opt := range opts {
		opt(&m)
	}

	state, err := wizard.New(StepNames, wizard.WithLogger(m.log))
	if err != nil {
		return Model{}, err
	}
	m.state = state
	m.renderer = wizard.NewRenderer(map[string]wizard.Section{
		StepBasics:      inputSection{title: stepLabels[StepBasics], step: StepBasics, set: m.fields},
		StepDetails:     inputSection{title: stepLabels[StepDetails], step: StepDetails, set: m.fields},
		StepEligibility: inputSection{title: stepLabels[StepEligibility], step: StepEligibility, set: m.fields},
		StepReview:      reviewSection{set: m.fields},
	})
	m.focusStep()
	return m, nil
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Kind returns what the form posts.
func (m Model) Kind() Kind {
	return m.kind
}

// ActiveStep returns the name of the visible step.
func (m Model) ActiveStep() string {
	return m.state.ActiveName()
}

// Posting returns the current form input.
func (m Model) Posting() Posting {
	return m.fields.posting()
}

// SetValue fills an input by key. It is used to prefill the form.
func (m Model) SetValue(key, value string) {
	m.fields.set(key, value)
}

// Value returns an input's current text.
func (m Model) Value(key string) string {
	return m.fields.value(key)
}

// Err returns the message shown under the form.
func (m Model) Err() string {
	return m.errMsg
}

// Submitting reports whether a submission is in flight.
func (m Model) Submitting() bool {
	return m.submitting
}

// Created returns the stored posting after a successful submit.
func (m Model) Created() (record.Record, bool) {
	if m.created == nil {
		return record.Record{}, false
	}
	return *m.created, true
}

// focusStep focuses the first input of the active step and blurs the rest.
func (m *Model) focusStep() tea.Cmd {
	for i := range m.fields.inputs {
		m.fields.inputs[i].model.Blur()
	}
	idx := m.fields.indexes(m.state.ActiveName())
	if len(idx) == 0 {
		m.fields.focus = -1
		return nil
	}
	return m.focusInput(idx[0])
}

func (m *Model) focusInput(i int) tea.Cmd {
	if m.fields.focus >= 0 && m.fields.focus < len(m.fields.inputs) {
		m.fields.inputs[m.fields.focus].model.Blur()
	}
	m.fields.focus = i
	return m.fields.inputs[i].model.Focus()
}

// moveFocus cycles focus within the active step by delta.
func (m *Model) moveFocus(delta int) tea.Cmd {
	idx := m.fields.indexes(m.state.ActiveName())
	if len(idx) == 0 {
		return nil
	}
	pos := 0
	for p, i := range idx {
		if i == m.fields.focus {
			pos = p
		}
	}
	pos = (pos + delta + len(idx)) % len(idx)
	return m.focusInput(idx[pos])
}

// onLastInput reports whether focus is on the last input of the step.
func (m Model) onLastInput() bool {
	idx := m.fields.indexes(m.state.ActiveName())
	return len(idx) == 0 || idx[len(idx)-1] == m.fields.focus
}
