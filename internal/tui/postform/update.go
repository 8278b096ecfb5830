package postform

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/careerdesk/internal/wizard"
	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

// Update routes key presses to the focused section and applies the results
// of background submits.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SubmittedMsg:
		m.submitting = false
		m.cancel = nil
		created := msg.Record
		m.created = &created
		m.errMsg = ""
		m.log.With("collection", m.col.Name, "id", created.ID).Info("posting created")
		return m, nil

	case SubmitErrorMsg:
		m.submitting = false
		m.cancel = nil
		m.errMsg = fmt.Sprintf("Failed to post %s: %s", m.kind, describeError(msg.Err))
		m.log.Error(msg.Err, "posting failed")
		return m, nil

	case SubmitCancelledMsg:
		m.submitting = false
		m.cancel = nil
		return m, nil
	}

	return m.updateFocused(msg)
}

// handleKeyPress routes keys according to where the form is.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.created != nil {
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+c":
			return m, m.close()
		}
		return m, nil
	}

	if m.submitting {
		switch msg.String() {
		case "esc":
			m.cancelSubmit()
			return m, nil
		case "ctrl+c":
			m.cancelSubmit()
			return m, m.close()
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, m.close()

	case "esc":
		if m.state.IsFirst() {
			return m, m.close()
		}
		m.errMsg = ""
		m.state.Retreat()
		return m, m.focusStep()

	case "alt+1", "alt+2", "alt+3", "alt+4":
		target := StepNames[int(msg.String()[4]-'1')]
		// only sections already reached can be jumped to
		if status, _ := m.state.Status(target); status == wizard.Unvisited &&
			slices.Index(StepNames, target) > slices.Index(StepNames, m.state.ActiveName()) {
			return m, nil
		}
		if err := m.state.JumpTo(target); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		return m, m.focusStep()

	case "tab", "down":
		return m, m.moveFocus(1)

	case "shift+tab", "up":
		return m, m.moveFocus(-1)

	case "enter":
		if m.state.CanSubmit() {
			return m.submit()
		}
		if !m.onLastInput() {
			return m, m.moveFocus(1)
		}
		return m.advance()

	case "ctrl+n":
		if m.state.CanSubmit() {
			return m, nil
		}
		return m.advance()
	}

	return m.updateFocused(msg)
}

// advance validates the active section and moves to the next one.
func (m Model) advance() (tea.Model, tea.Cmd) {
	if err := ValidateSection(m.fields.posting(), m.state.ActiveName()); err != nil {
		m.errMsg = describeError(err)
		return m, nil
	}
	m.errMsg = ""
	m.state.Advance()
	return m, m.focusStep()
}

// submit re-validates every section, jumping back to the first failing one,
// and then sends the posting.
func (m Model) submit() (tea.Model, tea.Cmd) {
	posting := m.fields.posting()
	if step, err := Validate(posting); err != nil {
		m.errMsg = describeError(err)
		if jumpErr := m.state.JumpTo(step); jumpErr != nil {
			m.log.Error(jumpErr, "jump to failing section")
		}
		return m, m.focusStep()
	}
	if m.creator == nil {
		m.errMsg = "Posting is unavailable offline"
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.submitting = true
	m.errMsg = ""
	return m, tea.Batch(m.spinner.Tick, submitCmd(ctx, m.creator, m.col, posting.Payload()))
}

func (m *Model) cancelSubmit() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.submitting = false
}

func (m Model) close() tea.Cmd {
	if m.standalone {
		return tea.Quit
	}
	return closeCmd(m.kind, m.created)
}

// updateFocused forwards msg to the focused input.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.fields.focus < 0 || m.fields.focus >= len(m.fields.inputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.fields.inputs[m.fields.focus].model, cmd = m.fields.inputs[m.fields.focus].model.Update(msg)
	return m, cmd
}

func describeError(err error) string {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Unauthorized() {
			return "you are not allowed to post; sign in with an admin account"
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return err.Error()
}
