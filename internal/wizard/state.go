// Package wizard tracks progress through an ordered set of named form steps.
package wizard

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/careerdesk/internal/logger"
	apperrors "github.com/alexisbeaulieu97/careerdesk/pkg/errors"
)

// Status is the navigation status of a single step.
type Status int

const (
	Unvisited Status = iota
	Active
	Completed
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "unvisited"
	}
}

// Step is a named position in the wizard.
type Step struct {
	Name   string
	Status Status
	Order  int
}

// State holds the steps of one wizard instance. Exactly one step is Active
// whenever the wizard has steps.
type State struct {
	steps        []Step
	index        map[string]int
	active       int
	onStepChange func(string)
	log          *logger.Logger
}

// Option configures a State.
type Option func(*State)

// WithStepChange registers a callback invoked with the new active step name
// after every transition that changes the active step.
func WithStepChange(fn func(string)) Option {
	return func(s *State) {
		s.onStepChange = fn
	}
}

// WithLogger attaches a logger used to report navigation misuse.
func WithLogger(log *logger.Logger) Option {
	return func(s *State) {
		s.log = log
	}
}

// New creates a wizard whose first step is Active and the rest Unvisited.
func New(names []string, opts ...Option) (*State, error) {
	s := &State{
		steps: make([]Step, 0, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("steps[%d]", i), "step name is required", nil)
		}
		if _, dup := s.index[name]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("steps[%d]", i), fmt.Sprintf("duplicate step %q", name), nil)
		}
		s.index[name] = i
		s.steps = append(s.steps, Step{Name: name, Status: Unvisited, Order: i})
	}
	if len(s.steps) > 0 {
		s.steps[0].Status = Active
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Len returns the number of steps.
func (s *State) Len() int {
	return len(s.steps)
}

// Steps returns a copy of the steps in order.
func (s *State) Steps() []Step {
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Active returns the active step. ok is false for a wizard without steps.
func (s *State) Active() (Step, bool) {
	if len(s.steps) == 0 {
		return Step{}, false
	}
	return s.steps[s.active], true
}

// ActiveName returns the active step name or "" when there are no steps.
func (s *State) ActiveName() string {
	step, _ := s.Active()
	return step.Name
}

// Status returns the status of the named step.
func (s *State) Status(name string) (Status, bool) {
	i, ok := s.index[name]
	if !ok {
		return Unvisited, false
	}
	return s.steps[i].Status, true
}

// IsFirst reports whether the first step is active.
func (s *State) IsFirst() bool {
	return len(s.steps) > 0 && s.active == 0
}

// IsLast reports whether the last step is active.
func (s *State) IsLast() bool {
	return len(s.steps) > 0 && s.active == len(s.steps)-1
}

// CanSubmit reports whether the host may submit the form. Submission itself
// is outside the state machine.
func (s *State) CanSubmit() bool {
	return s.IsLast()
}

// Advance completes the active step and activates the next one. It returns
// false without changes on the last step.
func (s *State) Advance() bool {
	if len(s.steps) == 0 || s.IsLast() {
		s.debug("advance ignored on last step")
		return false
	}
	s.steps[s.active].Status = Completed
	s.active++
	s.steps[s.active].Status = Active
	s.notify()
	return true
}

// Retreat activates the previous step and resets it and everything after it
// to Unvisited, discarding progress made past it. It returns false without
// changes on the first step.
func (s *State) Retreat() bool {
	if len(s.steps) == 0 || s.IsFirst() {
		s.debug("retreat ignored on first step")
		return false
	}
	target := s.active - 1
	for i := target + 1; i < len(s.steps); i++ {
		s.steps[i].Status = Unvisited
	}
	s.steps[target].Status = Active
	s.active = target
	s.notify()
	return true
}

// JumpTo activates the named step. The step being left becomes Completed
// when it precedes the target; other earlier steps keep their status and all
// later steps become Unvisited. Unknown names leave the state unchanged and
// return a StepError.
func (s *State) JumpTo(name string) error {
	target, ok := s.index[name]
	if !ok {
		s.debug("jump to unknown step " + name)
		return apperrors.NewStepError(name, "unknown step")
	}

	previous := s.active
	for i := range s.steps {
		switch {
		case i == target:
			s.steps[i].Status = Active
		case i < target:
			if s.steps[i].Status == Active {
				s.steps[i].Status = Completed
			}
		default:
			s.steps[i].Status = Unvisited
		}
	}
	s.active = target
	if previous != target {
		s.notify()
	}
	return nil
}

// Progress returns the number of completed steps and the total.
func (s *State) Progress() (int, int) {
	done := 0
	for _, step := range s.steps {
		if step.Status == Completed {
			done++
		}
	}
	return done, len(s.steps)
}

func (s *State) notify() {
	if s.log != nil {
		s.log.With("step", s.steps[s.active].Name).Debug("wizard step changed")
	}
	if s.onStepChange != nil {
		s.onStepChange(s.steps[s.active].Name)
	}
}

func (s *State) debug(msg string) {
	if s.log != nil {
		s.log.Debug(msg)
	}
}
