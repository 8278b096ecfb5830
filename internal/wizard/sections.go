package wizard

// Section is the form content shown while its step is active.
type Section interface {
	Title() string
	View() string
}

// Renderer maps step names to the section displayed for them.
type Renderer struct {
	sections map[string]Section
}

// NewRenderer builds a renderer from a step-name to section mapping.
func NewRenderer(sections map[string]Section) Renderer {
	copied := make(map[string]Section, len(sections))
	for name, section := range sections {
		copied[name] = section
	}
	return Renderer{sections: copied}
}

// Select returns the section for the wizard's active step.
func (r Renderer) Select(state *State) (Section, bool) {
	if state == nil {
		return nil, false
	}
	step, ok := state.Active()
	if !ok {
		return nil, false
	}
	section, ok := r.sections[step.Name]
	return section, ok
}
