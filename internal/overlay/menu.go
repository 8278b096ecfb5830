// Package overlay tracks which navbar popup is open. At most one can be open
// at a time because the state is a single tagged value.
package overlay

// Kind identifies a popup menu.
type Kind int

const (
	None Kind = iota
	Profile
	Mail
	Create
)

func (k Kind) String() string {
	switch k {
	case Profile:
		return "profile"
	case Mail:
		return "mail"
	case Create:
		return "create"
	default:
		return "none"
	}
}

// Menu holds the currently open popup.
type Menu struct {
	open Kind
}

// Open reports the open popup, None when everything is closed.
func (m Menu) Open() Kind {
	return m.open
}

// IsOpen reports whether kind is the open popup.
func (m Menu) IsOpen(kind Kind) bool {
	return kind != None && m.open == kind
}

// Toggle opens kind, closing any sibling, or closes it if it is already open.
func (m Menu) Toggle(kind Kind) Menu {
	if m.open == kind {
		return Menu{}
	}
	return Menu{open: kind}
}

// Close closes whatever is open.
func (m Menu) Close() Menu {
	return Menu{}
}
