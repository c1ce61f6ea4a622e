package lifecycle

// Phase is the persistence state of the edited document.
type Phase int

const (
	Blank Phase = iota
	Loading
	Clean
	Dirty
	Saving
	ConflictPending
	ConfirmDiscard
	Failed
)

var phaseNames = [...]string{"Blank", "Loading", "Clean", "Dirty", "Saving", "ConflictPending", "ConfirmDiscard", "Error"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}

// Busy reports whether a network operation is in flight.
func (p Phase) Busy() bool {
	return p == Loading || p == Saving
}

// Action is what a discard confirmation is guarding.
type Action int

const (
	NoAction Action = iota
	ActionNew
	ActionClear
	ActionLeave
)

func (a Action) String() string {
	switch a {
	case ActionNew:
		return "new"
	case ActionClear:
		return "clear"
	case ActionLeave:
		return "leave"
	}
	return "none"
}

// Prompt is the confirmation text for a guarded action.
func (a Action) Prompt() string {
	switch a {
	case ActionNew:
		return "Discard unsaved changes and start a new document?"
	case ActionClear:
		return "Clear everything in this document?"
	case ActionLeave:
		return "Leave without saving your changes?"
	}
	return ""
}
