// Package event defines the normalized representation of one intercepted
// action request and the normalizer that produces it from untrusted input.
package event

// ActionKind tags the closed set of action classifications. Anything the
// normalizer cannot resolve maps to ActionNone, which every rule treats as
// an automatic approve.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionRunCommand
	ActionWriteFile
	ActionEditFile
	ActionReadFile
)

func (k ActionKind) String() string {
	switch k {
	case ActionRunCommand:
		return "run-command"
	case ActionWriteFile:
		return "write-file"
	case ActionEditFile:
		return "edit-file"
	case ActionReadFile:
		return "read-file"
	default:
		return "none"
	}
}

// Edit is one old/new text pair of a proposed file edit.
type Edit struct {
	OldText string
	NewText string
}

// Event is one normalized intercepted action request.
type Event struct {
	Kind      ActionKind
	SessionID string
	WorkDir   string

	// Command is set for ActionRunCommand.
	Command string

	// FilePath is set for file actions.
	FilePath string

	// Content is the full proposed content for ActionWriteFile.
	Content string

	// Edits holds the proposed old/new pairs for ActionEditFile. A single
	// edit arrives as a one-element slice.
	Edits []Edit
}

// ProposedText returns the text a rule should inspect when judging what an
// event would add to a file: the full content for a write, the concatenated
// replacement fragments for an edit.
func (e Event) ProposedText() string {
	if e.Kind == ActionWriteFile {
		return e.Content
	}
	var out string
	for i, ed := range e.Edits {
		if i > 0 {
			out += "\n"
		}
		out += ed.NewText
	}
	return out
}
