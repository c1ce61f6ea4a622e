package projection

import (
	"strings"

	"github.com/covenant/covenant-terminal/pkg/lifecycle"
)

// SaveState is what the save button depends on.
type SaveState struct {
	Phase lifecycle.Phase
	Name  string
	// Folder is only consulted when NeedsFolder is set (forms).
	Folder      string
	NeedsFolder bool
}

// SaveButtonEnabled: there is something to save or retry, the document
// is named, and a form has a folder.
func SaveButtonEnabled(s SaveState) bool {
	if s.Phase != lifecycle.Dirty && s.Phase != lifecycle.Failed {
		return false
	}
	if strings.TrimSpace(s.Name) == "" {
		return false
	}
	return !s.NeedsFolder || s.Folder != ""
}
