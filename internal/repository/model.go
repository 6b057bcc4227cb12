package repository

import (
	"github.com/google/uuid"
)

// Note is the single persisted entity.
type Note struct {
	ID        string   `json:"id"`
	Title     string   `json:"title" validate:"required"`
	Content   string   `json:"content"`
	SideNotes []string `json:"side_notes"`
}

// ApplyDefaults sets fallback values after decode.
func (n *Note) ApplyDefaults() {
	if n.SideNotes == nil {
		n.SideNotes = []string{}
	}
}

// ensureID assigns a random UUID when the note has none and reports whether it did.
func (n *Note) ensureID() bool {
	if n.ID != "" {
		return false
	}
	n.ID = uuid.NewString()
	return true
}

// Clone returns a copy that shares no slices with n.
func (n Note) Clone() Note {
	c := n
	if n.SideNotes != nil {
		c.SideNotes = make([]string, len(n.SideNotes))
		copy(c.SideNotes, n.SideNotes)
	}
	return c
}

func applyDefaults(notes []Note) []Note {
	if notes == nil {
		return []Note{}
	}
	for i := range notes {
		notes[i].ApplyDefaults()
	}
	return notes
}
