package note

// Note is the clinical note of one session. InternalPrivateNotes is staff
// only and must not reach parent-facing views.
type Note struct {
	SessionID            string `db:"session_id" json:"session_id"`
	TherapyContent       string `db:"therapy_content" json:"therapy_content"`
	Homework             string `db:"homework" json:"homework"`
	InternalPrivateNotes string `db:"internal_private_notes" json:"internal_private_notes,omitempty"`
}

// Public returns a copy without the private notes.
func (n *Note) Public() *Note {
	if n == nil {
		return nil
	}
	cp := *n
	cp.InternalPrivateNotes = ""
	return &cp
}

// BySession indexes notes by session id. When a session has more than one
// note the first one wins.
func BySession(notes []*Note) map[string]*Note {
	m := make(map[string]*Note, len(notes))
	for _, n := range notes {
		if _, ok := m[n.SessionID]; !ok {
			m[n.SessionID] = n
		}
	}
	return m
}
