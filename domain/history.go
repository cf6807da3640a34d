package domain

type Role string

const (
	UserRole  Role = "user"
	ModelRole Role = "model"
)

// Turn is one entry of the chat transcript.
type Turn struct {
	Role  Role   `json:"role" firestore:"role"`
	Parts []Part `json:"parts" firestore:"parts"`
}

type Part struct {
	Text string `json:"text" firestore:"text"`
}

// ContextBlob is the persisted conversation document.
type ContextBlob struct {
	History []Turn `json:"history" firestore:"history"`
}

// Turns returns the stored history, never nil.
func (b ContextBlob) Turns() []Turn {
	if b.History == nil {
		return []Turn{}
	}
	return b.History
}

// Clone returns a deep copy so callers can hand the blob out without sharing
// backing arrays.
func (b ContextBlob) Clone() ContextBlob {
	if b.History == nil {
		return ContextBlob{}
	}
	history := make([]Turn, len(b.History))
	for i, t := range b.History {
		parts := make([]Part, len(t.Parts))
		copy(parts, t.Parts)
		history[i] = Turn{Role: t.Role, Parts: parts}
	}
	return ContextBlob{History: history}
}
