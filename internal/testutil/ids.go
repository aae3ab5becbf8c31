package testutil

// DefaultSessionID is used when a scenario does not pin its own ID.
const DefaultSessionID = "test-session-default"

// FixedIDs hands out the same session ID on every call.
// It satisfies session.IDGenerator and is stateless.
type FixedIDs struct {
	id string
}

// NewFixedIDs returns a generator for id, or DefaultSessionID if id is empty.
func NewFixedIDs(id string) FixedIDs {
	if id == "" {
		id = DefaultSessionID
	}
	return FixedIDs{id: id}
}

// Generate returns the fixed ID.
func (g FixedIDs) Generate() string {
	return g.id
}
