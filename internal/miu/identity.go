package miu

import "github.com/roach88/miu/internal/canon"

// DomainState is the hash domain for theorem identities.
// The version suffix leaves room for a future encoding change.
const DomainState = "miu/state/v1"

// StateID returns the content-addressed identity of a theorem.
// Equal theorems always share an ID.
func StateID(t Theorem) string {
	id, err := canon.Hash(DomainState, map[string]any{
		"theorem": t.String(),
		"length":  len(t),
	})
	if err != nil {
		// Only strings and ints are hashed; Marshal cannot fail on them.
		panic(err)
	}
	return id
}
