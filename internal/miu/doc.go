// Package miu implements the rewrite engine of the MIU formal system.
//
// The alphabet has two symbols, Filled and Empty, and a theorem is a finite
// sequence of them. Four production rules rewrite one theorem into another:
//
//	1. xI   -> xIU   append Empty after a trailing Filled
//	2. x    -> xx    duplicate the whole theorem
//	3. III  -> U     three consecutive Filled become one Empty
//	4. UU   ->       two consecutive Empty are deleted
//
// The engine is stateless. Every function takes a Theorem by value and
// returns fresh slices; no input is ever mutated. Callers own the "current"
// theorem and any undo history (see package session).
//
// Rule values are snapshots of one applicable instance over one theorem.
// They must be recomputed after every transformation. Apply never checks
// that a Rule still matches: a stale Rule yields a well-defined result and
// never panics.
package miu
