// Package testutil holds deterministic stand-ins for the sources of
// variation in a session (step numbering and session IDs), so scenario
// traces are byte-identical across runs.
package testutil
