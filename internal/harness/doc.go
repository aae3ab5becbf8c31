// Package harness runs scripted MIU sessions and checks their outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: collapse_then_undo
//	description: "What this scenario validates"
//	start: "MIIII"
//	shortcuts: "abcdefgh"      # optional, defaults to session.DefaultShortcuts
//	session_id: "fixed-id"     # optional, defaults to testutil.DefaultSessionID
//	steps:
//	  - press: c               # apply the action bound to a key
//	    expect:
//	      applied: 3
//	      state: "MUI"
//	      intermediates: ["III", "II", "I"]
//	  - undo: true
//	  - apply: { rule: 3, at: 1 }  # apply a rule instance directly
//	  - undo: true
//	  - undo: true
//	    expect:
//	      error: "nothing to undo"
//	assertions:
//	  - type: final_state
//	    state: "MIIII"
//	  - type: history_depth
//	    count: 0
//	  - type: actions
//	    actions: ["a: rule 1", "b: rule 2", "c: rule 3 at 0", "d: rule 3 at 1"]
//	  - type: rules
//	    rules: [1, 2, 3, 3]
//
// Theorems are compared by symbols, so "MUI" and "UI" are the same state.
//
// # Deterministic Traces
//
// Every run uses a fixed session ID and a logical step clock, so the same
// scenario always produces a byte-identical trace. RunWithGolden compares
// that trace against testdata/golden/<name>.golden.
package harness
