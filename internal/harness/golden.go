package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/miu/internal/canon"
)

// Snapshot converts a result into the map encoded in golden files.
// Optional trace fields are omitted when empty so snapshots stay small.
func Snapshot(name string, result *Result) map[string]any {
	trace := make([]any, len(result.Trace))
	for i, ev := range result.Trace {
		m := map[string]any{
			"seq":      ev.Seq,
			"step":     ev.Step,
			"state":    ev.State,
			"state_id": ev.StateID,
		}
		if ev.Key != "" {
			m["key"] = ev.Key
		}
		if ev.Step == StepApply {
			m["rule"] = ev.Rule
			m["start"] = ev.Start
		}
		if ev.Step == StepApply || (ev.Step == StepPress && ev.Error == "") {
			m["applied"] = ev.Applied
		}
		if len(ev.Intermediates) > 0 {
			m["intermediates"] = ev.Intermediates
		}
		if ev.Error != "" {
			m["error"] = ev.Error
		}
		trace[i] = m
	}

	return map[string]any{
		"scenario_name": name,
		"session_id":    result.SessionID,
		"trace":         trace,
	}
}

// RunWithGolden runs a scenario and compares its canonical trace with
// testdata/golden/<scenario.Name>.golden.
//
// To regenerate golden files:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result with its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := canon.Marshal(Snapshot(name, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
