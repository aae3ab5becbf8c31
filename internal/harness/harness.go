package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/miu/internal/miu"
	"github.com/roach88/miu/internal/session"
	"github.com/roach88/miu/internal/testutil"
)

// Harness drives one session through a scenario.
type Harness struct {
	session *session.Session
	clock   *testutil.StepClock
	logger  *slog.Logger
}

// Run executes a scenario with a discarded log.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario and returns its result.
//
// Failed expectations and assertions are reported in Result.Errors. An
// error is returned only when the scenario cannot run at all.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	start, err := miu.Parse(scenario.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	sess, err := session.New(start, session.Options{
		Shortcuts: scenario.Shortcuts,
		IDs:       testutil.NewFixedIDs(scenario.SessionID),
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	h := &Harness{
		session: sess,
		clock:   testutil.NewStepClock(),
		logger:  logger.With("scenario", scenario.Name),
	}

	result := NewResult()
	result.SessionID = sess.ID()
	result.AddEvent(h.event(StepStart))

	for i, step := range scenario.Steps {
		h.executeStep(i, step, result)
	}

	for _, msg := range EvaluateAssertions(sess, scenario.Assertions) {
		result.AddError(msg)
	}

	h.logger.Info("scenario finished", "pass", result.Pass, "errors", len(result.Errors))
	return result, nil
}

// event snapshots the current session state.
func (h *Harness) event(kind string) TraceEvent {
	current := h.session.Current()
	return TraceEvent{
		Seq:     h.clock.Next(),
		Step:    kind,
		State:   current.String(),
		StateID: miu.StateID(current),
	}
}

func (h *Harness) executeStep(i int, step Step, result *Result) {
	var (
		res    miu.Result
		err    error
		rule   miu.Rule
		ranApp bool
	)

	switch step.Kind() {
	case StepPress:
		res, err = h.session.Press(step.Press)
		ranApp = err == nil
	case StepApply:
		rule = miu.Rule{Number: step.Apply.Rule, Start: step.Apply.At}
		res = h.session.Apply(rule)
		ranApp = true
	case StepUndo:
		_, err = h.session.Undo()
	}

	ev := h.event(step.Kind())
	ev.Key = step.Press
	if step.Apply != nil {
		ev.Rule = rule.Number
		ev.Start = rule.Start
	}
	if ranApp {
		ev.Applied = res.Applied
		ev.Intermediates = render(res.Intermediates)
	}
	if err != nil {
		ev.Error = err.Error()
	}
	result.AddEvent(ev)

	h.logger.Debug("step executed", "step", i, "kind", step.Kind(), "state", ev.State)

	for _, msg := range checkExpect(i, step.Expect, ev, err) {
		result.AddError(msg)
	}
}

// checkExpect compares a step's outcome with its expect clause.
func checkExpect(i int, exp *StepExpect, ev TraceEvent, err error) []string {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf("steps[%d]: ", i)+fmt.Sprintf(format, args...))
	}

	if exp == nil || exp.Error == "" {
		if err != nil {
			fail("unexpected error: %v", err)
		}
	} else {
		switch {
		case err == nil:
			fail("expected error containing %q, got none", exp.Error)
		case !strings.Contains(err.Error(), exp.Error):
			fail("expected error containing %q, got %q", exp.Error, err.Error())
		}
	}
	if exp == nil {
		return failures
	}

	if exp.Applied != nil && *exp.Applied != ev.Applied {
		fail("expected applied rule %d, got %d", *exp.Applied, ev.Applied)
	}
	if exp.State != nil && !sameTheorem(*exp.State, ev.State) {
		fail("expected state %q, got %q", *exp.State, ev.State)
	}
	if exp.Intermediates != nil {
		if len(exp.Intermediates) != len(ev.Intermediates) {
			fail("expected %d intermediate states, got %d %v",
				len(exp.Intermediates), len(ev.Intermediates), ev.Intermediates)
		} else {
			for j := range exp.Intermediates {
				if !sameTheorem(exp.Intermediates[j], ev.Intermediates[j]) {
					fail("intermediate %d: expected %q, got %q", j, exp.Intermediates[j], ev.Intermediates[j])
				}
			}
		}
	}
	return failures
}

// sameTheorem compares a scenario theorem with a rendered one.
func sameTheorem(want, got string) bool {
	w, err := miu.Parse(want)
	if err != nil {
		return false
	}
	g, err := miu.Parse(got)
	if err != nil {
		return false
	}
	return w.Equal(g)
}

func render(ts []miu.Theorem) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}
