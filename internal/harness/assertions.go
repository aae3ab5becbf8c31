package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/miu/internal/session"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	History  []string // undo stack at the time of the check, oldest first
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.History) > 0 {
		fmt.Fprintf(&buf, "\nHistory:\n")
		for i, h := range e.History {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, h)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the session and
// returns the failure messages.
func EvaluateAssertions(s *session.Session, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluate(s, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluate(s *session.Session, a Assertion) error {
	switch a.Type {
	case AssertFinalState:
		return assertFinalState(s, a)
	case AssertHistoryDepth:
		return assertHistoryDepth(s, a)
	case AssertActions:
		return assertActions(s, a)
	case AssertRules:
		return assertRules(s, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertFinalState(s *session.Session, a Assertion) error {
	got := s.Current().String()
	if sameTheorem(a.State, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertFinalState,
		Expected: a.State,
		Actual:   got,
		History:  render(s.History()),
	}
}

func assertHistoryDepth(s *session.Session, a Assertion) error {
	history := render(s.History())
	if len(history) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertHistoryDepth,
		Expected: fmt.Sprintf("%d", a.Count),
		Actual:   fmt.Sprintf("%d", len(history)),
		History:  history,
	}
}

func assertActions(s *session.Session, a Assertion) error {
	actions := s.Actions()
	got := make([]string, len(actions))
	for i, act := range actions {
		got[i] = act.String()
	}
	want := a.Actions
	if want == nil {
		want = []string{}
	}
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertActions,
		Expected: fmt.Sprintf("%q", want),
		Actual:   fmt.Sprintf("%q", got),
		History:  render(s.History()),
	}
}

func assertRules(s *session.Session, a Assertion) error {
	got := []int{}
	for _, act := range s.Actions() {
		got = append(got, act.Rule.Number)
	}
	want := a.Rules
	if want == nil {
		want = []int{}
	}
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertRules,
		Expected: fmt.Sprintf("%v", want),
		Actual:   fmt.Sprintf("%v", got),
		History:  render(s.History()),
	}
}
