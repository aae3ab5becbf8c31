package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/miu/internal/miu"
)

// Scenario is a scripted session with expectations.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Start is the initial theorem, in any form miu.Parse accepts.
	Start string `yaml:"start"`

	// Shortcuts overrides the key alphabet.
	Shortcuts string `yaml:"shortcuts,omitempty"`

	// SessionID pins the session identifier recorded in the trace.
	SessionID string `yaml:"session_id,omitempty"`

	// Steps are executed in order. Each sets exactly one of Press, Apply, Undo.
	Steps []Step `yaml:"steps"`

	// Assertions are checked against the final session.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one move in a scenario.
type Step struct {
	Press  string      `yaml:"press,omitempty"`
	Apply  *ApplyStep  `yaml:"apply,omitempty"`
	Undo   bool        `yaml:"undo,omitempty"`
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// ApplyStep names a rule instance directly, bypassing shortcut keys and
// the length guard.
type ApplyStep struct {
	Rule int `yaml:"rule"`
	At   int `yaml:"at"`
}

// StepExpect lists what a step must produce. Unset fields are not checked.
type StepExpect struct {
	Applied       *int     `yaml:"applied,omitempty"`
	State         *string  `yaml:"state,omitempty"`
	Intermediates []string `yaml:"intermediates,omitempty"`
	Error         string   `yaml:"error,omitempty"`
}

// Kind returns "press", "apply" or "undo".
func (s Step) Kind() string {
	switch {
	case s.Press != "":
		return StepPress
	case s.Apply != nil:
		return StepApply
	case s.Undo:
		return StepUndo
	default:
		return ""
	}
}

// Step kinds as they appear in traces.
const (
	StepStart = "start"
	StepPress = "press"
	StepApply = "apply"
	StepUndo  = "undo"
)

// Assertion checks the session after all steps ran.
type Assertion struct {
	// Type is one of final_state, history_depth, actions, rules.
	Type string `yaml:"type"`

	// State is the expected current theorem (final_state).
	State string `yaml:"state,omitempty"`

	// Count is the expected undo depth (history_depth).
	Count int `yaml:"count,omitempty"`

	// Actions are the expected rendered actions, in order (actions).
	Actions []string `yaml:"actions,omitempty"`

	// Rules are the expected rule numbers of the available actions, in order (rules).
	Rules []int `yaml:"rules,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState   = "final_state"
	AssertHistoryDepth = "history_depth"
	AssertActions      = "actions"
	AssertRules        = "rules"
)

// LoadScenario reads and validates a scenario file.
// Unknown fields are rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := miu.Parse(s.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		set := 0
		if step.Press != "" {
			set++
		}
		if step.Apply != nil {
			set++
		}
		if step.Undo {
			set++
		}
		if set != 1 {
			return fmt.Errorf("steps[%d]: exactly one of press, apply, undo is required", i)
		}
		if step.Expect == nil {
			continue
		}
		if step.Expect.State != nil {
			if _, err := miu.Parse(*step.Expect.State); err != nil {
				return fmt.Errorf("steps[%d].expect.state: %w", i, err)
			}
		}
		for j, st := range step.Expect.Intermediates {
			if _, err := miu.Parse(st); err != nil {
				return fmt.Errorf("steps[%d].expect.intermediates[%d]: %w", i, j, err)
			}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertFinalState:
		if _, err := miu.Parse(a.State); err != nil {
			return fmt.Errorf("assertions[%d]: state: %w", index, err)
		}
	case AssertHistoryDepth:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be >= 0 for history_depth", index)
		}
	case AssertActions, AssertRules:
		// An empty list asserts that nothing is available.
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
