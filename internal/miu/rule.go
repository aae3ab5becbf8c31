package miu

import (
	"fmt"
	"sort"
)

// Rule numbers of the four productions.
const (
	RuleAppend    = 1 // xI -> xIU
	RuleDuplicate = 2 // x -> xx
	RuleCollapse  = 3 // III -> U
	RuleDrop      = 4 // UU -> (nothing)
)

// rowCount is the number of staggered rows used for adjacent span rules.
const rowCount = 3

// Rule is one applicable instance of a production over a specific theorem.
//
// Start is the index where the match begins for span rules (3 and 4). For
// rules 1 and 2 it is conventionally the theorem's length and Apply ignores it.
//
// Row is advisory layout data for renderers that draw overlapping matches;
// it never affects application.
type Rule struct {
	Number int `json:"rule"`
	Start  int `json:"start"`
	Row    int `json:"row"`
}

// End returns the exclusive end index of the match.
func (r Rule) End() int {
	switch r.Number {
	case RuleCollapse:
		return r.Start + 3
	case RuleDrop:
		return r.Start + 2
	default:
		return r.Start
	}
}

// IsSpan reports whether the rule matches a window inside the theorem.
func (r Rule) IsSpan() bool {
	return r.Number == RuleCollapse || r.Number == RuleDrop
}

func (r Rule) String() string {
	if r.IsSpan() {
		return fmt.Sprintf("rule %d at %d", r.Number, r.Start)
	}
	return fmt.Sprintf("rule %d", r.Number)
}

// IsRule1Applicable reports whether the theorem ends in a Filled symbol.
func IsRule1Applicable(t Theorem) bool {
	return len(t) > 0 && t[len(t)-1] == Filled
}

// Rule1 returns the rule 1 instance anchored at the end of t.
// Callers check IsRule1Applicable first.
func Rule1(t Theorem) Rule {
	return Rule{Number: RuleAppend, Start: len(t)}
}

// Rule2 returns the rule 2 instance anchored at the end of t.
// Rule 2 is always applicable, including for the empty theorem.
func Rule2(t Theorem) Rule {
	return Rule{Number: RuleDuplicate, Start: len(t)}
}

// FindRule3Instances returns every window of three consecutive Filled symbols.
// Overlapping windows are each reported.
func FindRule3Instances(t Theorem) []Rule {
	rules := []Rule{}
	for i := 0; i+2 < len(t); i++ {
		if t[i] == Filled && t[i+1] == Filled && t[i+2] == Filled {
			rules = append(rules, Rule{Number: RuleCollapse, Start: i})
		}
	}
	return rules
}

// FindRule4Instances returns every window of two consecutive Empty symbols.
// Overlapping windows are each reported.
func FindRule4Instances(t Theorem) []Rule {
	rules := []Rule{}
	for i := 0; i+1 < len(t); i++ {
		if t[i] == Empty && t[i+1] == Empty {
			rules = append(rules, Rule{Number: RuleDrop, Start: i})
		}
	}
	return rules
}

// FindAllSpanRuleInstances merges rule 3 and rule 4 instances, sorted by
// start index, and assigns display rows.
//
// The first instance gets row 0. Each following instance whose start is
// exactly one past the previous start takes the next row modulo 3; any
// other instance resets to row 0.
func FindAllSpanRuleInstances(t Theorem) []Rule {
	rules := append(FindRule3Instances(t), FindRule4Instances(t)...)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Start < rules[j].Start
	})
	for i := range rules {
		if i > 0 && rules[i].Start == rules[i-1].Start+1 {
			rules[i].Row = (rules[i-1].Row + 1) % rowCount
		} else {
			rules[i].Row = 0
		}
	}
	return rules
}
