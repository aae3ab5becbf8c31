package miu

// Result is the outcome of applying one Rule.
//
// Intermediates is the step-by-step decomposition used to animate the
// transition. It never includes State itself and is empty for rules that
// happen in one step.
type Result struct {
	Applied       int       `json:"applied"`
	State         Theorem   `json:"state"`
	Intermediates []Theorem `json:"intermediates"`
}

// Apply rewrites t with r.
//
// Apply does not check that r still matches t. Span starts outside the
// theorem are clamped, so a stale Rule gives a well-defined result. An
// unknown rule number is a no-op: Applied is 0 and State is a copy of t.
func Apply(t Theorem, r Rule) Result {
	switch r.Number {
	case RuleAppend:
		return Result{
			Applied:       RuleAppend,
			State:         concat(t, Theorem{Empty}),
			Intermediates: []Theorem{},
		}

	case RuleDuplicate:
		steps := make([]Theorem, 0, len(t))
		for i := 0; i < len(t); i++ {
			steps = append(steps, concat(t, t[:i]))
		}
		return Result{
			Applied:       RuleDuplicate,
			State:         concat(t, t),
			Intermediates: steps,
		}

	case RuleCollapse:
		start := clamp(r.Start, len(t))
		steps := make([]Theorem, 0, 3)
		for i := 1; i <= 3; i++ {
			steps = append(steps, remove(t, start, start+i))
		}
		return Result{
			Applied:       RuleCollapse,
			State:         replace(t, start, start+3, Theorem{Empty}),
			Intermediates: steps,
		}

	case RuleDrop:
		start := clamp(r.Start, len(t))
		return Result{
			Applied:       RuleDrop,
			State:         remove(t, start, start+2),
			Intermediates: []Theorem{remove(t, start, start+1)},
		}

	default:
		return Result{
			Applied:       0,
			State:         t.Clone(),
			Intermediates: []Theorem{},
		}
	}
}

// remove returns t without the symbols in [from, to), clamped to t's bounds.
func remove(t Theorem, from, to int) Theorem {
	return replace(t, from, to, nil)
}

// replace returns t with [from, to) swapped for with, clamped to t's bounds.
func replace(t Theorem, from, to int, with Theorem) Theorem {
	from = clamp(from, len(t))
	to = clamp(to, len(t))
	if to < from {
		to = from
	}
	out := make(Theorem, 0, len(t)-(to-from)+len(with))
	out = append(out, t[:from]...)
	out = append(out, with...)
	return append(out, t[to:]...)
}

func concat(a, b Theorem) Theorem {
	out := make(Theorem, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
