package harness

// TraceEvent records one session transition.
type TraceEvent struct {
	Seq           int64    `json:"seq"`
	Step          string   `json:"step"` // start, press, apply or undo
	Key           string   `json:"key,omitempty"`
	Rule          int      `json:"rule,omitempty"`
	Start         int      `json:"start,omitempty"`
	Applied       int      `json:"applied,omitempty"`
	State         string   `json:"state"`
	StateID       string   `json:"state_id"`
	Intermediates []string `json:"intermediates,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// Result is the outcome of running a scenario.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// SessionID is the identifier the session ran under.
	SessionID string `json:"session_id"`

	// Trace holds the start event followed by one event per step.
	Trace []TraceEvent `json:"trace"`

	// Errors lists failed expectations and assertions.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result with an empty trace.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEvent appends to the trace.
func (r *Result) AddEvent(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
