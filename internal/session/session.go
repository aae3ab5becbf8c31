// Package session owns the mutable state that sits on top of the stateless
// rewrite engine: the current theorem, the undo history and the mapping of
// shortcut keys to the rule instances that are currently available.
//
// A Session is not safe for concurrent use. The caller serializes moves.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/miu/internal/miu"
)

// DefaultShortcuts is the key alphabet used when none is configured.
// Its length also bounds how long a theorem may grow through rules 1 and 2.
const DefaultShortcuts = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()"

var (
	// ErrNothingToUndo is returned by Undo on an empty history.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNoSuchShortcut is returned by Press for a key bound to no action.
	ErrNoSuchShortcut = errors.New("no action bound to shortcut")

	// ErrRuleDisabled is returned by Press for an action the length guard disables.
	ErrRuleDisabled = errors.New("rule disabled by length limit")
)

// Action is a rule instance available from the current theorem, with the
// key that triggers it. Key is empty once the alphabet is exhausted.
//
// Rules 1 and 2 stay listed when the length guard trips, with Enabled
// false, so the keys of the span rules after them do not move.
type Action struct {
	Key     string   `json:"key,omitempty"`
	Rule    miu.Rule `json:"rule"`
	Enabled bool     `json:"enabled"`
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	Shortcuts string
	IDs       IDGenerator
	Logger    *slog.Logger
}

// Session tracks the current theorem and its undo history.
type Session struct {
	id        string
	current   miu.Theorem
	history   []miu.Theorem
	shortcuts []rune
	logger    *slog.Logger
}

// New starts a session at start.
// Returns an error if the shortcut alphabet repeats a key.
func New(start miu.Theorem, opts Options) (*Session, error) {
	alphabet := opts.Shortcuts
	if alphabet == "" {
		alphabet = DefaultShortcuts
	}
	keys := []rune(alphabet)
	seen := make(map[rune]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			return nil, fmt.Errorf("shortcut %q listed twice", k)
		}
		seen[k] = true
	}

	ids := opts.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Session{
		id:        ids.Generate(),
		current:   start.Clone(),
		shortcuts: keys,
	}
	s.logger = logger.With("session", s.id)
	s.logger.Info("session started", "theorem", s.current.String())
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Current returns a copy of the current theorem.
func (s *Session) Current() miu.Theorem {
	return s.current.Clone()
}

// MaxLength is the longest theorem rules 1 and 2 may produce: one symbol
// per shortcut key. Rules 3 and 4 only shrink the theorem and are never
// limited.
func (s *Session) MaxLength() int {
	return len(s.shortcuts)
}

// Actions lists the rule instances available from the current theorem in
// enumeration order (rule 1 when it applies, rule 2, then span rules by
// start index) and binds shortcut keys to them positionally.
//
// Rule 1 is disabled when it would grow the theorem past MaxLength, rule 2
// when doubling would. Span rules only shrink the theorem and are always
// enabled.
func (s *Session) Actions() []Action {
	var actions []Action
	n := len(s.current)
	if miu.IsRule1Applicable(s.current) {
		actions = append(actions, Action{Rule: miu.Rule1(s.current), Enabled: n+1 <= s.MaxLength()})
	}
	actions = append(actions, Action{Rule: miu.Rule2(s.current), Enabled: 2*n <= s.MaxLength()})
	for _, r := range miu.FindAllSpanRuleInstances(s.current) {
		actions = append(actions, Action{Rule: r, Enabled: true})
	}

	for i := range actions {
		if i < len(s.shortcuts) {
			actions[i].Key = string(s.shortcuts[i])
		}
	}
	return actions
}

// Press applies the action currently bound to key.
//
// A key bound to no action is retried lower-cased, so Shift does not
// matter for the letters that are bound. Upper-case keys that are bound
// themselves still match exactly.
func (s *Session) Press(key string) (miu.Result, error) {
	if key == "" {
		return miu.Result{}, ErrNoSuchShortcut
	}
	actions := s.Actions()
	a, ok := lookup(actions, key)
	if !ok {
		a, ok = lookup(actions, strings.ToLower(key))
	}
	if !ok {
		return miu.Result{}, fmt.Errorf("%w: %q", ErrNoSuchShortcut, key)
	}
	if !a.Enabled {
		return miu.Result{}, fmt.Errorf("%w: %s would exceed %d symbols", ErrRuleDisabled, a.Rule, s.MaxLength())
	}
	return s.Apply(a.Rule), nil
}

func lookup(actions []Action, key string) (Action, bool) {
	for _, a := range actions {
		if a.Key == key {
			return a, true
		}
	}
	return Action{}, false
}

// Apply rewrites the current theorem with r and records the previous
// theorem for Undo. It does not consult the length guard. A no-op result (unknown rule number) leaves the history
// untouched.
func (s *Session) Apply(r miu.Rule) miu.Result {
	res := miu.Apply(s.current, r)
	if res.Applied == 0 {
		s.logger.Warn("rule not applied", "rule", r.Number, "start", r.Start)
		return res
	}

	s.history = append(s.history, s.current)
	s.current = res.State.Clone()

	s.logger.Info("rule applied",
		"rule", res.Applied,
		"start", r.Start,
		"theorem", s.current.String(),
		"steps", len(res.Intermediates),
		"depth", len(s.history),
	)
	return res
}

// Undo restores the theorem preceding the last applied rule and returns it.
func (s *Session) Undo() (miu.Theorem, error) {
	if len(s.history) == 0 {
		return nil, ErrNothingToUndo
	}
	last := len(s.history) - 1
	s.current = s.history[last]
	s.history = s.history[:last]

	s.logger.Info("undo", "theorem", s.current.String(), "depth", len(s.history))
	return s.current.Clone(), nil
}

// Reset replaces the current theorem and clears the history.
func (s *Session) Reset(t miu.Theorem) {
	s.current = t.Clone()
	s.history = nil
	s.logger.Info("session reset", "theorem", s.current.String())
}

// History returns the undo stack, oldest first.
func (s *Session) History() []miu.Theorem {
	out := make([]miu.Theorem, len(s.history))
	for i, t := range s.history {
		out[i] = t.Clone()
	}
	return out
}

// String renders the action as "key: rule N at S", with "-" for an unbound
// key and a "(disabled)" suffix when the length guard blocks it.
func (a Action) String() string {
	key := a.Key
	if key == "" {
		key = "-"
	}
	out := key + ": " + a.Rule.String()
	if !a.Enabled {
		out += " (disabled)"
	}
	return out
}
