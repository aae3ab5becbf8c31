package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/miu/internal/miu"
	"github.com/roach88/miu/internal/testutil"
)

func newSession(t *testing.T, start string, shortcuts string) *Session {
	t.Helper()
	s, err := New(miu.MustParse(start), Options{
		Shortcuts: shortcuts,
		IDs:       testutil.NewFixedIDs("session-1"),
	})
	require.NoError(t, err)
	return s
}

func TestNewDefaults(t *testing.T) {
	s := newSession(t, "I", "")

	assert.Equal(t, "session-1", s.ID())
	assert.Equal(t, "I", s.Current().String())
	assert.Equal(t, len(DefaultShortcuts), s.MaxLength())
	assert.Empty(t, s.History())
}

func TestNewGeneratesUUID(t *testing.T) {
	s, err := New(miu.Axiom(), Options{})
	require.NoError(t, err)
	assert.Len(t, s.ID(), 36)
}

func TestNewRejectsDuplicateShortcuts(t *testing.T) {
	_, err := New(miu.Axiom(), Options{Shortcuts: "abca"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listed twice")
}

func TestActionsBindKeysPositionally(t *testing.T) {
	s := newSession(t, "IIII", "")

	assert.Equal(t, []Action{
		{Key: "a", Rule: miu.Rule{Number: miu.RuleAppend, Start: 4}, Enabled: true},
		{Key: "b", Rule: miu.Rule{Number: miu.RuleDuplicate, Start: 4}, Enabled: true},
		{Key: "c", Rule: miu.Rule{Number: miu.RuleCollapse, Start: 0, Row: 0}, Enabled: true},
		{Key: "d", Rule: miu.Rule{Number: miu.RuleCollapse, Start: 1, Row: 1}, Enabled: true},
	}, s.Actions())
}

func TestDefaultShortcuts(t *testing.T) {
	assert.Len(t, DefaultShortcuts, 72)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxyz", DefaultShortcuts[:26])
	assert.Equal(t, "()", DefaultShortcuts[70:])
}

func TestActionsLengthGuard(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  []string
	}{
		{"both end rules fit", "I", []string{"a: rule 1", "b: rule 2"}},
		{"duplicate would overflow", "II", []string{"a: rule 1", "b: rule 2 (disabled)"}},
		{"append would overflow", "III", []string{"a: rule 1 (disabled)", "b: rule 2 (disabled)", "c: rule 3 at 0"}},
		{"rule 1 not applicable", "U", []string{"a: rule 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.start, "abc")
			var got []string
			for _, a := range s.Actions() {
				got = append(got, a.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisabledRulesKeepSpanKeys(t *testing.T) {
	s := newSession(t, "IIII", "abcd")

	actions := s.Actions()
	require.Len(t, actions, 4)
	assert.False(t, actions[0].Enabled)
	assert.False(t, actions[1].Enabled)
	assert.Equal(t, "c", actions[2].Key)
	assert.Equal(t, miu.Rule{Number: miu.RuleCollapse, Start: 0}, actions[2].Rule)
	assert.Equal(t, "d", actions[3].Key)

	_, err := s.Press("a")
	assert.ErrorIs(t, err, ErrRuleDisabled)
	_, err = s.Press("b")
	assert.ErrorIs(t, err, ErrRuleDisabled)
	assert.Equal(t, "IIII", s.Current().String())
	assert.Empty(t, s.History())

	res, err := s.Press("c")
	require.NoError(t, err)
	assert.Equal(t, miu.RuleCollapse, res.Applied)
	assert.Equal(t, "UI", s.Current().String())
}

func TestApplyIgnoresLengthGuard(t *testing.T) {
	s := newSession(t, "II", "ab")

	res := s.Apply(miu.Rule2(s.Current()))
	assert.Equal(t, miu.RuleDuplicate, res.Applied)
	assert.Equal(t, "IIII", s.Current().String())
}

func TestActionsBeyondAlphabetHaveNoKey(t *testing.T) {
	s := newSession(t, "IIIII", "ab")

	actions := s.Actions()
	require.Len(t, actions, 5)
	assert.Equal(t, "a", actions[0].Key)
	assert.Equal(t, "b", actions[1].Key)
	for _, a := range actions[2:] {
		assert.Equal(t, "", a.Key)
		assert.True(t, a.Enabled)
	}
}

func TestPressAppliesBoundAction(t *testing.T) {
	s := newSession(t, "I", "")

	res, err := s.Press("b") // rule 2
	require.NoError(t, err)
	assert.Equal(t, miu.RuleDuplicate, res.Applied)
	assert.Equal(t, "II", s.Current().String())

	res, err = s.Press("a") // rule 1
	require.NoError(t, err)
	assert.Equal(t, miu.RuleAppend, res.Applied)
	assert.Equal(t, "IIU", s.Current().String())
	assert.Len(t, s.History(), 2)
}

func TestPressFoldsCase(t *testing.T) {
	s := newSession(t, "I", "")

	res, err := s.Press("B")
	require.NoError(t, err)
	assert.Equal(t, miu.RuleDuplicate, res.Applied)
	assert.Equal(t, "II", s.Current().String())
}

func TestPressExactMatchBeforeFolding(t *testing.T) {
	s := newSession(t, "I", "aA")

	// "A" is bound to rule 2 itself; folding would pick rule 1.
	res, err := s.Press("A")
	require.NoError(t, err)
	assert.Equal(t, miu.RuleDuplicate, res.Applied)
	assert.Equal(t, "II", s.Current().String())
}

func TestPressUnknownKey(t *testing.T) {
	s := newSession(t, "U", "")

	for _, key := range []string{"", "z", "a!"} {
		_, err := s.Press(key)
		assert.True(t, errors.Is(err, ErrNoSuchShortcut), key)
	}
	assert.Equal(t, "U", s.Current().String())
	assert.Empty(t, s.History())
}

func TestUndo(t *testing.T) {
	s := newSession(t, "I", "")

	_, err := s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)

	s.Apply(miu.Rule2(s.Current()))
	s.Apply(miu.Rule2(s.Current()))
	require.Equal(t, "IIII", s.Current().String())
	assert.Equal(t, []string{"I", "II"}, render(s.History()))

	prev, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "II", prev.String())
	assert.Equal(t, "II", s.Current().String())

	prev, err = s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "I", prev.String())

	_, err = s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestApplyNoopKeepsHistory(t *testing.T) {
	s := newSession(t, "IU", "")

	res := s.Apply(miu.Rule{Number: 7})
	assert.Equal(t, 0, res.Applied)
	assert.Equal(t, "IU", s.Current().String())
	assert.Empty(t, s.History())
}

func TestReset(t *testing.T) {
	s := newSession(t, "I", "")
	s.Apply(miu.Rule1(s.Current()))

	s.Reset(miu.MustParse("UU"))
	assert.Equal(t, "UU", s.Current().String())
	assert.Empty(t, s.History())
}

func TestCurrentIsACopy(t *testing.T) {
	s := newSession(t, "I", "")
	c := s.Current()
	c[0] = miu.Empty
	assert.Equal(t, "I", s.Current().String())

	s.Apply(miu.Rule1(s.Current()))
	h := s.History()
	h[0][0] = miu.Empty
	assert.Equal(t, "I", s.History()[0].String())
}

func render(ts []miu.Theorem) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "d: rule 3 at 0", Action{Key: "d", Rule: miu.Rule{Number: 3}, Enabled: true}.String())
	assert.Equal(t, "-: rule 4 at 2", Action{Rule: miu.Rule{Number: 4, Start: 2}, Enabled: true}.String())
	assert.Equal(t, "a: rule 1", Action{Key: "a", Rule: miu.Rule{Number: 1, Start: 5}, Enabled: true}.String())
	assert.Equal(t, "b: rule 2 (disabled)", Action{Key: "b", Rule: miu.Rule{Number: 2, Start: 5}}.String())
}
