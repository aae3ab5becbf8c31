package miu

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Symbol is one mark of the MIU alphabet.
type Symbol uint8

const (
	// Filled is rendered as "I".
	Filled Symbol = iota + 1
	// Empty is rendered as "U".
	Empty
)

// String renders a symbol as its letter.
func (s Symbol) String() string {
	switch s {
	case Filled:
		return "I"
	case Empty:
		return "U"
	default:
		return "?"
	}
}

// Theorem is an ordered sequence of symbols.
type Theorem []Symbol

// Axiom returns the starting theorem: a single Filled symbol.
func Axiom() Theorem {
	return Theorem{Filled}
}

// String renders the theorem as a run of I and U letters.
func (t Theorem) String() string {
	var b strings.Builder
	b.Grow(len(t))
	for _, s := range t {
		b.WriteString(s.String())
	}
	return b.String()
}

// Equal reports whether two theorems hold the same symbols.
func (t Theorem) Equal(other Theorem) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no storage with t.
// The result is never nil, so an empty theorem clones to an empty slice.
func (t Theorem) Clone() Theorem {
	out := make(Theorem, len(t))
	copy(out, t)
	return out
}

// ParseError reports a rune that is not part of the alphabet.
type ParseError struct {
	Input string
	Rune  rune
	Pos   int // rune offset in the normalized input
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid symbol %q at position %d in %q", e.Rune, e.Pos, e.Input)
}

// Parse converts text into a Theorem.
//
// Input is NFKC-normalized first, so full-width letters are accepted.
// I and U (either case) map to Filled and Empty, as do the marks ● and ○.
// A single leading M is dropped and whitespace is ignored.
func Parse(s string) (Theorem, error) {
	normalized := norm.NFKC.String(s)
	out := Theorem{}
	seenSymbol := false
	for pos, r := range []rune(normalized) {
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case 'I', 'i', '\u25CF':
			out = append(out, Filled)
		case 'U', 'u', '\u25CB':
			out = append(out, Empty)
		case 'M', 'm':
			if seenSymbol {
				return nil, &ParseError{Input: s, Rune: r, Pos: pos}
			}
		default:
			return nil, &ParseError{Input: s, Rune: r, Pos: pos}
		}
		seenSymbol = true
	}
	return out, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Theorem {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// MarshalJSON encodes the theorem as its letter string.
func (t Theorem) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts any string Parse accepts.
func (t *Theorem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
