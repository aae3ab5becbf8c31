// Package config loads session settings from a CUE file.
//
// A config file sets any of three top-level fields:
//
//	axiom:      "MI"            // starting theorem
//	shortcuts:  "asdfjkl"       // key alphabet, also bounds theorem growth
//	show_steps: true            // print intermediate states after each move
//
// The file is unified with a closed schema, so unknown fields and values of
// the wrong kind are rejected with their source position.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/miu/internal/miu"
	"github.com/roach88/miu/internal/session"
)

const schema = `
#Config: {
	axiom?:      string
	shortcuts?:  string & !=""
	show_steps?: bool
}
`

// Config holds the resolved settings.
type Config struct {
	Axiom     string `json:"axiom"`
	Shortcuts string `json:"shortcuts"`
	ShowSteps bool   `json:"show_steps"`
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{
		Axiom:     miu.Axiom().String(),
		Shortcuts: session.DefaultShortcuts,
	}
}

// Theorem parses the configured axiom.
func (c Config) Theorem() (miu.Theorem, error) {
	return miu.Parse(c.Axiom)
}

// LoadError reports an unreadable or invalid config file.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and validates the CUE file at path.
// Fields the file leaves out keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{Field: "file", Message: err.Error()}
	}
	return Parse(path, data)
}

// Parse validates CUE source. filename is used only in error positions.
func Parse(filename string, src []byte) (Config, error) {
	ctx := cuecontext.New()

	def := ctx.CompileString(schema).LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return Config{}, fmt.Errorf("config schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	if err := checkFields(v); err != nil {
		return Config{}, err
	}

	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var raw struct {
		Axiom     *string `json:"axiom"`
		Shortcuts *string `json:"shortcuts"`
		ShowSteps *bool   `json:"show_steps"`
	}
	if err := unified.Decode(&raw); err != nil {
		return Config{}, formatCUEError(err)
	}

	cfg := Default()
	if raw.Axiom != nil {
		cfg.Axiom = *raw.Axiom
	}
	if raw.Shortcuts != nil {
		cfg.Shortcuts = *raw.Shortcuts
	}
	if raw.ShowSteps != nil {
		cfg.ShowSteps = *raw.ShowSteps
	}

	if err := cfg.validate(unified); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var knownFields = map[string]bool{"axiom": true, "shortcuts": true, "show_steps": true}

// checkFields rejects top-level fields the schema does not declare.
func checkFields(v cue.Value) error {
	iter, err := v.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		label := iter.Selector().String()
		if !knownFields[label] {
			return &LoadError{Field: label, Message: "unknown field", Pos: iter.Value().Pos()}
		}
	}
	return nil
}

// validate checks what the schema cannot express: unique shortcut keys
// and an axiom miu.Parse accepts.
func (c Config) validate(v cue.Value) error {
	seen := make(map[rune]bool)
	for _, r := range c.Shortcuts {
		if seen[r] {
			return &LoadError{
				Field:   "shortcuts",
				Message: fmt.Sprintf("key %q listed twice", r),
				Pos:     v.LookupPath(cue.ParsePath("shortcuts")).Pos(),
			}
		}
		seen[r] = true
	}
	if _, err := c.Theorem(); err != nil {
		return &LoadError{
			Field:   "axiom",
			Message: err.Error(),
			Pos:     v.LookupPath(cue.ParsePath("axiom")).Pos(),
		}
	}
	return nil
}

// formatCUEError keeps the first CUE error with its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
