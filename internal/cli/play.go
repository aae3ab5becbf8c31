package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/miu/internal/miu"
	"github.com/roach88/miu/internal/session"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Start string
}

// PlayState is written after every move in JSON mode.
type PlayState struct {
	SessionID string           `json:"session_id"`
	Theorem   miu.Theorem      `json:"theorem"`
	Depth     int              `json:"depth"`
	Actions   []session.Action `json:"actions"`
	Last      *miu.Result      `json:"last,omitempty"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Rewrite a theorem interactively",
		Long: `Start from the axiom and rewrite it one rule at a time.

Each line read from stdin is one command:
  <key>    apply the action bound to that shortcut key
  undo     return to the previous theorem
  reset    start over from the axiom
  help     show the commands
  quit     leave

Examples:
  miu play
  miu play --start MIIII --config miu.cue`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Start, "start", "", "starting theorem (defaults to the configured axiom)")

	return cmd
}

func runPlay(opts *PlayOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	startText := opts.Config.Axiom
	if opts.Start != "" {
		startText = opts.Start
	}
	start, err := miu.Parse(startText)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidTheorem, err.Error(), nil)
	}

	sess, err := session.New(start, session.Options{Shortcuts: opts.Config.Shortcuts, Logger: opts.Logger})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	p := &player{opts: opts, f: f, sess: sess, start: start}
	if err := p.show(nil); err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		done, err := p.handle(line)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
	return scanner.Err()
}

// player runs the play loop over one session.
type player struct {
	opts  *PlayOptions
	f     *OutputFormatter
	sess  *session.Session
	start miu.Theorem
}

// handle executes one command line and reports whether the loop should end.
func (p *player) handle(line string) (bool, error) {
	switch line {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		if !p.f.JSON() {
			fmt.Fprintln(p.f.Writer, "commands: <key> | undo | reset | help | quit")
		}
		return false, nil
	case "undo":
		if _, err := p.sess.Undo(); err != nil {
			return false, p.f.Error(ErrCodeInvalidRule, err.Error(), nil)
		}
		return false, p.show(nil)
	case "reset":
		p.sess.Reset(p.start)
		return false, p.show(nil)
	}

	res, err := p.sess.Press(line)
	if errors.Is(err, session.ErrNoSuchShortcut) || errors.Is(err, session.ErrRuleDisabled) {
		return false, p.f.Error(ErrCodeInvalidRule, err.Error(), nil)
	}
	if err != nil {
		return false, err
	}
	return false, p.show(&res)
}

// show prints the current theorem and the keys that apply to it.
// last, when set, is the result that produced the current theorem.
func (p *player) show(last *miu.Result) error {
	actions := p.sess.Actions()
	if p.f.JSON() {
		return p.f.Success(PlayState{
			SessionID: p.sess.ID(),
			Theorem:   p.sess.Current(),
			Depth:     len(p.sess.History()),
			Actions:   actions,
			Last:      last,
		})
	}

	if last != nil && p.opts.Config.ShowSteps {
		for _, step := range last.Intermediates {
			fmt.Fprintf(p.f.Writer, "  M%s\n", step)
		}
	}
	current := p.sess.Current()
	fmt.Fprintf(p.f.Writer, "M%s\n", current)
	if len(current) >= p.sess.MaxLength() {
		p.f.VerboseLog("theorem is at the length limit of %d", p.sess.MaxLength())
	}
	writeActions(p.f, actions)
	return nil
}
