package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/miu/internal/miu"
	"github.com/roach88/miu/internal/session"
)

// RulesOutput is the result of the rules command.
type RulesOutput struct {
	Theorem miu.Theorem      `json:"theorem"`
	StateID string           `json:"state_id"`
	Actions []session.Action `json:"actions"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules <theorem>",
		Short: "List the rule instances applicable to a theorem",
		Long: `List every rule instance currently applicable to a theorem, in the order
shortcut keys are assigned: rule 1, rule 2, then rules 3 and 4 by position.

Rules 1 and 2 are marked disabled once the result would outgrow the key
alphabet; they keep their keys so the other keys do not shift.

Examples:
  miu rules MIIII
  miu rules IUU --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(rootOpts, args[0], cmd)
		},
	}
}

func runRules(opts *RootOptions, input string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	th, err := miu.Parse(input)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidTheorem, err.Error(), nil)
	}

	sess, err := session.New(th, session.Options{Shortcuts: opts.Config.Shortcuts, Logger: opts.Logger})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	out := RulesOutput{
		Theorem: th,
		StateID: miu.StateID(th),
		Actions: sess.Actions(),
	}
	if f.JSON() {
		return f.Success(out)
	}

	fmt.Fprintf(f.Writer, "M%s (%d symbols)\n", th, len(th))
	f.VerboseLog("state id %s", out.StateID)
	writeActions(f, out.Actions)
	return nil
}

// writeActions prints one action per line: key, rule, and the matched
// window with its display row for span rules. Rules blocked by the length
// limit are marked disabled.
func writeActions(f *OutputFormatter, actions []session.Action) {
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	for _, a := range actions {
		key := a.Key
		if key == "" {
			key = "-"
		}
		switch {
		case a.Rule.IsSpan():
			fmt.Fprintf(tw, "  %s\trule %d\t[%d,%d)\trow %d\n", key, a.Rule.Number, a.Rule.Start, a.Rule.End(), a.Rule.Row)
		case a.Enabled:
			fmt.Fprintf(tw, "  %s\trule %d\t\t\n", key, a.Rule.Number)
		default:
			fmt.Fprintf(tw, "  %s\trule %d\tdisabled\t\n", key, a.Rule.Number)
		}
	}
	tw.Flush()
}
