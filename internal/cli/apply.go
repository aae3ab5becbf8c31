package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/miu/internal/miu"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	At    int  // span start; -1 selects the first instance
	Steps bool // print intermediate states
}

// ApplyOutput is the result of the apply command.
type ApplyOutput struct {
	Theorem miu.Theorem `json:"theorem"`
	Rule    miu.Rule    `json:"rule"`
	Result  miu.Result  `json:"result"`
	StateID string      `json:"state_id"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <theorem> <rule>",
		Short: "Apply one rule to a theorem",
		Long: `Apply rule 1, 2, 3 or 4 to a theorem and print the new theorem.

Rules 3 and 4 act on a window; --at picks its start index, otherwise the
first matching window is used. The rule must currently apply.

Examples:
  miu apply MI 2
  miu apply MIIII 3 --at 1 --steps`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.At, "at", -1, "start index for rules 3 and 4")
	cmd.Flags().BoolVar(&opts.Steps, "steps", false, "print intermediate states")

	return cmd
}

func runApply(opts *ApplyOptions, input, ruleArg string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	th, err := miu.Parse(input)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidTheorem, err.Error(), nil)
	}

	number, err := strconv.Atoi(ruleArg)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidRule, fmt.Sprintf("rule must be a number, got %q", ruleArg), nil)
	}

	rule, err := selectRule(th, number, opts.At)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInvalidRule, err.Error(), nil)
	}

	res := miu.Apply(th, rule)
	opts.Logger.Info("rule applied", "rule", rule.Number, "start", rule.Start, "theorem", res.State.String())

	out := ApplyOutput{
		Theorem: th,
		Rule:    rule,
		Result:  res,
		StateID: miu.StateID(res.State),
	}
	if f.JSON() {
		return f.Success(out)
	}

	if opts.Steps || opts.Config.ShowSteps {
		fmt.Fprintf(f.Writer, "  M%s\n", th)
		for _, step := range res.Intermediates {
			fmt.Fprintf(f.Writer, "  M%s\n", step)
		}
	}
	fmt.Fprintf(f.Writer, "M%s\n", res.State)
	return nil
}

// selectRule finds the instance of rule number that applies to th.
// at < 0 picks the first span instance.
func selectRule(th miu.Theorem, number, at int) (miu.Rule, error) {
	switch number {
	case miu.RuleAppend:
		if !miu.IsRule1Applicable(th) {
			return miu.Rule{}, fmt.Errorf("rule 1 needs a theorem ending in I, got M%s", th)
		}
		return miu.Rule1(th), nil
	case miu.RuleDuplicate:
		return miu.Rule2(th), nil
	case miu.RuleCollapse, miu.RuleDrop:
		for _, r := range miu.FindAllSpanRuleInstances(th) {
			if r.Number == number && (at < 0 || r.Start == at) {
				return r, nil
			}
		}
		if at < 0 {
			return miu.Rule{}, fmt.Errorf("rule %d does not apply to M%s", number, th)
		}
		return miu.Rule{}, fmt.Errorf("rule %d does not apply to M%s at %d", number, th, at)
	default:
		return miu.Rule{}, fmt.Errorf("unknown rule %d: must be 1, 2, 3 or 4", number)
	}
}
