package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/miu/internal/config"
)

// RootOptions holds global flags and the state they resolve to.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	LogFile    string

	// Resolved in PersistentPreRunE.
	Config   config.Config
	Logger   *slog.Logger
	closeLog func() error
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the miu CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "miu",
		Short: "Explore the MIU string-rewriting system",
		Long: `Explore the MIU formal system: one axiom, two symbols and four rules.

  1. xI  -> xIU    2. x -> xx    3. III -> U    4. UU -> (deleted)

Theorems are written with I and U; a leading M is optional.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a CUE config file")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "also write JSON logs to this file")

	cmd.AddCommand(NewRulesCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve validates global flags, loads the config and builds the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, o.Format) {
		f := o.formatter(cmd)
		f.Format = "text"
		return f.Fail(ExitCommandError, ErrCodeGeneric,
			fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats), nil)
	}

	o.Config = config.Default()
	if o.ConfigPath != "" {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return o.formatter(cmd).Fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
		}
		o.Config = cfg
	}

	logger, closeFn, err := newLogger(cmd.ErrOrStderr(), o.Verbose, o.LogFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "configuring logging", err)
	}
	o.Logger = logger
	o.closeLog = closeFn

	o.Logger.Debug("configuration resolved",
		"config", o.ConfigPath,
		"axiom", o.Config.Axiom,
		"shortcuts", len([]rune(o.Config.Shortcuts)),
	)
	return nil
}

// formatter returns an OutputFormatter bound to the command's writers.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
