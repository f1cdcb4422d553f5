package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/intcalc/internal/config"
	"github.com/zephyrtronium/intcalc/internal/logging"
	"github.com/zephyrtronium/intcalc/internal/shell"
)

type globals struct {
	cfgFile string
	verbose bool
}

// NewRootCmd creates the intcalc command tree.
func NewRootCmd() *cobra.Command {
	var g globals
	root := &cobra.Command{
		Use:   "intcalc",
		Short: "Integer calculator with variables",
		Long: `intcalc evaluates integer arithmetic with variables.

Statements are separated by semicolons. A statement is an expression such as
"3 + 22 * 11" or an assignment such as "x = 2 ** 10". Values are 128-bit
signed integers. Operators are + - * / ** and unary minus; PI is 3.

Without a subcommand, intcalc starts an interactive session.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, &g)
		},
	}
	root.PersistentFlags().StringVar(&g.cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	root.AddCommand(newREPLCmd(&g), newEvalCmd(&g), newVersionCmd())
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// session loads the configuration and creates a calculator session writing to
// the command's outputs.
func session(cmd *cobra.Command, g *globals) (*shell.Shell, error) {
	cfg, err := config.Resolve(g.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr(), g.verbose)
	if err != nil {
		return nil, fmt.Errorf("configuring logs: %w", err)
	}
	return shell.New(cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
