package cmd

import (
	"github.com/spf13/cobra"
)

func newREPLCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, g)
		},
	}
}

func runREPL(cmd *cobra.Command, g *globals) error {
	sh, err := session(cmd, g)
	if err != nil {
		return err
	}
	return sh.Interactive()
}
