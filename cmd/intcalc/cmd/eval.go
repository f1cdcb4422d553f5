package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/intcalc"
	"github.com/zephyrtronium/intcalc/internal/shell"
)

type evalFlags struct {
	in    string
	given []string
	echo  bool
}

func newEvalCmd(g *globals) *cobra.Command {
	var f evalFlags
	cmd := &cobra.Command{
		Use:   "eval [program ...]",
		Short: "Evaluate programs and print their results",
		Long: `Evaluate each argument as a program in one shared session, printing one
line of results per program. With no arguments, or with --in, the program is
read from a file or standard input.`,
		Example: `  intcalc eval '3 + 22 * 11 + 65'
  intcalc eval --given r=10 'PI * r ** 2'
  echo 'a = 3; b = 5; a + b' | intcalc eval`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, g, &f, args)
		},
	}
	cmd.Flags().StringVar(&f.in, "in", "", "input file, - for stdin (default stdin if no args given)")
	cmd.Flags().StringArrayVar(&f.given, "given", nil, "name=value variable definition (any number of times)")
	cmd.Flags().BoolVar(&f.echo, "echo", false, "print parsed programs before results")
	return cmd
}

func runEval(cmd *cobra.Command, g *globals, f *evalFlags, args []string) error {
	sh, err := session(cmd, g)
	if err != nil {
		return err
	}
	sh.Echo = f.echo
	for _, d := range f.given {
		if err := given(sh, d); err != nil {
			return err
		}
	}

	var ins []io.RuneScanner
	in, err := infile(cmd, f.in, len(args) == 0)
	if err != nil {
		return err
	}
	if in != nil {
		defer in.Close()
		ins = append(ins, bufio.NewReader(in))
	}
	for _, arg := range args {
		ins = append(ins, strings.NewReader(arg))
	}

	failed := 0
	for _, in := range ins {
		if err := sh.Source(in); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d programs failed to parse", failed, len(ins))
	}
	return nil
}

// given evaluates a name=value definition and sets the variable in the
// session. The value may use variables already defined. Assignments inside
// the value are not kept.
func given(sh *shell.Shell, d string) error {
	name, value, ok := strings.Cut(d, "=")
	if !ok {
		return fmt.Errorf(`variable definitions must be "name=value", not %q`, d)
	}
	name = strings.TrimSpace(name)
	if !intcalc.IsIdent(name) {
		return fmt.Errorf("setting %s: invalid variable name", name)
	}
	p, err := intcalc.ParseString(value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	rs := sh.Context.Clone().Run(p)
	if err := rs.Err(); err != nil {
		return fmt.Errorf("setting %s: %w", name, err)
	}
	v := rs.Last()
	if v == nil {
		return fmt.Errorf("setting %s: %q has no value", name, value)
	}
	sh.Context.Set(name, v)
	return nil
}

// infile opens the named input. "-" and std with no name mean stdin. The
// result is nil if there is no input file.
func infile(cmd *cobra.Command, name string, std bool) (io.ReadCloser, error) {
	switch {
	case name != "" && name != "-":
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("opening input: %w", err)
		}
		return f, nil
	case name == "-", std:
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return nil, nil
}
