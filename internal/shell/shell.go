// Package shell runs calculator sessions for the intcalc command.
package shell

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/zephyrtronium/intcalc"
	"github.com/zephyrtronium/intcalc/internal/config"
	"github.com/zephyrtronium/intcalc/internal/logging"
)

const helpText = `Enter statements separated by semicolons:
  1 + 2 * 3          evaluate an expression
  x = 4 ** 2         assign a variable
Operators: + - * / ** and unary -. PI is 3.
Commands:
  :vars              list variables
  :help              show this help
  :quit              exit (also Ctrl-D)`

// LineReader reads lines of input with a prompt. *liner.State is a
// LineReader.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// historian is a LineReader which keeps history.
type historian interface {
	AppendHistory(item string)
}

// Shell is a calculator session.
type Shell struct {
	// Context holds the session's variables.
	Context *intcalc.Context
	// Config supplies the prompt, history file, and styling.
	Config *config.Config
	// Logger receives diagnostics.
	Logger *slog.Logger
	// Out receives results. Err receives errors.
	Out, Err io.Writer
	// Echo prints each parsed program before its results.
	Echo bool

	styles styles
}

// New creates a session with the preset variables from cfg.
func New(cfg *config.Config, logger *slog.Logger, out, errw io.Writer) (*Shell, error) {
	vars, err := cfg.Values()
	if err != nil {
		return nil, fmt.Errorf("preset variables: %w", err)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	sh := &Shell{
		Context: intcalc.NewContext(intcalc.SetVars(vars)),
		Config:  cfg,
		Logger:  logger,
		Out:     out,
		Err:     errw,
	}
	sh.styles = newStyles(out, cfg.Color)
	return sh, nil
}

// Interactive runs the session on the terminal with line editing. History is
// loaded from and saved to the configured history file.
func (sh *Shell) Interactive() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if hist := sh.Config.History(); hist != "" {
		if f, err := os.Open(hist); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				sh.Logger.Warn("reading history", slog.String("file", hist), slog.Any("err", err))
			}
			f.Close()
		}
		defer func() {
			f, err := os.Create(hist)
			if err != nil {
				sh.Logger.Warn("saving history", slog.String("file", hist), slog.Any("err", err))
				return
			}
			if _, err := ln.WriteHistory(f); err != nil {
				sh.Logger.Warn("saving history", slog.String("file", hist), slog.Any("err", err))
			}
			f.Close()
		}()
	}

	fmt.Fprintln(sh.Out, sh.styles.info.Render("intcalc integer calculator. Type :help for help, :quit to exit."))
	return sh.Run(ln)
}

// Run reads and evaluates lines until the input ends or the user quits. An
// aborted line is discarded. Errors in the input are reported and do not end
// the session.
func (sh *Shell) Run(r LineReader) error {
	log, _ := logging.Session(sh.Logger)
	log.Info("session started")
	lines := 0
	defer func() { log.Info("session ended", slog.Int("lines", lines)) }()
	for {
		line, err := r.Prompt(sh.Config.Prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines++
		if h, ok := r.(historian); ok {
			h.AppendHistory(line)
		}
		if !sh.handle(log, line) {
			return nil
		}
	}
}

// handle processes one line of input. It returns false if the session should
// end.
func (sh *Shell) handle(log *slog.Logger, line string) bool {
	if strings.HasPrefix(line, ":") {
		return sh.command(line)
	}
	if err := sh.exec(log, strings.NewReader(line)); err != nil {
		fmt.Fprintln(sh.Err, sh.styles.err.Render(err.Error()))
	}
	return true
}

// command runs a REPL command. It returns false for :quit.
func (sh *Shell) command(line string) bool {
	switch cmd := strings.Fields(line)[0]; cmd {
	case ":quit", ":q", ":exit":
		return false
	case ":vars":
		for _, name := range sh.Context.Vars() {
			fmt.Fprintf(sh.Out, "%s: %v\n", sh.styles.name.Render(name), sh.Context.Lookup(name))
		}
	case ":help":
		fmt.Fprintln(sh.Out, helpText)
	default:
		fmt.Fprintln(sh.Err, sh.styles.err.Render("unknown command "+cmd+"; try :help"))
	}
	return true
}

// Source parses all of src as one program and evaluates it in the session.
// A parse error prevents evaluation and is returned. Evaluation errors are
// printed with the other results.
func (sh *Shell) Source(src io.RuneScanner) error {
	return sh.exec(sh.Logger, src)
}

func (sh *Shell) exec(log *slog.Logger, src io.RuneScanner) error {
	p, err := intcalc.Parse(src)
	if err != nil {
		log.Debug("parse failed", slog.Any("err", err))
		return err
	}
	if sh.Echo {
		fmt.Fprintln(sh.Out, sh.styles.info.Render(p.String()))
	}
	rs := sh.Context.Run(p)
	for _, r := range rs {
		if r.Err != nil {
			log.Debug("evaluation failed", slog.String("stmt", r.Stmt.Expr()), slog.Any("err", r.Err))
		}
	}
	sh.print(rs)
	return nil
}

// print writes formatted results on one line. Failed statements are styled as
// errors. Nothing is written if every statement was an assignment.
func (sh *Shell) print(rs intcalc.Results) {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		s := r.String()
		switch {
		case s == "":
			continue
		case r.Err != nil:
			s = sh.styles.err.Render(s)
		default:
			s = sh.styles.value.Render(s)
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintln(sh.Out, strings.Join(parts, " "))
}

type styles struct {
	value, err, name, info lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		plain := r.NewStyle()
		return styles{value: plain, err: plain, name: plain, info: plain}
	}
	return styles{
		value: r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		err:   r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		name:  r.NewStyle().Foreground(lipgloss.Color("#06B6D4")).Bold(true),
		info:  r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}
