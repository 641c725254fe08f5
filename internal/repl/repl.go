// internal/repl/repl.go
package repl

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	"mlox/internal/config"
	"mlox/internal/interpreter"
	"mlox/internal/lexer"
	"mlox/internal/reporting"
	"mlox/internal/runner"
	"mlox/internal/value"
)

// REPL reads one unit per line and runs it against a single root
// environment, so declarations persist for the whole session.
type REPL struct {
	cfg         config.Config
	in          io.Reader
	out         io.Writer
	reporter    *reporting.Reporter
	env         *interpreter.Environment
	interactive bool
	logger      *log.Logger
}

// New builds a session. Prompt and banner are written only when
// interactive is true.
func New(cfg config.Config, in io.Reader, out io.Writer, reporter *reporting.Reporter, interactive bool) *REPL {
	return &REPL{
		cfg:         cfg,
		in:          in,
		out:         out,
		reporter:    reporter,
		env:         interpreter.NewEnvironment(nil),
		interactive: interactive,
	}
}

// SetLogger enables debug tracing for every unit.
func (r *REPL) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Environment is the session's root scope.
func (r *REPL) Environment() *interpreter.Environment {
	return r.env
}

// Start runs a session on the process's standard streams.
func Start(cfg config.Config, logger *log.Logger) error {
	interactive := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	r := New(cfg, os.Stdin, os.Stdout, reporting.NewStderr(cfg.Color), interactive)
	r.SetLogger(logger)
	return r.Run()
}

// Run loops until end of input or an "exit" line. Errors in a line are
// reported and the session continues.
func (r *REPL) Run() error {
	if r.interactive && r.cfg.Banner != "" {
		banner := color.New(color.FgCyan)
		if !reporting.ShouldColor(r.cfg.Color, os.Stdout) {
			banner.DisableColor()
		}
		banner.Fprintln(r.out, r.cfg.Banner)
	}

	scanner := bufio.NewScanner(r.in)
	for {
		if r.interactive {
			fmt.Fprint(r.out, r.cfg.Prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "exit":
			return nil
		case ".vars":
			r.printVars()
			continue
		case "":
			continue
		}

		opts := []runner.Option{runner.WithOutput(r.out), runner.WithEcho(r.cfg.Echo)}
		if r.logger != nil {
			opts = append(opts, runner.WithLogger(r.logger))
		}
		r.reporter.Report(runner.RunUnit(line, r.env, opts...))
	}
	if r.interactive {
		fmt.Fprintln(r.out)
	}
	return errors.Wrap(scanner.Err(), "read input")
}

func (r *REPL) printVars() {
	for _, name := range r.env.Names() {
		v, err := r.env.Get(lexer.Token{Type: lexer.TokenIdent, Lexeme: name})
		if err != nil {
			continue
		}
		fmt.Fprintf(r.out, "%s = %s\n", name, value.Display(v))
	}
}
