// cmd/mlox/main.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"git.sr.ht/~sircmpwn/getopt"
	"github.com/pkg/errors"

	"mlox/internal/config"
	"mlox/internal/formatter"
	"mlox/internal/lexer"
	"mlox/internal/parser"
	"mlox/internal/reporting"
	"mlox/internal/repl"
	"mlox/internal/runner"
)

const VERSION = "0.1.0"

// Build variables - can be set during build with ldflags
var (
	BuildDate = time.Now().Format("2006-01-02")
	GitCommit = "unknown"
)

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

type options struct {
	debug      bool
	dumpTokens bool
	dumpAST    bool
	format     bool
	configPath string
	script     string
}

// command carries the process streams so tests can drive the CLI.
type command struct {
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
	// reporter overrides the stderr reporter; tests use it to disable colour.
	reporter *reporting.Reporter
}

func main() {
	c := &command{
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: log.New(os.Stderr, "mlox: ", 0),
	}
	os.Exit(c.run(os.Args))
}

func (c *command) run(args []string) int {
	opts, code, ok := c.parseFlags(args)
	if !ok {
		return code
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		c.logger.Printf("%v", err)
		return exitUsage
	}
	if opts.debug {
		cfg.Debug = true
	}
	if c.reporter == nil {
		c.reporter = reporting.NewStderr(cfg.Color)
	}
	var trace *log.Logger
	if cfg.Debug {
		trace = log.New(c.stderr, "mlox debug: ", log.Lmicroseconds)
	}

	if opts.script == "" {
		if err := repl.Start(cfg, trace); err != nil {
			c.logger.Printf("%v", err)
			return exitIOErr
		}
		return exitOK
	}

	source, err := os.ReadFile(opts.script)
	if err != nil {
		c.logger.Printf("%v", errors.Wrapf(err, "could not read %s", opts.script))
		return exitIOErr
	}

	switch {
	case opts.dumpTokens:
		return c.dumpTokens(string(source), opts.script)
	case opts.dumpAST:
		return c.dumpAST(string(source), opts.script)
	case opts.format:
		return c.format(string(source), opts.script)
	}

	runOpts := []runner.Option{runner.WithOutput(c.stdout), runner.WithFile(opts.script)}
	if trace != nil {
		runOpts = append(runOpts, runner.WithLogger(trace))
	}
	res := runner.RunUnit(string(source), nil, runOpts...)
	c.reporter.Report(res)
	return exitCode(res)
}

// parseFlags returns ok=false when the process should exit with code.
func (c *command) parseFlags(args []string) (options, int, bool) {
	var opts options
	flags, optind, err := getopt.Getopts(args, "hvdtafc:")
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		c.usage()
		return opts, exitUsage, false
	}
	for _, flag := range flags {
		switch flag.Option {
		case 'h':
			c.usage()
			return opts, exitOK, false
		case 'v':
			fmt.Fprintf(c.stdout, "mlox %s (%s, %s)\n", VERSION, GitCommit, BuildDate)
			return opts, exitOK, false
		case 'd':
			opts.debug = true
		case 't':
			opts.dumpTokens = true
		case 'a':
			opts.dumpAST = true
		case 'f':
			opts.format = true
		case 'c':
			opts.configPath = flag.Value
		}
	}

	rest := args[optind:]
	switch {
	case len(rest) > 1:
		c.usage()
		return opts, exitUsage, false
	case len(rest) == 1:
		opts.script = rest[0]
	case opts.dumpTokens || opts.dumpAST || opts.format:
		fmt.Fprintln(c.stderr, "-t, -a and -f need a script")
		return opts, exitUsage, false
	}
	return opts, exitOK, true
}

func (c *command) usage() {
	fmt.Fprint(c.stderr, `Usage: mlox [-hvdtaf] [-c config.yaml] [script]

With no script, mlox starts an interactive session.

  -h          show this help
  -v          print version
  -d          trace scanning, parsing and execution on stderr
  -t          print the script's tokens instead of running it
  -a          print the script's syntax tree instead of running it
  -f          print the script reformatted instead of running it
  -c FILE     read settings from FILE (default $MLOX_CONFIG)
`)
}

func (c *command) dumpTokens(source, file string) int {
	scanner := lexer.NewScannerWithFile(source, file)
	for _, tok := range scanner.ScanTokens() {
		fmt.Fprintln(c.stdout, tok)
	}
	if len(scanner.Errors) > 0 {
		scanner.Errors.AttachSource(source)
		c.reporter.Report(runner.Result{Status: runner.StatusScanOrParseFailed, Diagnostics: scanner.Errors})
		return exitDataErr
	}
	return exitOK
}

func (c *command) dumpAST(source, file string) int {
	stmts, diags := runner.Compile(source, file)
	if len(diags) > 0 {
		c.reporter.Report(runner.Result{Status: runner.StatusScanOrParseFailed, Diagnostics: diags})
		return exitDataErr
	}
	fmt.Fprint(c.stdout, parser.PrintProgram(stmts))
	return exitOK
}

func (c *command) format(source, file string) int {
	stmts, diags := runner.Compile(source, file)
	if len(diags) > 0 {
		c.reporter.Report(runner.Result{Status: runner.StatusScanOrParseFailed, Diagnostics: diags})
		return exitDataErr
	}
	fmt.Fprint(c.stdout, formatter.NewFormatter().Format(stmts))
	return exitOK
}

func exitCode(res runner.Result) int {
	switch res.Status {
	case runner.StatusOK:
		return exitOK
	case runner.StatusScanOrParseFailed:
		return exitDataErr
	case runner.StatusRuntimeFailed:
		if res.Runtime == nil {
			return exitIOErr
		}
		return exitSoftware
	}
	return exitSoftware
}
