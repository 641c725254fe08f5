// Package runner executes one unit of source text, a script file or a single
// REPL line, against a caller-owned environment.
package runner

import (
	stderrors "errors"
	"io"
	"log"

	"mlox/internal/errors"
	"mlox/internal/interpreter"
	"mlox/internal/lexer"
	"mlox/internal/parser"
)

// Status is the outcome of a unit.
type Status int

const (
	StatusOK Status = iota
	StatusScanOrParseFailed
	StatusRuntimeFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusScanOrParseFailed:
		return "scan or parse failed"
	case StatusRuntimeFailed:
		return "runtime failed"
	}
	return "unknown"
}

// Result reports how a unit ended. Diagnostics is set for
// StatusScanOrParseFailed, Runtime for StatusRuntimeFailed.
type Result struct {
	Status      Status
	Diagnostics errors.List
	Runtime     *errors.Error
	// Failure holds a failure that is not a language error, such as a write
	// error on the output sink. It is reported as StatusRuntimeFailed.
	Failure error
}

// Err returns the result as an error, or nil for StatusOK.
func (r Result) Err() error {
	switch {
	case r.Status == StatusOK:
		return nil
	case len(r.Diagnostics) > 0:
		return r.Diagnostics
	case r.Runtime != nil:
		return r.Runtime
	}
	return r.Failure
}

type options struct {
	out    io.Writer
	file   string
	echo   bool
	logger *log.Logger
}

type Option func(*options)

// WithOutput sets where print writes. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithFile names the source for diagnostics.
func WithFile(file string) Option {
	return func(o *options) { o.file = file }
}

// WithEcho prints the value of each top-level expression statement.
func WithEcho(echo bool) Option {
	return func(o *options) { o.echo = echo }
}

// WithLogger enables debug tracing of each phase.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// RunUnit scans, parses and evaluates source in env. Nothing is evaluated
// unless scanning and parsing both succeed; scan and parse errors are
// reported together.
func RunUnit(source string, env *interpreter.Environment, opts ...Option) Result {
	o := options{out: io.Discard}
	for _, opt := range opts {
		opt(&o)
	}

	stmts, diags := Compile(source, o.file)
	if o.logger != nil {
		o.logger.Printf("parsed %d statements, %d diagnostics", len(stmts), len(diags))
		for _, d := range diags {
			o.logger.Print(d.Detail())
		}
	}
	if len(diags) > 0 {
		return Result{Status: StatusScanOrParseFailed, Diagnostics: diags}
	}

	interpOpts := []interpreter.Option{interpreter.WithEcho(o.echo)}
	if o.logger != nil {
		interpOpts = append(interpOpts, interpreter.WithLogger(o.logger))
	}
	err := interpreter.New(env, o.out, interpOpts...).Interpret(stmts)
	if err == nil {
		return Result{Status: StatusOK}
	}

	var rerr *errors.Error
	if stderrors.As(err, &rerr) {
		if o.file != "" {
			rerr.WithFile(o.file)
		}
		rerr.AttachSource(source)
		if o.logger != nil {
			o.logger.Print(rerr.Detail())
		}
		return Result{Status: StatusRuntimeFailed, Runtime: rerr}
	}
	return Result{Status: StatusRuntimeFailed, Failure: err}
}

// Compile scans and parses source. The statements are only safe to evaluate
// when no diagnostics were returned.
func Compile(source, file string) ([]parser.Stmt, errors.List) {
	scanner := lexer.NewScannerWithFile(source, file)
	tokens := scanner.ScanTokens()

	p := parser.NewParserWithFile(tokens, file)
	stmts, _ := p.Parse()

	var diags errors.List
	diags = append(diags, scanner.Errors...)
	diags = append(diags, p.Errors...)
	diags.AttachSource(source)
	return stmts, diags
}
