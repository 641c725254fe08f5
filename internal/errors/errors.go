// internal/errors/errors.go
package errors

import (
	"fmt"
	"strings"
)

// Phase identifies which stage of the pipeline raised an error.
type Phase string

const (
	ScanError    Phase = "ScanError"
	ParseError   Phase = "ParseError"
	RuntimeError Phase = "RuntimeError"
)

// Kind refines a Phase.
type Kind string

const (
	UnexpectedCharacter     Kind = "UnexpectedCharacter"
	UnterminatedString      Kind = "UnterminatedString"
	UnexpectedToken         Kind = "UnexpectedToken"
	InvalidAssignmentTarget Kind = "InvalidAssignmentTarget"
	TypeMismatch            Kind = "TypeMismatch"
	UndefinedVariable       Kind = "UndefinedVariable"
	InvalidOperand          Kind = "InvalidOperand"
)

// SourceLocation represents a location in source code
type SourceLocation struct {
	File string
	Line int
}

// Error is a diagnostic tied to a source line.
type Error struct {
	Phase    Phase
	Kind     Kind
	Message  string
	Location SourceLocation
	// Where describes the offending token for parse errors, e.g. " at end"
	// or " at 'x'".
	Where  string
	Source string // The source line where error occurred
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Phase == RuntimeError {
		return fmt.Sprintf("%s\n[line %d]", e.Message, e.Location.Line)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", e.Location.Line, e.Where, e.Message)
}

// Detail renders the error with its file position and, when the source line
// is known, the line itself.
func (e *Error) Detail() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", e.Kind, e.Message)
	if e.Location.File != "" {
		fmt.Fprintf(&sb, "  at %s:%d\n", e.Location.File, e.Location.Line)
	} else {
		fmt.Fprintf(&sb, "  at line %d\n", e.Location.Line)
	}
	if e.Source != "" {
		fmt.Fprintf(&sb, "\n  %d | %s\n", e.Location.Line, e.Source)
	}
	return sb.String()
}

// Is reports whether target names the same phase and kind. Empty fields in
// target match anything, so errors.Is(err, &Error{Kind: UndefinedVariable})
// works regardless of phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	return true
}

// NewScanError creates a new scan error
func NewScanError(kind Kind, message string, line int) *Error {
	return &Error{
		Phase:    ScanError,
		Kind:     kind,
		Message:  message,
		Location: SourceLocation{Line: line},
	}
}

// NewParseError creates a new parse error
func NewParseError(kind Kind, message string, line int, where string) *Error {
	return &Error{
		Phase:    ParseError,
		Kind:     kind,
		Message:  message,
		Location: SourceLocation{Line: line},
		Where:    where,
	}
}

// NewRuntimeError creates a new runtime error
func NewRuntimeError(kind Kind, message string, line int) *Error {
	return &Error{
		Phase:    RuntimeError,
		Kind:     kind,
		Message:  message,
		Location: SourceLocation{Line: line},
	}
}

// WithSource adds source code context to the error
func (e *Error) WithSource(source string) *Error {
	e.Source = source
	return e
}

// WithFile records the file the error came from
func (e *Error) WithFile(file string) *Error {
	e.Location.File = file
	return e
}

// List collects every error found in one unit, in the order found.
type List []*Error

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns nil for an empty list so callers can return it as an error.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Unwrap exposes the elements to errors.Is and errors.As.
func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// AttachSource fills in the source line of every error from the unit's
// source text.
func (l List) AttachSource(source string) {
	lines := strings.Split(source, "\n")
	for _, e := range l {
		e.attachLine(lines)
	}
}

// AttachSource sets Source to the line of source the error points at.
func (e *Error) AttachSource(source string) *Error {
	e.attachLine(strings.Split(source, "\n"))
	return e
}

func (e *Error) attachLine(lines []string) {
	if e.Location.Line > 0 && e.Location.Line <= len(lines) {
		e.WithSource(lines[e.Location.Line-1])
	}
}
