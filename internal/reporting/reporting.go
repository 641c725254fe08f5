// Package reporting prints unit diagnostics for humans.
package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"mlox/internal/errors"
	"mlox/internal/runner"
)

// Colour modes accepted by ShouldColor.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Reporter writes diagnostics, optionally coloured.
type Reporter struct {
	out     io.Writer
	errTag  *color.Color
	source  *color.Color
	runtime *color.Color
}

// New returns a Reporter writing to w. Colour escapes are emitted only when
// enabled is true.
func New(w io.Writer, enabled bool) *Reporter {
	r := &Reporter{
		out:     w,
		errTag:  color.New(color.FgRed, color.Bold),
		source:  color.New(color.Faint),
		runtime: color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{r.errTag, r.source, r.runtime} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// NewStderr returns a Reporter on a colour-capable stderr.
func NewStderr(mode string) *Reporter {
	return New(colorable.NewColorableStderr(), ShouldColor(mode, os.Stderr))
}

// ShouldColor resolves a colour mode against f. "auto" colours only
// terminals, and never when NO_COLOR is set.
func ShouldColor(mode string, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Report prints every problem in res. It prints nothing for StatusOK.
func (r *Reporter) Report(res runner.Result) {
	switch res.Status {
	case runner.StatusScanOrParseFailed:
		for _, d := range res.Diagnostics {
			r.Diagnostic(d)
		}
	case runner.StatusRuntimeFailed:
		if res.Runtime != nil {
			r.Runtime(res.Runtime)
		} else if res.Failure != nil {
			r.errTag.Fprint(r.out, "error:")
			fmt.Fprintf(r.out, " %v\n", res.Failure)
		}
	}
}

// Diagnostic prints a scan or parse error followed by its source line.
func (r *Reporter) Diagnostic(d *errors.Error) {
	prefix := fmt.Sprintf("[line %d] Error%s:", d.Location.Line, d.Where)
	if d.Location.File != "" {
		prefix = d.Location.File + ":" + prefix
	}
	r.errTag.Fprint(r.out, prefix)
	fmt.Fprintf(r.out, " %s\n", d.Message)
	if d.Source != "" {
		r.source.Fprintf(r.out, "    %d | %s\n", d.Location.Line, d.Source)
	}
}

// Runtime prints a runtime error in the "message, then [line N]" layout,
// followed by the source line when it is known.
func (r *Reporter) Runtime(e *errors.Error) {
	r.runtime.Fprint(r.out, e.Message)
	fmt.Fprintln(r.out)
	if e.Location.File != "" {
		fmt.Fprintf(r.out, "[%s line %d]\n", e.Location.File, e.Location.Line)
	} else {
		fmt.Fprintf(r.out, "[line %d]\n", e.Location.Line)
	}
	if e.Source != "" {
		r.source.Fprintf(r.out, "    %d | %s\n", e.Location.Line, e.Source)
	}
}
