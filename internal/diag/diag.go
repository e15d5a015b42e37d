// Package diag implements the elaborator's error handling: five error
// kinds, their termination semantics, and end-of-run reporting. Modeled on
// vhdl-lint's internal/policy Violation/Result/Summary shape, adapted from
// policy-rule violations to elaborator diagnostics, and rendered with
// github.com/fatih/color and github.com/olekukonko/tablewriter, both real
// dependencies carried by the go-probeum fork retrieved alongside it,
// reused here for the ambient CLI-diagnostics concern vhdl-lint itself
// covers only with fmt.Fprintf.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
)

// Kind is one of this five error kinds.
type Kind int

const (
	KindUnsupported Kind = iota
	KindSemantic
	KindFrontEnd
	KindIgnorable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUnsupported:
		return "unsupported"
	case KindSemantic:
		return "semantic"
	case KindFrontEnd:
		return "frontend"
	case KindIgnorable:
		return "ignorable"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Fatal reports whether a diagnostic of this kind aborts elaboration.
// Only KindIgnorable is non-fatal.
func (k Kind) Fatal() bool { return k != KindIgnorable }

// Diagnostic is one reported condition, source-referenced where available.
type Diagnostic struct {
	Kind    Kind
	Message string
	Loc     srcloc.Range
	// InternalLoc is the compiler-internal file:line the elaborator itself
	// was executing at when it raised the diagnostic.
	InternalLoc string
	// ASTDump is an optional textual dump of the offending AST fragment.
	ASTDump string
}

// FatalError is returned (via panic/recover, see Abort) to unwind the
// elaboration call stack the moment a fatal Diagnostic is raised: no
// partial IR is produced, and failures are immediate and terminal.
type FatalError struct {
	Diagnostic Diagnostic
}

func (e *FatalError) Error() string {
	loc := e.Diagnostic.Loc.String()
	return fmt.Sprintf("%s: %s: %s", loc, e.Diagnostic.Kind, e.Diagnostic.Message)
}

// Abort raises a fatal diagnostic by panicking with *FatalError; callers at
// the top of the Hierarchy Driver recover it and discard any partial IR.
// There is no partial-failure or retry semantics: one fatal diagnostic
// ends the whole run.
func Abort(d Diagnostic) {
	panic(&FatalError{Diagnostic: d})
}

// Unsupported raises a diagnostic for an AST shape the lowering passes
// don't handle.
func Unsupported(loc srcloc.Range, internalLoc, astDump, format string, args ...interface{}) {
	Abort(Diagnostic{
		Kind:         KindUnsupported,
		Message:      fmt.Sprintf(format, args...),
		Loc:          loc,
		InternalLoc:  internalLoc,
		ASTDump:      astDump,
	})
}

// Semantic raises a diagnostic for input that is well-formed AST but
// violates a semantic rule the lowering passes enforce.
func Semantic(loc srcloc.Range, format string, args ...interface{}) {
	Abort(Diagnostic{Kind: KindSemantic, Message: fmt.Sprintf(format, args...), Loc: loc})
}

// Internal raises a diagnostic for an invariant breach in this program
// itself, not in its input.
func Internal(format string, args ...interface{}) {
	Abort(Diagnostic{Kind: KindInternal, Message: fmt.Sprintf(format, args...)})
}

// FrontEnd forwards a front-end diagnostic.
func FrontEnd(message string) {
	Abort(Diagnostic{Kind: KindFrontEnd, Message: message})
}

// Collector accumulates non-fatal (Ignorable) diagnostics across one
// elaboration run, plus the final summary table printed on completion or
// abort.
type Collector struct {
	warnings []Diagnostic
	out      io.Writer
	color    bool
}

// NewCollector creates a Collector writing to out. color enables
// fatih/color severity coding; disable for non-TTY output.
func NewCollector(out io.Writer, color bool) *Collector {
	return &Collector{out: out, color: color}
}

// Warn records an Ignorable diagnostic: unique/
// priority on case statements, non-edge event on always converted to
// implicit event, etc.
func (c *Collector) Warn(loc srcloc.Range, format string, args ...interface{}) {
	c.warnings = append(c.warnings, Diagnostic{
		Kind:    KindIgnorable,
		Message: fmt.Sprintf(format, args...),
		Loc:     loc,
	})
}

// Warnings returns every accumulated warning.
func (c *Collector) Warnings() []Diagnostic { return c.warnings }

// PrintWarnings writes one colorized line per warning.
func (c *Collector) PrintWarnings() {
	warn := color.New(color.FgYellow)
	if !c.color {
		warn.DisableColor()
	}
	for _, d := range c.warnings {
		warn.Fprintf(c.out, "warning: %s: %s\n", d.Loc, d.Message)
	}
}

// PrintFatal renders a FatalError with the AST dump, the offending source
// line's location, and the compiler-internal location, colorized by
// severity.
func PrintFatal(w io.Writer, colorize bool, err *FatalError) {
	sev := color.New(color.FgRed, color.Bold)
	if !colorize {
		sev.DisableColor()
	}
	sev.Fprintf(w, "error[%s]: %s\n", err.Diagnostic.Kind, err.Diagnostic.Message)
	if !err.Diagnostic.Loc.IsZero() {
		fmt.Fprintf(w, "  --> %s\n", err.Diagnostic.Loc)
	}
	if err.Diagnostic.InternalLoc != "" {
		fmt.Fprintf(w, "  elaborator: %s\n", err.Diagnostic.InternalLoc)
	}
	if err.Diagnostic.ASTDump != "" {
		fmt.Fprintf(w, "  ast:\n%s\n", err.Diagnostic.ASTDump)
	}
}

// Summary is the per-run tally rendered as a table, the same aggregate
// counts shape as vhdl-lint's own policy.Summary.
type Summary struct {
	Modules   int
	Wires     int
	Cells     int
	Processes int
	Warnings  int
}

// PrintSummary renders s as an aligned table using olekukonko/tablewriter,
// the same table-formatting dependency go-probeum carries for its own CLI
// reporting, reused here instead of hand-aligned fmt.Printf columns.
func (s Summary) PrintSummary(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"modules", "wires", "cells", "processes", "warnings"})
	table.Append([]string{
		fmt.Sprint(s.Modules),
		fmt.Sprint(s.Wires),
		fmt.Sprint(s.Cells),
		fmt.Sprint(s.Processes),
		fmt.Sprint(s.Warnings),
	})
	table.Render()
}

// DefaultCollector is a convenience Collector writing to stderr with color
// auto-detected from stdout being a terminal — mirrors the reference CLI
// defaulting behavior in cmd/vhdl-lint/main.go.
func DefaultCollector() *Collector {
	return NewCollector(os.Stderr, true)
}
