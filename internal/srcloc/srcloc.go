// Package srcloc carries source positions from the front end through
// elaboration into netlist attributes.
//
// It reuses go-tree-sitter's Point/Range value types rather than inventing a
// parallel line/column struct: the front end that produced our AST already
// parsed the source file, and its positions are structurally identical to
// what a tree-sitter parse would report (0-based row, 0-based column, byte
// offsets). Borrowing the type keeps one less bespoke struct in the tree and
// gives us String()-free zero-alloc equality/ordering for free.
package srcloc

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Range is a half-open source span, front-end row/column, 0-based like
// tree-sitter's own.
type Range struct {
	File  string
	Start sitter.Point
	End   sitter.Point
}

// None is the zero Range, used for synthetic nodes the elaborator invents
// (staging wires, function-inlining return wires) that have no direct
// source counterpart.
var None = Range{}

// IsZero reports whether r carries no source information.
func (r Range) IsZero() bool {
	return r == None
}

// Attr formats the "src" attribute as "file:line.col-line.col". Rows and
// columns are 1-based in the rendered form
// even though the underlying Point fields are 0-based, matching
// conventional diagnostic output.
func (r Range) Attr() string {
	if r.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%d.%d-%d.%d",
		r.File,
		r.Start.Row+1, r.Start.Column+1,
		r.End.Row+1, r.End.Column+1)
}

// String implements fmt.Stringer for diagnostic printing.
func (r Range) String() string {
	if r.IsZero() {
		return "<synthetic>"
	}
	return r.Attr()
}

// New builds a Range from 1-based line/column pairs, the form front-end
// diagnostics APIs typically hand us.
func New(file string, startLine, startCol, endLine, endCol int) Range {
	return Range{
		File:  file,
		Start: sitter.Point{Row: uint32(startLine - 1), Column: uint32(startCol - 1)},
		End:   sitter.Point{Row: uint32(endLine - 1), Column: uint32(endCol - 1)},
	}
}

// Single builds a zero-width Range at one point, used for synthesized
// diagnostics that only know a single position.
func Single(file string, line, col int) Range {
	return New(file, line, col, line, col)
}
