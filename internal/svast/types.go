// Package svast defines the typed, elaborated, constant-folded Abstract
// Syntax Tree contract this elaborator consumes. Lexing, parsing, name
// resolution, type checking, and constant folding of purely compile-time
// expressions all happen outside this system's scope: this package is the
// interface boundary to that external front end, not a parser.
//
// Every expression, statement, and symbol kind the lowering passes need has
// a concrete Go type here. Dispatch follows a sum-type-via-tagged-interface
// pattern with exhaustive switches: Expr and Stmt are closed interfaces
// implemented only by the types in this package, and every switch over them
// in internal/sigeval and internal/proclower ends in a default case that
// raises diag.Unsupported.
package svast

import "github.com/robert-at-pretension-io/sv-elab/internal/srcloc"

// Type is the bitstream-flattened type of an expression or symbol. Struct
// and array layouts are pre-flattened by the front end into a single width.
type Type struct {
	Width    int
	Signed   bool
	IsFourState bool // carries X/Z states (logic) vs two-state (bit)
}

func (t Type) BitstreamWidth() int { return t.Width }
func (t Type) IsSigned() bool      { return t.Signed }

// FixedRange is a SystemVerilog packed/unpacked declared range, e.g.
// "[7:0]" or "[0:7]", used by translate_index to convert a
// source-level index into a 0-based offset.
type FixedRange struct {
	Left, Right int
	// LittleEndian is true when Left >= Right (the common [msb:0] form).
	LittleEndian bool
}

// Width returns the number of elements the range spans.
func (r FixedRange) Width() int {
	if r.Left >= r.Right {
		return r.Left - r.Right + 1
	}
	return r.Right - r.Left + 1
}

// RawIndex converts a source-level index (a value in the declared [Left:Right]
// numbering) into a 0-based position counted from the vector's LSB, the
// translation translate_index performs.
func (r FixedRange) RawIndex(idx int) int {
	if r.LittleEndian {
		return idx - r.Right
	}
	return r.Right - idx
}

// exprNode / stmtNode are unexported marker methods that close the Expr and
// Stmt interfaces to this package, a sum-type-via-sealed-interface idiom.
type exprNode struct{}

func (exprNode) isExpr() {}

type stmtNode struct{}

func (stmtNode) isStmt() {}

// Expr is any rvalue/lvalue-capable expression node.
type Expr interface {
	isExpr()
	ExprType() Type
	Location() srcloc.Range
}

// Stmt is any procedural statement node.
type Stmt interface {
	isStmt()
	Location() srcloc.Range
}
