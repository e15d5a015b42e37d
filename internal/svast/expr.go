package svast

import "github.com/robert-at-pretension-io/sv-elab/internal/srcloc"

// Bit is a single four-state literal bit, used both inside Constant and as
// the atom the IR Builder's three-valued comparator algebra operates on.
type Bit uint8

const (
	Bit0 Bit = iota
	Bit1
	BitX
	BitZ
)

// Constant is a fully-elaborated compile-time bit vector, least-significant
// bit first, exactly the shape the front end hands us for any expression it
// could fold at compile time.
type Constant struct {
	Bits   []Bit
	Signed bool
}

func (c Constant) Width() int { return len(c.Bits) }

// IsFullyDefined reports whether the constant contains no X/Z bits, the
// gate the IR Builder's folding policy checks before folding
// eagerly.
func (c Constant) IsFullyDefined() bool {
	for _, b := range c.Bits {
		if b == BitX || b == BitZ {
			return false
		}
	}
	return true
}

// AllOnes reports whether every bit is a defined 1, the shape the "Sub(a,
// all-ones)" partial fold tests for.
func (c Constant) AllOnes() bool {
	for _, b := range c.Bits {
		if b != Bit1 {
			return false
		}
	}
	return len(c.Bits) > 0
}

// AllZero reports whether every bit is a defined 0.
func (c Constant) AllZero() bool {
	for _, b := range c.Bits {
		if b != Bit0 {
			return false
		}
	}
	return len(c.Bits) > 0
}

// base is embedded by every Expr concrete type. Folded, when non-nil, is
// the front end's pre-computed constant for this exact expression node:
// when present, evaluate_rhs returns it verbatim before ever reaching the
// type switch. Every concrete type exposes it identically so evaluate_rhs
// can check it once instead of duplicating the check in every arm.
type base struct {
	exprNode
	Loc    srcloc.Range
	Typ    Type
	Folded *Constant
}

func (b base) ExprType() Type       { return b.Typ }
func (b base) Location() srcloc.Range { return b.Loc }
func (b base) FoldedConstant() *Constant { return b.Folded }

// Folder is implemented by every Expr; internal/sigeval calls it once at
// the top of evaluate_rhs instead of repeating the nil check per node kind.
type Folder interface {
	FoldedConstant() *Constant
}

// SymbolKind distinguishes the four NamedValue targets evaluate_rhs dispatches on.
type SymbolKind int

const (
	SymbolNet SymbolKind = iota
	SymbolVariable
	SymbolParameter
	SymbolFormalArgument
)

// NamedValueExpr reads a net, variable, parameter, or formal argument.
type NamedValueExpr struct {
	base
	Kind   SymbolKind
	Symbol Symbol // nil when Kind == SymbolFormalArgument; use ArgName instead
	ArgName string
}

// UnaryOp enumerates the unary operator set.
type UnaryOp int

const (
	UnaryLogicNot UnaryOp = iota
	UnaryBitwiseNot
	UnaryReduceOr
	UnaryReduceAnd
	UnaryReduceNor
	UnaryReduceNand
	UnaryReduceXor
	UnaryReduceXnor
	UnaryMinus
	UnaryPlus
)

type UnaryExpr struct {
	base
	Op      UnaryOp
	Operand Expr
}

// BinaryOp enumerates the binary operator set.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDivFloor
	BinMod
	BinAnd
	BinOr
	BinXor
	BinXnor
	BinEq
	BinNe
	BinCaseEq
	BinCaseNe
	BinWildcardEq
	BinWildcardNe
	BinGe
	BinGt
	BinLe
	BinLt
	BinLogicAnd
	BinLogicOr
	BinShl
	BinShr
	BinSshl
	BinSshr
	BinPow
)

type BinaryExpr struct {
	base
	Op          BinaryOp
	Left, Right Expr
}

// ConversionExpr narrows/widens/re-signs Operand to base.Typ.
type ConversionExpr struct {
	base
	Operand Expr
}

// RangeSelectExpr is the "simple only" [msb:lsb] select the lowerer
// supports; part-select and indexed forms are unsupported and fatal.
type RangeSelectExpr struct {
	base
	Value       Expr
	Left, Right Expr // constant-folded integer expressions
	ValueRange  FixedRange
}

// ElementSelectExpr is a single-bit/element select, static or dynamic.
type ElementSelectExpr struct {
	base
	Value      Expr
	Index      Expr
	ValueRange FixedRange
}

type ConcatExpr struct {
	base
	Operands []Expr
}

type ConditionalExpr struct {
	base
	Cond, WhenTrue, WhenFalse Expr
}

// ReplicationExpr requires Count to fold to a constant.
type ReplicationExpr struct {
	base
	Count    Expr
	Operand  Expr
	FoldCount int
}

type MemberAccessExpr struct {
	base
	Value             Expr
	BitOffset, Width  int
	Field             string
}

// CallKind distinguishes the built-in system calls from ordinary user
// function calls that trigger inlining.
type CallKind int

const (
	CallUserFunction CallKind = iota
	CallSystemSigned
	CallSystemUnsigned
	CallSystemTime
	CallSystemRealtime
	CallSystemStime
	CallSystemDisplay
	CallSystemEmptyStatement // this single accommodated no-op task
)

type CallExpr struct {
	base
	Kind       CallKind
	Name       string
	Args       []Expr
	Subroutine *Subroutine // set when Kind == CallUserFunction

	// FormatString carries $display's leading format-string literal. No
	// dedicated string-literal Expr kind exists in this package, so the
	// front end lifts it out here rather than as Args[0].
	FormatString string
}

// AssignmentExpr models both blocking (=) and nonblocking (<=) forms; it is
// always the sole Expr wrapped by an ExpressionStmt, never nested elsewhere.
type AssignmentExpr struct {
	base
	Left, Right Expr
	NonBlocking bool
}
