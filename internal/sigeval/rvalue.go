package sigeval

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/irbuilder"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// EvaluateRHS lowers expr in rvalue context, exhaustively covering every
// expression kind svast defines; any node kind not recognized here raises
// diag.Unsupported with the fragment's Go type name standing in for an AST
// dump.
func EvaluateRHS(ctx *Context, expr svast.Expr) netlist.Signal {
	if f, ok := expr.(svast.Folder); ok {
		if c := f.FoldedConstant(); c != nil {
			return netlist.FromConstant(*c)
		}
	}

	switch e := expr.(type) {
	case *svast.NamedValueExpr:
		return evalNamedValue(ctx, e)
	case *svast.UnaryExpr:
		return evalUnary(ctx, e)
	case *svast.BinaryExpr:
		return evalBinary(ctx, e)
	case *svast.ConversionExpr:
		return evalConversion(ctx, e)
	case *svast.RangeSelectExpr:
		return evalRangeSelect(ctx, e)
	case *svast.ElementSelectExpr:
		return evalElementSelect(ctx, e)
	case *svast.ConcatExpr:
		operands := make([]netlist.Signal, len(e.Operands))
		for i, o := range e.Operands {
			operands[i] = EvaluateRHS(ctx, o)
		}
		return netlist.Concat(operands...)
	case *svast.ConditionalExpr:
		return evalConditional(ctx, e)
	case *svast.ReplicationExpr:
		return evalReplication(ctx, e)
	case *svast.MemberAccessExpr:
		v := EvaluateRHS(ctx, e.Value)
		return v.Extract(e.BitOffset, e.BitOffset+e.Width)
	case *svast.CallExpr:
		return evalCall(ctx, e)
	default:
		diag.Unsupported(expr.Location(), internalLoc(), "", "evaluate_rhs: unimplemented expression kind %T", expr)
		return nil
	}
}

func internalLoc() string { return "internal/sigeval/rvalue.go" }

func evalNamedValue(ctx *Context, e *svast.NamedValueExpr) netlist.Signal {
	switch e.Kind {
	case svast.SymbolNet, svast.SymbolVariable:
		w := ctx.WireFor(e.Symbol)
		return ctx.ApplySubs(w.AsSignal())
	case svast.SymbolParameter:
		p, ok := e.Symbol.(*svast.ParameterSymbol)
		if !ok {
			diag.Internal("NamedValue kind Parameter but symbol is %T", e.Symbol)
		}
		return netlist.FromConstant(p.Value)
	case svast.SymbolFormalArgument:
		sig, ok := ctx.Args[e.ArgName]
		if !ok {
			diag.Internal("formal argument %q not bound in call context", e.ArgName)
		}
		return sig
	default:
		diag.Internal("unrecognized NamedValue kind %d", e.Kind)
		return nil
	}
}

func evalUnary(ctx *Context, e *svast.UnaryExpr) netlist.Signal {
	a := EvaluateRHS(ctx, e.Operand)
	signed := e.Operand.ExprType().IsSigned()
	width := e.ExprType().BitstreamWidth()
	loc := e.Location()
	switch e.Op {
	case svast.UnaryLogicNot:
		return ctx.Builder.LogicNot(a, loc)
	case svast.UnaryBitwiseNot:
		return ctx.Builder.Not(a, width, loc)
	case svast.UnaryReduceOr:
		return ctx.Builder.ReduceOr(a, loc)
	case svast.UnaryReduceAnd:
		return ctx.Builder.ReduceAnd(a, loc)
	case svast.UnaryReduceNor:
		return ctx.Builder.LogicNot(ctx.Builder.ReduceOr(a, loc), loc)
	case svast.UnaryReduceNand:
		return ctx.Builder.LogicNot(ctx.Builder.ReduceAnd(a, loc), loc)
	case svast.UnaryReduceXor:
		return reduceXor(ctx, a, loc, false)
	case svast.UnaryReduceXnor:
		return reduceXor(ctx, a, loc, true)
	case svast.UnaryMinus:
		return ctx.Builder.Neg(a, signed, width, loc)
	case svast.UnaryPlus:
		return a
	default:
		diag.Unsupported(loc, internalLoc(), "", "evaluate_rhs: unimplemented unary operator %d", e.Op)
		return nil
	}
}

// reduceXor has no dedicated IR primitive, so it composes the generic Xor
// Biop over single-bit slices in a linear tree, the same build-from-the-
// exposed-primitives approach every composite operator here uses.
func reduceXor(ctx *Context, a netlist.Signal, loc srcloc.Range, negate bool) netlist.Signal {
	if len(a) == 0 {
		return netlist.Signal{netlist.ConstBit(netlist.Bit0)}
	}
	acc := a.Extract(0, 1)
	for i := 1; i < len(a); i++ {
		acc = ctx.Builder.Xor(acc, a.Extract(i, i+1), 1, loc)
	}
	if negate {
		acc = ctx.Builder.LogicNot(acc, loc)
	}
	return acc
}

func evalBinary(ctx *Context, e *svast.BinaryExpr) netlist.Signal {
	a := EvaluateRHS(ctx, e.Left)
	c := EvaluateRHS(ctx, e.Right)
	aSigned := e.Left.ExprType().IsSigned()
	bSigned := e.Right.ExprType().IsSigned()
	loc := e.Location()

	var op irbuilder.BinOp
	yWidth := e.ExprType().BitstreamWidth()
	boolResult := false

	switch e.Op {
	case svast.BinAdd:
		op = irbuilder.OpAdd
	case svast.BinSub:
		op = irbuilder.OpSub
	case svast.BinMul:
		op = irbuilder.OpMul
	case svast.BinDivFloor:
		op = irbuilder.OpDivFloor
	case svast.BinMod:
		op = irbuilder.OpMod
	case svast.BinAnd:
		op = irbuilder.OpAnd
	case svast.BinOr:
		op = irbuilder.OpOr
	case svast.BinXor:
		op = irbuilder.OpXor
	case svast.BinXnor:
		op = irbuilder.OpXnor
	case svast.BinEq, svast.BinCaseEq:
		op, boolResult = irbuilder.OpEq, true
	case svast.BinNe, svast.BinCaseNe:
		op, boolResult = irbuilder.OpNe, true
	case svast.BinWildcardEq:
		op, boolResult = irbuilder.OpEqWildcard, true
	case svast.BinWildcardNe:
		op, boolResult = irbuilder.OpNeWildcard, true
	case svast.BinGe:
		op, boolResult = irbuilder.OpGe, true
	case svast.BinGt:
		op, boolResult = irbuilder.OpGt, true
	case svast.BinLe:
		op, boolResult = irbuilder.OpLe, true
	case svast.BinLt:
		op, boolResult = irbuilder.OpLt, true
	case svast.BinLogicAnd:
		op, boolResult = irbuilder.OpLogicAnd, true
	case svast.BinLogicOr:
		op, boolResult = irbuilder.OpLogicOr, true
	case svast.BinShl:
		op = irbuilder.OpShl
	case svast.BinShr:
		// >> always shifts in zeros regardless of operand signedness; a
		// signed left operand is only sign-extended up to the result width.
		if aSigned && len(a) < yWidth {
			a = a.SignExtend(yWidth)
		}
		op, aSigned, bSigned = irbuilder.OpShr, false, false
	case svast.BinSshl:
		// <<< treats both operands as unsigned; sign-extension only matters
		// for the shift-right direction.
		op, aSigned, bSigned = irbuilder.OpSshl, false, false
	case svast.BinSshr:
		op, aSigned, bSigned = irbuilder.OpSshr, false, false
	case svast.BinPow:
		op = irbuilder.OpPow
	default:
		diag.Unsupported(loc, internalLoc(), "", "evaluate_rhs: unimplemented binary operator %d", e.Op)
		return nil
	}
	if boolResult {
		yWidth = 1
	}
	if op == irbuilder.OpShl || op == irbuilder.OpShr || op == irbuilder.OpSshl || op == irbuilder.OpSshr {
		return ctx.Builder.Shift(op, a, c, aSigned, yWidth, loc)
	}
	return ctx.Builder.Biop(op, a, c, aSigned, bSigned, yWidth, loc)
}

func evalConversion(ctx *Context, e *svast.ConversionExpr) netlist.Signal {
	a := EvaluateRHS(ctx, e.Operand)
	t := e.ExprType()
	if t.BitstreamWidth() <= len(a) {
		return a.Extract(0, t.BitstreamWidth())
	}
	if t.IsSigned() {
		return a.SignExtend(t.BitstreamWidth())
	}
	return a.ZeroExtend(t.BitstreamWidth())
}

func evalRangeSelect(ctx *Context, e *svast.RangeSelectExpr) netlist.Signal {
	left := foldedInt(e.Left)
	right := foldedInt(e.Right)
	rawLeft := e.ValueRange.RawIndex(left)
	rawRight := e.ValueRange.RawIndex(right)
	lo, hi := rawRight, rawLeft
	if lo > hi {
		lo, hi = hi, lo
	}
	v := EvaluateRHS(ctx, e.Value)
	return v.Extract(lo, hi+1)
}

func evalElementSelect(ctx *Context, e *svast.ElementSelectExpr) netlist.Signal {
	v := EvaluateRHS(ctx, e.Value)
	loc := e.Location()
	if f, ok := e.Index.(svast.Folder); ok {
		if c := f.FoldedConstant(); c != nil && c.IsFullyDefined() {
			raw := e.ValueRange.RawIndex(constIntFromBits(c.Bits, c.Signed))
			if raw < 0 || raw >= len(v) {
				return netlist.Signal{netlist.ConstBit(netlist.BitX)}
			}
			return v.Extract(raw, raw+1)
		}
	}
	rawSig, validSig := TranslateIndex(ctx, e.Index, e.ValueRange, loc)
	elem := ctx.Builder.Bmux(v, rawSig, 1, loc)
	xBit := netlist.Signal{netlist.ConstBit(netlist.BitX)}
	return ctx.Builder.Mux(xBit, elem, validSig, loc)
}

func evalConditional(ctx *Context, e *svast.ConditionalExpr) netlist.Signal {
	loc := e.Location()
	cond := EvaluateRHS(ctx, e.Cond)
	condBool := ctx.Builder.ReduceBool(cond, loc)
	width := e.ExprType().BitstreamWidth()
	whenFalse := fitTo(EvaluateRHS(ctx, e.WhenFalse), width, e.WhenFalse.ExprType().IsSigned())
	whenTrue := fitTo(EvaluateRHS(ctx, e.WhenTrue), width, e.WhenTrue.ExprType().IsSigned())
	return ctx.Builder.Mux(whenFalse, whenTrue, condBool, loc)
}

func fitTo(s netlist.Signal, width int, signed bool) netlist.Signal {
	if len(s) == width {
		return s
	}
	if len(s) > width {
		return s.Extract(0, width)
	}
	if signed {
		return s.SignExtend(width)
	}
	return s.ZeroExtend(width)
}

func evalReplication(ctx *Context, e *svast.ReplicationExpr) netlist.Signal {
	if e.FoldCount <= 0 {
		diag.Semantic(e.Location(), "replication count must be a positive constant")
	}
	operand := EvaluateRHS(ctx, e.Operand)
	operands := make([]netlist.Signal, e.FoldCount)
	for i := range operands {
		operands[i] = operand
	}
	return netlist.Concat(operands...)
}

func evalCall(ctx *Context, e *svast.CallExpr) netlist.Signal {
	switch e.Kind {
	case svast.CallSystemSigned, svast.CallSystemUnsigned:
		if len(e.Args) != 1 {
			diag.Internal("%s expects exactly one argument", e.Name)
		}
		a := EvaluateRHS(ctx, e.Args[0])
		return fitTo(a, e.ExprType().BitstreamWidth(), e.Kind == svast.CallSystemSigned)
	case svast.CallUserFunction:
		if ctx.Inliner == nil {
			diag.Internal("function call %q reached with no inliner bound", e.Name)
		}
		return ctx.Inliner(ctx, e)
	case svast.CallSystemTime, svast.CallSystemRealtime, svast.CallSystemStime,
		svast.CallSystemDisplay, svast.CallSystemEmptyStatement:
		diag.Unsupported(e.Location(), internalLoc(), "", "%s is only meaningful as a $display argument or statement, not a general rvalue", e.Name)
		return nil
	default:
		diag.Unsupported(e.Location(), internalLoc(), "", "evaluate_rhs: unimplemented call kind %d (%s)", e.Kind, e.Name)
		return nil
	}
}

func foldedInt(e svast.Expr) int {
	f, ok := e.(svast.Folder)
	if !ok {
		diag.Semantic(e.Location(), "expected a constant expression")
	}
	c := f.FoldedConstant()
	if c == nil || !c.IsFullyDefined() {
		diag.Semantic(e.Location(), "expected a fully-defined constant expression")
	}
	return constIntFromBits(c.Bits, c.Signed)
}

func constIntFromBits(bits []svast.Bit, signed bool) int {
	v := 0
	for i := len(bits) - 1; i >= 0; i-- {
		v <<= 1
		if bits[i] == svast.Bit1 {
			v |= 1
		}
	}
	if signed && len(bits) > 0 && bits[len(bits)-1] == svast.Bit1 {
		v -= 1 << uint(len(bits))
	}
	return v
}
