package sigeval

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/diag"
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// EvaluateLHS lowers expr as an assignment target: the
// subset NamedValue, RangeSelect (simple, constant), ElementSelect
// (constant), Concatenation, MemberAccess. Unlike EvaluateRHS this never
// applies ctx.Subs — the raw wire identity is what internal/proclower's
// etching loop and staging map need; substitution only matters when
// *reading* a sampled lvalue, which callers do explicitly via ApplySubs.
// A dynamic-index ElementSelect is not handled here.
func EvaluateLHS(ctx *Context, expr svast.Expr) netlist.Signal {
	switch e := expr.(type) {
	case *svast.NamedValueExpr:
		switch e.Kind {
		case svast.SymbolNet, svast.SymbolVariable:
			return ctx.WireFor(e.Symbol).AsSignal()
		default:
			diag.Semantic(e.Location(), "cannot assign to a %v", e.Kind)
			return nil
		}
	case *svast.RangeSelectExpr:
		left := foldedInt(e.Left)
		right := foldedInt(e.Right)
		rawLeft := e.ValueRange.RawIndex(left)
		rawRight := e.ValueRange.RawIndex(right)
		lo, hi := rawRight, rawLeft
		if lo > hi {
			lo, hi = hi, lo
		}
		v := EvaluateLHS(ctx, e.Value)
		return v.Extract(lo, hi+1)
	case *svast.ElementSelectExpr:
		f, ok := e.Index.(svast.Folder)
		if !ok {
			diag.Internal("dynamic-index ElementSelect reached EvaluateLHS; should have been etched first")
		}
		c := f.FoldedConstant()
		if c == nil || !c.IsFullyDefined() {
			diag.Internal("dynamic-index ElementSelect reached EvaluateLHS; should have been etched first")
		}
		raw := e.ValueRange.RawIndex(constIntFromBits(c.Bits, c.Signed))
		v := EvaluateLHS(ctx, e.Value)
		if raw < 0 || raw >= len(v) {
			diag.Semantic(e.Location(), "constant element index out of range")
		}
		return v.Extract(raw, raw+1)
	case *svast.ConcatExpr:
		operands := make([]netlist.Signal, len(e.Operands))
		for i, o := range e.Operands {
			operands[i] = EvaluateLHS(ctx, o)
		}
		return netlist.Concat(operands...)
	case *svast.MemberAccessExpr:
		v := EvaluateLHS(ctx, e.Value)
		return v.Extract(e.BitOffset, e.BitOffset+e.Width)
	default:
		diag.Unsupported(expr.Location(), internalLoc(), "", "evaluate_lhs: unimplemented lvalue kind %T", expr)
		return nil
	}
}
