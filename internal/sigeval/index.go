package sigeval

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// TranslateIndex implements this translate_index: it converts a
// SystemVerilog index expression into a 0-based raw index over rng and a
// single-bit validity signal. When idx is a compile-time constant, callers
// (evalElementSelect, internal/proclower's etching loop) short-circuit
// before reaching here; this path exists for the dynamic case, where both
// results may themselves be wire-backed signals.
func TranslateIndex(ctx *Context, idx svast.Expr, rng svast.FixedRange, loc srcloc.Range) (raw netlist.Signal, valid netlist.Signal) {
	idxSig := EvaluateRHS(ctx, idx)
	signed := idx.ExprType().IsSigned()
	// Wide enough for the index, the range bounds and the range width, plus
	// a guard bit so an out-of-range/negative raw index is representable.
	rawWidth := len(idxSig)
	for _, v := range []int{rng.Left, rng.Right, rng.Width()} {
		if v < 0 {
			v = -v
		}
		for v>>uint(rawWidth) != 0 {
			rawWidth++
		}
	}
	rawWidth++

	if rng.LittleEndian {
		offset := constSignal(rng.Right, rawWidth)
		raw = ctx.Builder.Sub(idxSig, offset, signed, false, rawWidth, loc)
	} else {
		offset := constSignal(rng.Right, rawWidth)
		raw = ctx.Builder.Sub(offset, idxSig, false, signed, rawWidth, loc)
	}

	zero := constSignal(0, rawWidth)
	widthConst := constSignal(rng.Width(), rawWidth)
	geZero := ctx.Builder.Ge(raw, zero, true, false, loc)
	ltWidth := ctx.Builder.Lt(raw, widthConst, true, false, loc)
	valid = ctx.Builder.LogicAnd(geZero, ltWidth, loc)
	return raw, valid
}

// constSignal builds a width-wide two's-complement literal Signal for v,
// LSB first. Go's arithmetic right shift on a negative int naturally
// produces the correct sign-extended bit pattern.
func constSignal(v, width int) netlist.Signal {
	out := make(netlist.Signal, width)
	for i := 0; i < width; i++ {
		if (v>>uint(i))&1 == 1 {
			out[i] = netlist.ConstBit(netlist.Bit1)
		} else {
			out[i] = netlist.ConstBit(netlist.Bit0)
		}
	}
	return out
}
