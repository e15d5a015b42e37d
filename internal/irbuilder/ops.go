package irbuilder

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
)

// Named wrappers over Biop/Unop, one per exposed primitive: Add, Sub,
// Demux, Le, Ge, Lt, Eq, EqWildcard, LogicAnd, LogicOr, LogicNot, Not, Neg,
// Mux, Bwmux, Shift, Shiftx, Bmux, ReduceBool, and the generic Biop/Unop.
// Each simply pins the opcode so callers in internal/sigeval read as named
// operators instead of bare enum values.

func (b *Builder) Add(a, c netlist.Signal, as, bs bool, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpAdd, a, c, as, bs, w, src)
}
func (b *Builder) Sub(a, c netlist.Signal, as, bs bool, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpSub, a, c, as, bs, w, src)
}
func (b *Builder) Mul(a, c netlist.Signal, as, bs bool, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpMul, a, c, as, bs, w, src)
}
func (b *Builder) DivFloor(a, c netlist.Signal, as, bs bool, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpDivFloor, a, c, as, bs, w, src)
}
func (b *Builder) Mod(a, c netlist.Signal, as, bs bool, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpMod, a, c, as, bs, w, src)
}
func (b *Builder) Pow(a, c netlist.Signal, as, bs bool, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpPow, a, c, as, bs, w, src)
}
func (b *Builder) And(a, c netlist.Signal, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpAnd, a, c, false, false, w, src)
}
func (b *Builder) Or(a, c netlist.Signal, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpOr, a, c, false, false, w, src)
}
func (b *Builder) Xor(a, c netlist.Signal, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpXor, a, c, false, false, w, src)
}
func (b *Builder) Xnor(a, c netlist.Signal, w int, src srcloc.Range) netlist.Signal {
	return b.Biop(OpXnor, a, c, false, false, w, src)
}
func (b *Builder) Eq(a, c netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Biop(OpEq, a, c, false, false, 1, src)
}
func (b *Builder) Ne(a, c netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Biop(OpNe, a, c, false, false, 1, src)
}
func (b *Builder) EqWildcard(a, c netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Biop(OpEqWildcard, a, c, false, false, 1, src)
}
func (b *Builder) NeWildcard(a, c netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Biop(OpNeWildcard, a, c, false, false, 1, src)
}
func (b *Builder) Ge(a, c netlist.Signal, as, bs bool, src srcloc.Range) netlist.Signal {
	return b.Biop(OpGe, a, c, as, bs, 1, src)
}
func (b *Builder) Gt(a, c netlist.Signal, as, bs bool, src srcloc.Range) netlist.Signal {
	return b.Biop(OpGt, a, c, as, bs, 1, src)
}
func (b *Builder) Le(a, c netlist.Signal, as, bs bool, src srcloc.Range) netlist.Signal {
	return b.Biop(OpLe, a, c, as, bs, 1, src)
}
func (b *Builder) Lt(a, c netlist.Signal, as, bs bool, src srcloc.Range) netlist.Signal {
	return b.Biop(OpLt, a, c, as, bs, 1, src)
}
func (b *Builder) LogicAnd(a, c netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Biop(OpLogicAnd, a, c, false, false, 1, src)
}
func (b *Builder) LogicOr(a, c netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Biop(OpLogicOr, a, c, false, false, 1, src)
}
func (b *Builder) LogicNot(a netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Unop(UnLogicNot, a, false, 1, src)
}
func (b *Builder) Not(a netlist.Signal, w int, src srcloc.Range) netlist.Signal {
	return b.Unop(UnNot, a, false, w, src)
}
func (b *Builder) Neg(a netlist.Signal, signed bool, w int, src srcloc.Range) netlist.Signal {
	return b.Unop(UnNeg, a, signed, w, src)
}
func (b *Builder) ReduceOr(a netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Unop(UnReduceOr, a, false, 1, src)
}
func (b *Builder) ReduceAnd(a netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Unop(UnReduceAnd, a, false, 1, src)
}
func (b *Builder) ReduceBool(a netlist.Signal, src srcloc.Range) netlist.Signal {
	return b.Unop(UnReduceBool, a, false, 1, src)
}

// Mux picks whenTrue when sel is 1, whenFalse when sel is 0, matching the
// argument order internal/sigeval's Conditional lowering uses"). It
// requires equal a/b widths and a single-bit selector.
func (b *Builder) Mux(whenFalse, whenTrue, sel netlist.Signal, src srcloc.Range) netlist.Signal {
	if len(whenFalse) != len(whenTrue) {
		panic("irbuilder: Mux operands must have equal width")
	}
	if len(sel) != 1 {
		panic("irbuilder: Mux selector must be single-bit")
	}
	if !sel[0].IsWire {
		switch sel[0].Const {
		case netlist.Bit1:
			return whenTrue
		case netlist.Bit0:
			return whenFalse
		}
	}
	y := freshOutput(b.Module, len(whenFalse), "mux")
	b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: netlist.CellMux, Name: b.Module.NextCellName("mux"), A: whenFalse, B: whenTrue, S: sel, Y: y, YWidth: len(whenFalse), Src: src})
	return y
}

// Bwmux interleaves a/b per bit under sel (1 selects b's bit), used by the
// masked-assignment path in internal/proclower.
func (b *Builder) Bwmux(a, c, sel netlist.Signal, src srcloc.Range) netlist.Signal {
	if len(a) != len(c) || len(a) != len(sel) {
		panic("irbuilder: Bwmux operands must have equal width")
	}
	if sel.IsFullyConst() {
		out := make(netlist.Signal, len(a))
		for i := range a {
			switch sel[i].Const {
			case netlist.Bit1:
				out[i] = c[i]
			case netlist.Bit0:
				out[i] = a[i]
			default:
				out[i] = netlist.ConstBit(netlist.BitX)
			}
		}
		return out
	}
	y := freshOutput(b.Module, len(a), "bwmux")
	b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: netlist.CellBwmux, Name: b.Module.NextCellName("bwmux"), A: a, B: c, S: sel, Y: y, YWidth: len(a), Src: src})
	return y
}

// Demux places a at the const-s-th slot of a zero-padded width(a)*2^len(s)
// output, or emits a Demux cell when s isn't constant. Requires selector
// width < 24.
func (b *Builder) Demux(a, sel netlist.Signal, src srcloc.Range) netlist.Signal {
	if len(sel) >= 24 {
		panic("irbuilder: Demux selector width must be < 24")
	}
	width := len(a)
	slots := 1 << uint(len(sel))
	total := width * slots
	if sel.IsFullyDefinedConst() {
		slot := constToInt(sel)
		out := make(netlist.Signal, total)
		for i := range out {
			out[i] = netlist.ConstBit(netlist.Bit0)
		}
		copy(out[slot*width:slot*width+width], a)
		return out
	}
	y := freshOutput(b.Module, total, "demux")
	b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: netlist.CellDemux, Name: b.Module.NextCellName("demux"), A: a, S: sel, Y: y, YWidth: total, Src: src})
	return y
}

// Bmux extracts the stride-wide slice at offset sel*stride when sel is
// fully defined, otherwise emits a dynamic Bmux cell.
func (b *Builder) Bmux(a, sel netlist.Signal, stride int, src srcloc.Range) netlist.Signal {
	if sel.IsFullyDefinedConst() {
		idx := constToInt(sel)
		lo := idx * stride
		hi := lo + stride
		if lo < 0 || hi > len(a) {
			out := make(netlist.Signal, stride)
			for i := range out {
				out[i] = netlist.ConstBit(netlist.BitX)
			}
			return out
		}
		return a.Extract(lo, hi)
	}
	y := freshOutput(b.Module, stride, "bmux")
	b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: netlist.CellBmux, Name: b.Module.NextCellName("bmux"), A: a, S: sel, Y: y, YWidth: stride, Src: src})
	return y
}

// Shift is the named wrapper over foldShift for callers (internal/sigeval)
// that don't need the raw BinOp spelling.
func (b *Builder) Shift(op BinOp, a, amt netlist.Signal, aSigned bool, yWidth int, src srcloc.Range) netlist.Signal {
	return b.foldShift(op, a, amt, aSigned, yWidth, src)
}

// foldShift folds a shift with a constant, sub-24-bit shift amount into a
// rewired slice, sign-extended when a is signed and zero-filled otherwise,
// and otherwise emits a structural Shl/Shr/Sshl/Sshr cell. aSigned is
// whatever the caller still has on hand for a's fill; sshl/sshr forcing
// their operands unsigned happens in the caller (internal/sigeval), not
// here, so this fold preserves whatever aSigned the caller ends up passing.
func (b *Builder) foldShift(op BinOp, a, amt netlist.Signal, aSigned bool, yWidth int, src srcloc.Range) netlist.Signal {
	left := op == OpShl || op == OpSshl
	if amt.IsFullyDefinedConst() && len(amt) < 24 {
		n := constToInt(amt)
		return shiftBySlice(a, n, left, aSigned, yWidth)
	}
	kind, name := binCellKind(op)
	y := freshOutput(b.Module, yWidth, name)
	b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: kind, Name: b.Module.NextCellName(name), A: a, B: amt, Y: y, ASigned: aSigned, YWidth: yWidth, Src: src})
	return y
}

// Shiftx behaves like Shift but fills vacated/out-of-range bits with X
// instead of 0/sign, matching the "masked dynamic select" use in
// internal/proclower's lvalue etcher and internal/sigeval's dynamic
// ElementSelect path.
func (b *Builder) Shiftx(a, amt netlist.Signal, yWidth int, src srcloc.Range) netlist.Signal {
	if amt.IsFullyDefinedConst() && len(amt) < 24 {
		n := constToInt(amt)
		return shiftBySliceX(a, n, yWidth)
	}
	y := freshOutput(b.Module, yWidth, "shiftx")
	b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: netlist.CellShiftx, Name: b.Module.NextCellName("shiftx"), A: a, B: amt, Y: y, YWidth: yWidth, Src: src})
	return y
}

func shiftBySlice(a netlist.Signal, n int, left, signExtend bool, yWidth int) netlist.Signal {
	out := make(netlist.Signal, yWidth)
	fill := netlist.ConstBit(netlist.Bit0)
	if signExtend && len(a) > 0 {
		fill = a[len(a)-1]
	}
	if left {
		for i := 0; i < yWidth; i++ {
			if i < n {
				out[i] = netlist.ConstBit(netlist.Bit0)
			} else if i-n < len(a) {
				out[i] = a[i-n]
			} else {
				out[i] = netlist.ConstBit(netlist.Bit0)
			}
		}
		return out
	}
	for i := 0; i < yWidth; i++ {
		if i+n < len(a) {
			out[i] = a[i+n]
		} else {
			out[i] = fill
		}
	}
	return out
}

func shiftBySliceX(a netlist.Signal, n int, yWidth int) netlist.Signal {
	out := make(netlist.Signal, yWidth)
	for i := 0; i < yWidth; i++ {
		src := i + n
		if src >= 0 && src < len(a) {
			out[i] = a[src]
		} else {
			out[i] = netlist.ConstBit(netlist.BitX)
		}
	}
	return out
}

// constToInt reads a small fully-defined constant as a plain int, used for
// selector/shift-amount values guaranteed by callers to be well under
// machine-word range (widths < 24 per the Demux/Shift contracts).
func constToInt(s netlist.Signal) int {
	v := 0
	for i := len(s) - 1; i >= 0; i-- {
		v <<= 1
		if !s[i].IsWire && s[i].Const == netlist.Bit1 {
			v |= 1
		}
	}
	return v
}
