package irbuilder

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
)

func (b *Builder) foldEq(op BinOp, a, c netlist.Signal, aSigned, bSigned bool, src srcloc.Range) netlist.Signal {
	al, cl := toLits(a), toLits(c)
	n := maxLen(len(al), len(cl))
	al, cl = padLits(al, n, aSigned), padLits(cl, n, bSigned)
	eq := bitEq(al, cl)
	res := eq
	if op == OpNe {
		res = litNot(eq)
	}
	if sb, ok := litToSigBit(res); ok {
		return netlist.Signal{sb}
	}
	kind, name := binCellKind(op)
	y := freshOutput(b.Module, 1, name)
	b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: kind, Name: b.Module.NextCellName(name), A: a, B: c, Y: y, YWidth: 1, Src: src})
	return y
}

// foldEqWildcard requires b constant: positions where b is
// X/Z are dropped before comparing the remainder.
func (b *Builder) foldEqWildcard(op BinOp, a, c netlist.Signal, aSigned, bSigned bool, src srcloc.Range) netlist.Signal {
	if !c.IsFullyConst() {
		kind, name := binCellKind(op)
		y := freshOutput(b.Module, 1, name)
		b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: kind, Name: b.Module.NextCellName(name), A: a, B: c, Y: y, YWidth: 1, Src: src})
		return y
	}
	al, cl := toLits(a), toLits(c)
	n := maxLen(len(al), len(cl))
	al, cl = padLits(al, n, aSigned), padLits(cl, n, bSigned)
	eq := litTrue
	for i := 0; i < n; i++ {
		cbit := c[minInt(i, len(c)-1)]
		if !cbit.IsWire && (cbit.Const == netlist.BitX || cbit.Const == netlist.BitZ) {
			continue
		}
		eq = litAnd(eq, litXnor(al[i], cl[i]))
		if eq == litFalse {
			break
		}
	}
	res := eq
	if op == OpNeWildcard {
		res = litNot(eq)
	}
	if sb, ok := litToSigBit(res); ok {
		return netlist.Signal{sb}
	}
	kind, name := binCellKind(op)
	y := freshOutput(b.Module, 1, name)
	b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: kind, Name: b.Module.NextCellName(name), A: a, B: c, Y: y, YWidth: 1, Src: src})
	return y
}

// foldCompare implements this "Three-valued comparison": a
// definitively-known carry chain (here, the bitLt ripple) yields a
// constant, an unknown chain falls through to a comparator cell.
func (b *Builder) foldCompare(op BinOp, a, c netlist.Signal, aSigned, bSigned bool, src srcloc.Range) netlist.Signal {
	signed := aSigned || bSigned
	al, cl := toLits(a), toLits(c)
	n := maxLen(len(al), len(cl))
	al, cl = padLits(al, n, aSigned), padLits(cl, n, bSigned)

	var result lit
	switch op {
	case OpLt:
		result = bitLt(al, cl, signed)
	case OpGt:
		result = bitLt(cl, al, signed)
	case OpGe:
		result = litNot(bitLt(al, cl, signed))
	case OpLe:
		result = litNot(bitLt(cl, al, signed))
	}
	if sb, ok := litToSigBit(result); ok {
		return netlist.Signal{sb}
	}
	kind, name := binCellKind(op)
	y := freshOutput(b.Module, 1, name)
	b.Module.AddCell(&netlist.Cell{
		ID: b.Alloc.NewCellID(), Kind: kind, Name: b.Module.NextCellName(name),
		A: a, B: c, Y: y, ASigned: aSigned, BSigned: bSigned, YWidth: 1, Src: src,
	})
	return y
}

func maxLen(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// padLits extends l to n lits, replicating the sign bit when signed is true
// (matching signExtendBits in const.go) rather than always zero-filling —
// a narrower signed operand must keep its sign after widening or a
// negative value compares as if it were positive.
func padLits(l []lit, n int, signed bool) []lit {
	if len(l) >= n {
		return l
	}
	out := make([]lit, n)
	copy(out, l)
	fill := litFalse
	if signed && len(l) > 0 {
		fill = l[len(l)-1]
	}
	for i := len(l); i < n; i++ {
		out[i] = fill
	}
	return out
}
