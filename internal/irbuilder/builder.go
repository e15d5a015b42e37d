// Package irbuilder is the thin adapter over the netlist IR: one
// constructor per primitive operator, eagerly constant-folding when every
// operand is fully defined, otherwise emitting a netlist.Cell. Binary
// constant folds are memoized in a bounded LRU (github.com/hashicorp/golang-lru,
// also carried by go-probeum) keyed on opcode + operand bit pattern, scoped
// to one Builder instance: the Hierarchy Driver creates a fresh Builder for
// every module it populates, so no cache outlives one module.
package irbuilder

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/robert-at-pretension-io/sv-elab/internal/netlist"
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// BinOp enumerates the binary primitive operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDivFloor
	OpMod
	OpPow
	OpAnd
	OpOr
	OpXor
	OpXnor
	OpEq
	OpNe
	OpEqWildcard
	OpNeWildcard
	OpGe
	OpGt
	OpLe
	OpLt
	OpLogicAnd
	OpLogicOr
	OpShl
	OpShr
	OpSshl
	OpSshr
)

// UnOp enumerates the unary primitive operators.
type UnOp int

const (
	UnNot UnOp = iota
	UnNeg
	UnLogicNot
	UnReduceOr
	UnReduceAnd
	UnReduceBool
)

const foldCacheSize = 4096

// Builder is a thin adapter over one netlist.Module: for each primitive
// operator it provides a constructor that eagerly constant-folds when every
// operand is fully defined, and otherwise emits a cell.
type Builder struct {
	Module *netlist.Module
	Alloc  *netlist.IDAllocator
	cache  *lru.Cache
}

// New creates a Builder targeting module m.
func New(m *netlist.Module, alloc *netlist.IDAllocator) *Builder {
	c, err := lru.New(foldCacheSize)
	if err != nil {
		// lru.New only fails for a non-positive size, which foldCacheSize
		// never is; treat it as an internal invariant breach.
		panic(fmt.Sprintf("irbuilder: lru.New: %v", err))
	}
	return &Builder{Module: m, Alloc: alloc, cache: c}
}

type foldKey struct {
	op            int
	aSigned, bSigned bool
	yWidth        int
	a, b          string
}

func sigKey(s netlist.Signal) string {
	buf := make([]byte, len(s))
	for i, b := range s {
		if b.IsWire {
			buf[i] = 'w'
		} else {
			buf[i] = "01xz"[b.Const]
		}
	}
	return string(buf)
}

// Biop is the generic binary-primitive constructor, one per BinOp value.
func (b *Builder) Biop(op BinOp, a, y netlist.Signal, aSigned, bSigned bool, yWidth int, src srcloc.Range) netlist.Signal {
	return b.biop(op, a, y, aSigned, bSigned, yWidth, src)
}

// biop only consults the memo cache when both operands are fully-defined
// constants: sigKey collapses every wire bit to the same byte, so keying on
// it for a wire operand would let two structurally distinct cells (e.g. two
// separate 4-bit adds over different wires) collide and return each other's
// output. Constant operands have no wire bits, so the collapse is lossless
// there and memoizing is safe.
func (b *Builder) biop(op BinOp, a, y netlist.Signal, aSigned, bSigned bool, yWidth int, src srcloc.Range) netlist.Signal {
	if !a.IsFullyDefinedConst() || !y.IsFullyDefinedConst() {
		return b.foldOrEmitBiop(op, a, y, aSigned, bSigned, yWidth, src)
	}
	key := foldKey{op: int(op) + 1000, aSigned: aSigned, bSigned: bSigned, yWidth: yWidth, a: sigKey(a), b: sigKey(y)}
	if v, ok := b.cache.Get(key); ok {
		return v.(netlist.Signal)
	}
	res := b.foldOrEmitBiop(op, a, y, aSigned, bSigned, yWidth, src)
	b.cache.Add(key, res)
	return res
}

// partial-constant shortcuts checked before the general fold gate. They
// apply whether or not every operand is constant, and they take precedence
// over the general constant-fold path below even where that path would
// compute a different value (see the OpSub case).
func (b *Builder) partialBiopFold(op BinOp, a, c netlist.Signal, yWidth int) (netlist.Signal, bool) {
	switch op {
	case OpSub:
		if c.IsFullyDefinedConst() && c.AsConstant().AllOnes() {
			// Sub(a, all-ones) returns a itself (zero-extended or truncated
			// to yWidth), not the arithmetic a+1, also when a is constant.
			return a.ZeroExtend(yWidth), true
		}
	case OpLogicAnd:
		if isFullyZero(a) || isFullyZero(c) {
			return netlist.Signal{netlist.ConstBit(netlist.Bit0)}, true
		}
		if len(c) == 1 && isFullyDefinedOne(a) {
			return c, true
		}
		if len(a) == 1 && isFullyDefinedOne(c) {
			return a, true
		}
	case OpLogicOr:
		if isFullyDefinedNonzero(a) || isFullyDefinedNonzero(c) {
			return netlist.Signal{netlist.ConstBit(netlist.Bit1)}, true
		}
		if len(c) == 1 && isFullyZero(a) {
			return c, true
		}
		if len(a) == 1 && isFullyZero(c) {
			return a, true
		}
	}
	return nil, false
}

// reduceBoolLit folds the "is any bit a defined 1" reduction to a ternary
// literal, litUnk when the wire bits present can't decide it either way.
// isFullyZero/isFullyDefinedOne/isFullyDefinedNonzero operate directly on
// SigBits rather than through Signal.AsConstant (which panics on any wire
// bit) since these guards must also work on operands containing wires.
func isFullyZero(s netlist.Signal) bool {
	for _, b := range s {
		if b.IsWire || b.Const != netlist.Bit0 {
			return false
		}
	}
	return true
}

func isFullyDefinedOne(s netlist.Signal) bool {
	if len(s) != 1 {
		return false
	}
	return !s[0].IsWire && s[0].Const == netlist.Bit1
}

func isFullyDefinedNonzero(s netlist.Signal) bool {
	for _, b := range s {
		if b.IsWire {
			return false
		}
		if b.Const != netlist.Bit0 {
			if b.Const == netlist.BitX || b.Const == netlist.BitZ {
				return false
			}
		}
	}
	for _, b := range s {
		if b.Const == netlist.Bit1 {
			return true
		}
	}
	return false
}

func reduceBoolLit(s netlist.Signal) lit {
	l := litFalse
	for _, x := range toLits(s) {
		l = litOr(l, x)
	}
	return l
}

// reduceBoolSig is reduceBoolLit lifted back to a one-bit Signal for its
// caller (Unop's LogicNot fold), which only invokes it once reduceBoolLit
// is known to be decided; an undecided literal would read as 0.
func reduceBoolSig(s netlist.Signal) netlist.Signal {
	if sb, ok := litToSigBit(reduceBoolLit(s)); ok {
		return netlist.Signal{sb}
	}
	return netlist.Signal{netlist.ConstBit(netlist.Bit0)}
}

func (b *Builder) foldOrEmitBiop(op BinOp, a, c netlist.Signal, aSigned, bSigned bool, yWidth int, src srcloc.Range) netlist.Signal {
	if sig, ok := b.partialBiopFold(op, a, c, yWidth); ok {
		return sig
	}

	switch op {
	case OpEq, OpNe:
		return b.foldEq(op, a, c, aSigned, bSigned, src)
	case OpEqWildcard, OpNeWildcard:
		return b.foldEqWildcard(op, a, c, aSigned, bSigned, src)
	case OpGe, OpGt, OpLe, OpLt:
		return b.foldCompare(op, a, c, aSigned, bSigned, src)
	case OpShl, OpShr, OpSshl, OpSshr:
		return b.foldShift(op, a, c, aSigned, yWidth, src)
	}

	if a.IsFullyDefinedConst() && c.IsFullyDefinedConst() {
		if bits, ok := constBiop(op, bitsFromSignal(a), bitsFromSignal(c), aSigned, bSigned, yWidth); ok {
			return bitsToConstSignal(bits)
		}
	} else if a.IsFullyConst() && c.IsFullyConst() {
		if bits, ok := constBitwiseX(op, bitsFromSignal(a), bitsFromSignal(c), yWidth); ok {
			return bitsToConstSignal(bits)
		}
	}

	return b.emitBiop(op, a, c, aSigned, bSigned, yWidth, src)
}

func bitsToConstSignal(bits []svast.Bit) netlist.Signal {
	out := make(netlist.Signal, len(bits))
	for i, bit := range bits {
		out[i] = netlist.ConstBit(bit)
	}
	return out
}

func (b *Builder) emitBiop(op BinOp, a, c netlist.Signal, aSigned, bSigned bool, yWidth int, src srcloc.Range) netlist.Signal {
	kind, name := binCellKind(op)
	y := freshOutput(b.Module, yWidth, name)
	cell := &netlist.Cell{
		ID: b.Alloc.NewCellID(), Kind: kind, Name: b.Module.NextCellName(name),
		A: a, B: c, Y: y, ASigned: aSigned, BSigned: bSigned, YWidth: yWidth, Src: src,
	}
	b.Module.AddCell(cell)
	return y
}

func binCellKind(op BinOp) (netlist.CellKind, string) {
	switch op {
	case OpAdd:
		return netlist.CellAdd, "add"
	case OpSub:
		return netlist.CellSub, "sub"
	case OpMul:
		return netlist.CellMul, "mul"
	case OpDivFloor:
		return netlist.CellDivFloor, "div"
	case OpMod:
		return netlist.CellMod, "mod"
	case OpPow:
		return netlist.CellPow, "pow"
	case OpAnd:
		return netlist.CellAnd, "and"
	case OpOr:
		return netlist.CellOr, "or"
	case OpXor:
		return netlist.CellXor, "xor"
	case OpXnor:
		return netlist.CellXnor, "xnor"
	case OpGe:
		return netlist.CellGe, "ge"
	case OpGt:
		return netlist.CellGt, "gt"
	case OpLe:
		return netlist.CellLe, "le"
	case OpLt:
		return netlist.CellLt, "lt"
	case OpEq:
		return netlist.CellEq, "eq"
	case OpNe:
		return netlist.CellNe, "ne"
	case OpEqWildcard:
		return netlist.CellEqWildcard, "eqx"
	case OpNeWildcard:
		return netlist.CellNeWildcard, "nex"
	case OpLogicAnd:
		return netlist.CellLogicAnd, "land"
	case OpLogicOr:
		return netlist.CellLogicOr, "lor"
	case OpShl:
		return netlist.CellShl, "shl"
	case OpShr:
		return netlist.CellShr, "shr"
	case OpSshl:
		return netlist.CellSshl, "sshl"
	case OpSshr:
		return netlist.CellSshr, "sshr"
	default:
		return netlist.CellAdd, "biop"
	}
}

func freshOutput(m *netlist.Module, width int, kind string) netlist.Signal {
	w := &netlist.Wire{Name: m.NextCellName(kind) + "_y", Width: width}
	m.AddWire(w.Name, w)
	return w.AsSignal()
}

// Unop is the generic unary-primitive constructor.
func (b *Builder) Unop(op UnOp, a netlist.Signal, aSigned bool, yWidth int, src srcloc.Range) netlist.Signal {
	switch op {
	case UnLogicNot:
		if _, decided := litToSigBit(reduceBoolLit(a)); decided {
			lb, _ := singleBitConst(reduceBoolSig(a))
			return netlist.Signal{netlist.ConstBit(flipBit(lb))}
		}
		y := freshOutput(b.Module, 1, "lnot")
		b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: netlist.CellLogicNot, Name: b.Module.NextCellName("lnot"), A: a, Y: y, ASigned: aSigned, YWidth: 1, Src: src})
		return y
	case UnReduceOr, UnReduceBool:
		if sb, ok := litToSigBit(reduceBoolLit(a)); ok {
			return netlist.Signal{sb}
		}
	case UnReduceAnd:
		l := litTrue
		for _, x := range toLits(a) {
			l = litAnd(l, x)
		}
		if sb, ok := litToSigBit(l); ok {
			return netlist.Signal{sb}
		}
	}

	if a.IsFullyDefinedConst() {
		if bits, ok := constUnop(op, bitsFromSignal(a), aSigned, yWidth); ok {
			out := make(netlist.Signal, len(bits))
			for i, bit := range bits {
				out[i] = netlist.ConstBit(bit)
			}
			return out
		}
	}

	kind, name := unCellKind(op)
	y := freshOutput(b.Module, yWidth, name)
	b.Module.AddCell(&netlist.Cell{ID: b.Alloc.NewCellID(), Kind: kind, Name: b.Module.NextCellName(name), A: a, Y: y, ASigned: aSigned, YWidth: yWidth, Src: src})
	return y
}

func unCellKind(op UnOp) (netlist.CellKind, string) {
	switch op {
	case UnNot:
		return netlist.CellNot, "not"
	case UnNeg:
		return netlist.CellNeg, "neg"
	case UnReduceOr:
		return netlist.CellReduceOr, "reduce_or"
	case UnReduceAnd:
		return netlist.CellReduceAnd, "reduce_and"
	case UnReduceBool:
		return netlist.CellReduceBool, "reduce_bool"
	default:
		return netlist.CellNot, "unop"
	}
}

func singleBitConst(s netlist.Signal) (netlist.Bit, bool) {
	if len(s) == 1 && !s[0].IsWire {
		return s[0].Const, true
	}
	return 0, false
}

func flipBit(b netlist.Bit) netlist.Bit {
	if b == netlist.Bit0 {
		return netlist.Bit1
	}
	if b == netlist.Bit1 {
		return netlist.Bit0
	}
	return b
}
