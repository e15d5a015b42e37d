// Package netlist implements the structural hardware netlist IR: a set of
// modules, each holding typed bit-vector wires, primitive cells, submodule
// instances, and behavioral processes. internal/irbuilder is a thin adapter
// over it, and every other package evaluates and lowers against the data
// model defined here.
package netlist

import (
	"github.com/robert-at-pretension-io/sv-elab/internal/srcloc"
	"github.com/robert-at-pretension-io/sv-elab/internal/svast"
)

// Bit is a single four-state literal, shared with svast so a Constant
// folded by the front end and a Signal bit folded by this IR compare
// equal without conversion.
type Bit = svast.Bit

const (
	Bit0 = svast.Bit0
	Bit1 = svast.Bit1
	BitX = svast.BitX
	BitZ = svast.BitZ
)

// SigBit is a single bit of a Signal: either a fixed literal or a reference
// to one bit of a Wire, by identity.
type SigBit struct {
	Const    Bit
	IsWire   bool
	Wire     *Wire
	WireBit  int
}

// ConstBit builds a literal SigBit.
func ConstBit(b Bit) SigBit { return SigBit{Const: b} }

// WireBitRef builds a SigBit referring to one bit of w.
func WireBitRef(w *Wire, bit int) SigBit {
	return SigBit{IsWire: true, Wire: w, WireBit: bit}
}

// Equal compares two bit references by identity, not by sampled value —
// two SigBits referring to the same wire bit are Equal even if that wire
// could later carry different values under simulation. A Signal borrows
// wire-bit identity rather than a value.
func (b SigBit) Equal(o SigBit) bool {
	if b.IsWire != o.IsWire {
		return false
	}
	if b.IsWire {
		return b.Wire == o.Wire && b.WireBit == o.WireBit
	}
	return b.Const == o.Const
}

// Signal is an ordered, value-typed sequence of bits, LSB first: produced
// by the evaluator, passed by value, immutable.
type Signal []SigBit

// Width returns the bit width of the signal.
func (s Signal) Width() int { return len(s) }

// FromConstant lifts a front-end Constant into a Signal of literal bits.
func FromConstant(c svast.Constant) Signal {
	sig := make(Signal, len(c.Bits))
	for i, b := range c.Bits {
		sig[i] = ConstBit(b)
	}
	return sig
}

// IsFullyConst reports whether every bit of the signal is a literal —
// the gate the IR Builder's folding policy checks.
func (s Signal) IsFullyConst() bool {
	for _, b := range s {
		if b.IsWire {
			return false
		}
	}
	return true
}

// IsFullyDefinedConst reports fully-constant AND free of X/Z, the stronger
// condition the IR Builder requires of every operand before eager folding.
func (s Signal) IsFullyDefinedConst() bool {
	for _, b := range s {
		if b.IsWire || b.Const == BitX || b.Const == BitZ {
			return false
		}
	}
	return true
}

// AsConstant extracts the literal bits, panicking if any bit is a wire
// reference — callers must check IsFullyConst first.
func (s Signal) AsConstant() svast.Constant {
	bits := make([]Bit, len(s))
	for i, b := range s {
		if b.IsWire {
			panic("netlist: AsConstant called on signal with wire bits")
		}
		bits[i] = b.Const
	}
	return svast.Constant{Bits: bits}
}

// Extract returns the bit range [lo, hi) of s, matching this
// "[raw_right*stride, stride*(raw_left-raw_right+1))" slicing convention
// used throughout RangeSelect/MemberAccess lowering.
func (s Signal) Extract(lo, hi int) Signal {
	out := make(Signal, hi-lo)
	copy(out, s[lo:hi])
	return out
}

// SignExtend/ZeroExtend grow s to width n, case 5's
// "extend/truncate with sign-fill per destination type".
func (s Signal) ZeroExtend(n int) Signal {
	if n <= len(s) {
		return s[:n]
	}
	out := make(Signal, n)
	copy(out, s)
	for i := len(s); i < n; i++ {
		out[i] = ConstBit(Bit0)
	}
	return out
}

func (s Signal) SignExtend(n int) Signal {
	if n <= len(s) {
		return s[:n]
	}
	out := make(Signal, n)
	copy(out, s)
	msb := s[len(s)-1]
	for i := len(s); i < n; i++ {
		out[i] = msb
	}
	return out
}

// Concat builds a SystemVerilog concatenation left-to-right: the leftmost
// operand becomes the most-significant bits.
func Concat(operands ...Signal) Signal {
	total := 0
	for _, o := range operands {
		total += len(o)
	}
	out := make(Signal, 0, total)
	// operands[0] is the leftmost (most significant) SV operand; append
	// from the last operand (least significant) to build LSB-first Signal.
	for i := len(operands) - 1; i >= 0; i-- {
		out = append(out, operands[i]...)
	}
	return out
}

// Wire is named multi-bit storage owned by a Module.
type Wire struct {
	ID         string
	Name       string
	Width      int
	Signed     bool
	IsPort     bool
	Direction  svast.PortDirection
	// PortIndex is the 1-based downstream port position, assigned by the
	// Hierarchy Driver's port-position fixup once every wire in the module
	// exists; zero for non-port wires.
	PortIndex  int
	Src        srcloc.Range
	Attributes []svast.Attribute
	// Init is the constant-folded "init" attribute for a Variable's
	// initializer, or nil.
	Init *svast.Constant
}

// Bit returns a SigBit reference to wire bit i.
func (w *Wire) Bit(i int) SigBit { return WireBitRef(w, i) }

// AsSignal returns the full-width Signal referring to every bit of w,
// LSB first.
func (w *Wire) AsSignal() Signal {
	sig := make(Signal, w.Width)
	for i := 0; i < w.Width; i++ {
		sig[i] = w.Bit(i)
	}
	return sig
}
